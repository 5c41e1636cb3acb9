package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/aretw0/stochclock/internal/presentation/graph"
	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/aretw0/stochclock/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a running clock over HTTP. It is also a ports.StateSink:
// every event it receives is pushed to /events subscribers.
type Server struct {
	Report chain.Report
	// Matrix enables GET /graph.
	Matrix   *chain.Matrix
	Tracker  *observability.Tracker
	Gatherer prometheus.Gatherer
	Streams  *StreamManager
	Version  string
	Logger   *slog.Logger
}

// NewServer wires the read-only views of one run.
func NewServer(report chain.Report, tracker *observability.Tracker, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		Report:   report,
		Tracker:  tracker,
		Gatherer: gatherer,
		Streams:  NewStreamManager(),
		Version:  "dev",
		Logger:   slog.Default(),
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/report", s.GetReport)
	r.Get("/visits", s.GetVisits)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "stochclock-http",
		"version": s.Version,
	})
}

// GetReport handles the GET /report request: the start-up steady-state analysis.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Report)
}

// GetVisits handles the GET /visits request: the live accumulator.
func (s *Server) GetVisits(w http.ResponseWriter, r *http.Request) {
	if s.Tracker == nil {
		http.Error(w, "no live run", http.StatusNotFound)
		return
	}
	s.writeJSON(w, s.Tracker.Snapshot())
}

// GetGraph handles the GET /graph request: a Mermaid diagram of the chain
// with the states visited so far highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	if s.Matrix == nil {
		http.Error(w, "no matrix", http.StatusNotFound)
		return
	}
	var overlay *graph.Overlay
	if s.Tracker != nil {
		snap := s.Tracker.Snapshot()
		var current *domain.State
		if snap.Last != nil {
			current = &snap.Last.State
		}
		overlay = graph.OverlayFromVisits(snap.Visits, current)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.Matrix, overlay)))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// Emit implements ports.StateSink by broadcasting to SSE subscribers.
func (s *Server) Emit(_ context.Context, evt domain.StateChanged) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	s.Streams.Broadcast(string(data))
	return nil
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	dropped     atomic.Uint64
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
	}
}

// Subscribe registers a buffered channel and returns it with its cancel func.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast never blocks the loop: slow clients lose messages.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.dropped.Add(1)
		}
	}
}

// Dropped returns how many messages slow clients missed.
func (sm *StreamManager) Dropped() uint64 {
	return sm.dropped.Load()
}

// Subscribers returns the number of connected clients.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
