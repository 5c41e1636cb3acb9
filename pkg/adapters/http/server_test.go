package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stochclock/internal/testutils"
	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/aretw0/stochclock/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *observability.Tracker) {
	t.Helper()
	report := testutils.MustAnalyze(t, chain.Reference())

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	metrics.ObserveReport(report)

	tracker := observability.NewTracker(250 * time.Millisecond)
	s := NewServer(report, tracker, reg)
	s.Version = "1.2.3"
	return s, tracker
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s.Handler(), "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetInfo(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s.Handler(), "/info")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "stochclock-http", resp["app"])
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestGetReport(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s.Handler(), "/report")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp chain.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.InDelta(t, 1.0, resp.Speed, 1e-9)
	assert.Equal(t, chain.DefaultExponent, resp.Exponent)
}

func TestGetVisits(t *testing.T) {
	s, tracker := newTestServer(t)
	for i, st := range []domain.State{0, 1, 1} {
		require.NoError(t, tracker.Emit(context.Background(), domain.NewStateChanged(uint64(i+1), st, "r", time.Time{})))
	}

	rr := get(t, s.Handler(), "/visits")
	require.Equal(t, http.StatusOK, rr.Code)

	var snap observability.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, uint64(3), snap.Visits.Total)
	assert.Equal(t, uint64(2), snap.Visits.Counts[1])

	s.Tracker = nil
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/visits").Code)
}

func TestGetGraph(t *testing.T) {
	s, tracker := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/graph").Code)

	s.Matrix = chain.Reference()
	require.NoError(t, tracker.Emit(context.Background(), domain.NewStateChanged(1, domain.StateRed, "r", time.Time{})))

	rr := get(t, s.Handler(), "/graph")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "graph LR\n"))
	assert.Contains(t, body, "s0 -- \"14/16\" --> s1")
	assert.Contains(t, body, "class s1 current;")
}

func TestGetMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(t, s.Handler(), "/metrics")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "# TYPE stochclock_steady_state_speed gauge")
	assert.Contains(t, rr.Body.String(), "stochclock_steady_state_probability{state=\"0\"}")
}

func TestOptions_CORS(t *testing.T) {
	s, _ := newTestServer(t)
	req, _ := http.NewRequest("OPTIONS", "/report", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSubscribeEvents(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	require.Eventually(t, func() bool { return s.Streams.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, s.Emit(ctx, domain.NewStateChanged(1, domain.StateTick, "run-z", time.Time{})))

	var data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
			break
		}
	}

	var evt domain.StateChanged
	require.NoError(t, json.Unmarshal([]byte(data), &evt))
	assert.Equal(t, domain.StateTick, evt.State)
	assert.True(t, evt.AudioCue)
	assert.Equal(t, "run-z", evt.RunID)
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe()

	for i := 0; i < 20; i++ {
		sm.Broadcast("x")
	}
	assert.Len(t, ch, 16)
	assert.Equal(t, uint64(4), sm.Dropped())

	cancel()
	cancel()
	assert.Zero(t, sm.Subscribers())
}
