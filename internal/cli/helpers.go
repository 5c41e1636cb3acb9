package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// httpServer is a listening server plus the channel its Serve error lands on.
type httpServer struct {
	srv    *http.Server
	addr   string
	errors chan error
	// cancel ends the request contexts, which closes /events streams.
	cancel context.CancelFunc
}

// startHTTP listens on addr and serves handler in the background.
func startHTTP(addr string, handler http.Handler) (*httpServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	base, cancel := context.WithCancel(context.Background())
	hs := &httpServer{
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return base },
		},
		addr:   ln.Addr().String(),
		errors: make(chan error, 1),
		cancel: cancel,
	}
	go func() {
		if err := hs.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			hs.errors <- err
		}
		close(hs.errors)
	}()
	return hs, nil
}

// shutdown stops accepting connections and waits for in-flight requests.
func (hs *httpServer) shutdown(logger *slog.Logger) {
	hs.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed, closing", "err", err)
		_ = hs.srv.Close()
	}
}
