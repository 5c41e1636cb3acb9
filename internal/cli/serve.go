package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/stochclock/pkg/runner"
)

// Serve runs the clock headless and exposes it over HTTP until a signal or
// ctx cancellation. The HTTP server is shut down gracefully on the way out.
func Serve(ctx context.Context, o Options) error {
	o = o.withDefaults()

	cfg, err := LoadConfig(o)
	if err != nil {
		return err
	}
	logger, err := NewLogger(o.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	stack, err := buildStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	hs, err := startHTTP(cfg.HTTP.Addr, stack.Server.Handler())
	if err != nil {
		return err
	}
	logger.Info("server listening", "addr", hs.addr)
	printSystemMessage(o.Stdout, "Serving on %s", hs.addr)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The server failing stops the clock.
	serveErr := make(chan error, 1)
	go func() {
		if err, ok := <-hs.errors; ok {
			serveErr <- err
			cancel()
		}
	}()

	run := stack.Clock.Runner(
		runner.WithSink(stack.Sink()),
		runner.WithMaxTicks(o.Ticks),
		runner.WithSignalHandling(true),
	)
	runErr := run.Run(runCtx)

	hs.shutdown(logger)
	logger.Info("server stopped", "run_id", run.RunID(), "ticks", run.Ticks())

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
	}
	return runErr
}
