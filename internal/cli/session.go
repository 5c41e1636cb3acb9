package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/stochclock"
	"github.com/aretw0/stochclock/internal/presentation/tui"
	"github.com/aretw0/stochclock/pkg/ports"
	"github.com/aretw0/stochclock/pkg/runner"
)

// RunClock runs the realtime clock until a quit key, a signal, ctx
// cancellation or the tick limit.
func RunClock(ctx context.Context, o Options) error {
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

	if o.MetricsAddr != "" {
		hs, err := startHTTP(o.MetricsAddr, stack.Server.Handler())
		if err != nil {
			return err
		}
		defer hs.shutdown(logger)
		logger.Info("serving metrics", "addr", hs.addr)
	}

	out := o.Stdout
	var display runner.StateRenderer
	if !o.JSON && !o.NoColor && IsTerminal(o.Stdout) {
		display = tui.NewDisplay(o.Bell).Render
	}
	if !o.JSON && !o.NoBanner {
		tui.PrintBanner(out, stochclock.Version)
		r := stack.Clock.Report()
		printSystemMessage(out, "speed %.6f, drift %.2f s/day. Press q to quit.", r.Speed, r.DriftPerDay)
	}

	// Quit keys. JSON mode leaves stdin alone for whoever pipes it.
	var interrupt <-chan struct{}
	if !o.JSON {
		restore, raw := RawTerminal(o.Stdin)
		defer restore()
		if raw {
			out = NewCRLFWriter(out)
		}
		interrupt = WatchQuitKeys(o.Stdin, raw)
	}

	var terminal ports.StateSink
	if o.JSON {
		terminal = runner.NewJSONSink(out)
	} else {
		ts := runner.NewTextSink(out)
		ts.Renderer = display
		terminal = ts
	}

	run := stack.Clock.Runner(
		runner.WithSink(stack.Sink(terminal)),
		runner.WithMaxTicks(o.Ticks),
		runner.WithInterruptSource(interrupt),
		runner.WithSignalHandling(true),
	)
	runErr := run.Run(ctx)

	snap := stack.Tracker.Snapshot()
	logger.Info("run finished",
		"run_id", run.RunID(),
		"ticks", run.Ticks(),
		"observed_speed", snap.ObservedSpeed,
		"expected_speed", stack.Clock.Report().Speed,
	)
	if runErr != nil {
		return fmt.Errorf("run %s: %w", run.RunID(), runErr)
	}
	return nil
}
