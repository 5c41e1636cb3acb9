package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/aretw0/stochclock/pkg/ports"
)

// DefaultTickRate is 4 Hz.
const DefaultTickRate = 250 * time.Millisecond

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSink configures where StateChanged events go.
func WithSink(sink ports.StateSink) Option {
	return func(r *Runner) {
		if sink != nil {
			r.Sink = sink
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithSource injects the random source. Passing nil makes Run fail.
func WithSource(src chain.Source) Option {
	return func(r *Runner) {
		r.source = src
	}
}

// WithTickRate sets the interval of the default ticker pacer.
func WithTickRate(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.tickRate = d
		}
	}
}

// WithPacer replaces the default ticker.
func WithPacer(p Pacer) Option {
	return func(r *Runner) {
		r.pacer = p
	}
}

// WithMaxTicks stops Run after n ticks. Zero means no limit.
func WithMaxTicks(n uint64) Option {
	return func(r *Runner) {
		r.maxTicks = n
	}
}

// WithInterruptSource sets a channel that stops the loop before its next iteration.
func WithInterruptSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.InterruptSource = ch
	}
}

// WithSignalHandling makes Run stop on SIGINT and SIGTERM.
func WithSignalHandling(enabled bool) Option {
	return func(r *Runner) {
		r.handleSignals = enabled
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// WithStart sets the initial state. Invalid states are ignored.
func WithStart(s domain.State) Option {
	return func(r *Runner) {
		if s.Valid() {
			r.state = s
		}
	}
}

// WithClock overrides the timestamp source for events.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}
