package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/aretw0/stochclock/pkg/ports"
	"github.com/google/uuid"
)

// ErrNoSource is returned by Run when the runner was configured without a
// random source.
var ErrNoSource = errors.New("runner: no random source configured")

// Runner is the live simulation context. It is owned by the goroutine that
// calls Run or Tick and must not be shared.
type Runner struct {
	// Sink receives one StateChanged per tick. Defaults to ports.Discard.
	Sink ports.StateSink

	// Logger is used for per-tick debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// InterruptSource stops the loop before the next iteration when it
	// yields or is closed.
	InterruptSource <-chan struct{}

	matrix        *chain.Matrix
	source        chain.Source
	stepper       *chain.Stepper
	pacer         Pacer
	tickRate      time.Duration
	maxTicks      uint64
	handleSignals bool
	now           func() time.Time

	state  domain.State
	visits domain.Visits
	tick   uint64
	runID  string
}

// NewRunner creates a Runner over m starting at state 0.
func NewRunner(m *chain.Matrix, opts ...Option) *Runner {
	r := &Runner{
		Sink:     ports.Discard,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		matrix:   m,
		source:   chain.NewSource(),
		tickRate: DefaultTickRate,
		now:      time.Now,
		state:    domain.InitialState,
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.source != nil {
		r.stepper = chain.NewStepper(m, r.source)
	}
	return r
}

// Run loops until ctx is cancelled, the interrupt source fires or the
// configured number of ticks has been emitted. Those are normal stops and
// return nil. A stepper or sink failure ends the loop with an error: the
// accumulator must account for every tick, so a failed tick is never skipped.
func (r *Runner) Run(ctx context.Context) error {
	if r.matrix == nil {
		return fmt.Errorf("runner: %w", &domain.ConfigError{Field: "matrix", Reason: "missing"})
	}
	if r.stepper == nil {
		return ErrNoSource
	}

	if r.handleSignals {
		signals := NewSignalManager(ctx)
		defer signals.Stop()
		ctx = signals.Context()
	}

	pacer := r.resolvePacer()
	defer pacer.Stop()

	r.Logger.Debug("runner started", "run_id", r.runID, "tick_rate", r.tickRate, "max_ticks", r.maxTicks)

	for {
		// A. Drain quit sources
		if reason, quit := r.quitRequested(ctx); quit {
			r.Logger.Debug("runner stopped", "run_id", r.runID, "reason", reason, "ticks", r.tick)
			return nil
		}

		// B. Step + accumulate
		evt, err := r.Tick(ctx)
		if err != nil {
			return err
		}

		// C. Hand off
		if err := r.Sink.Emit(ctx, evt); err != nil {
			return fmt.Errorf("emit tick %d: %w", evt.Tick, err)
		}

		// D. Pace, unless that was the last tick
		if r.maxTicksReached() {
			continue
		}
		if err := pacer.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			return fmt.Errorf("pacer: %w", err)
		}
	}
}

// Tick advances the chain once, records the visit and returns the event.
// Run calls it once per iteration; hosts with their own frame loop can call
// it directly instead of Run.
func (r *Runner) Tick(ctx context.Context) (domain.StateChanged, error) {
	if r.stepper == nil {
		return domain.StateChanged{}, ErrNoSource
	}

	next, err := r.stepper.Next(r.state)
	if err != nil {
		return domain.StateChanged{}, fmt.Errorf("tick %d: %w", r.tick+1, err)
	}

	r.state = next
	r.visits.Record(next)
	r.tick++

	evt := domain.NewStateChanged(r.tick, next, r.runID, r.now())
	r.Logger.DebugContext(ctx, "tick",
		"tick", evt.Tick,
		"state", int(evt.State),
		"color", evt.Color,
		"audio", evt.AudioCue,
		"observed_speed", r.ObservedSpeed(),
	)
	return evt, nil
}

func (r *Runner) quitRequested(ctx context.Context) (string, bool) {
	if r.maxTicksReached() {
		return "max ticks reached", true
	}
	select {
	case <-ctx.Done():
		return ctx.Err().Error(), true
	case <-r.InterruptSource:
		return "interrupted", true
	default:
		return "", false
	}
}

func (r *Runner) maxTicksReached() bool {
	return r.maxTicks > 0 && r.tick >= r.maxTicks
}

func (r *Runner) resolvePacer() Pacer {
	if r.pacer != nil {
		return r.pacer
	}
	return NewTickerPacer(r.tickRate)
}

// State returns the current chain state.
func (r *Runner) State() domain.State {
	return r.state
}

// Ticks returns how many ticks have been taken.
func (r *Runner) Ticks() uint64 {
	return r.tick
}

// Visits returns a copy of the live accumulator.
func (r *Runner) Visits() domain.Visits {
	return r.visits
}

// RunID identifies this runner in emitted events.
func (r *Runner) RunID() string {
	return r.runID
}

// TickRate returns the interval between iterations.
func (r *Runner) TickRate() time.Duration {
	return r.tickRate
}

// ObservedSpeed is the live estimate of ticks in state 0 per nominal second.
func (r *Runner) ObservedSpeed() float64 {
	if r.visits.Total == 0 || r.tickRate <= 0 {
		return 0
	}
	return r.visits.Fraction(domain.StateTick) * float64(time.Second) / float64(r.tickRate)
}

// ResetVisits starts a new measurement window without touching the chain.
func (r *Runner) ResetVisits() {
	r.visits.Reset()
}
