package simulate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
)

// cancelCheckEvery is how many steps Run takes between context checks.
const cancelCheckEvery = 4096

// Result is the outcome of one Run.
type Result struct {
	Final  domain.State  `json:"final"`
	Visits domain.Visits `json:"visits"`
	Steps  uint64        `json:"steps"`
}

// Simulator drives a Stepper offline. It is not safe for concurrent use.
type Simulator struct {
	stepper        *chain.Stepper
	ticksPerSecond float64
	state          domain.State
	logger         *slog.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithTicksPerSecond sets the steps that make one simulated second. The
// rate need not be whole: window lengths are rounded to the nearest step.
func WithTicksPerSecond(tps float64) Option {
	return func(s *Simulator) {
		s.ticksPerSecond = tps
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithStart sets the state the validation runs continue from.
func WithStart(state domain.State) Option {
	return func(s *Simulator) {
		s.state = state
	}
}

// New creates a Simulator drawing from src.
func New(m *chain.Matrix, src chain.Source, opts ...Option) *Simulator {
	s := &Simulator{
		stepper:        chain.NewStepper(m, src),
		ticksPerSecond: chain.DefaultTicksPerSecond,
		state:          domain.InitialState,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !(s.ticksPerSecond > 0) || math.IsInf(s.ticksPerSecond, 0) {
		s.ticksPerSecond = chain.DefaultTicksPerSecond
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// State returns the state the next validation window starts from.
func (s *Simulator) State() domain.State {
	return s.state
}

// TicksPerSecond returns the configured sampling rate.
func (s *Simulator) TicksPerSecond() float64 {
	return s.ticksPerSecond
}

// Run advances the chain steps times from start, counting every state
// entered. The start state itself is not counted.
func (s *Simulator) Run(ctx context.Context, start domain.State, steps uint64) (Result, error) {
	if err := start.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Final: start}
	for res.Steps < steps {
		if res.Steps%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		next, err := s.stepper.Next(res.Final)
		if err != nil {
			return res, fmt.Errorf("step %d: %w", res.Steps, err)
		}
		res.Final = next
		res.Visits.Record(next)
		res.Steps++
	}
	return res, nil
}

// advance runs one window from the simulator's own state and keeps the
// chain going from where it stopped.
func (s *Simulator) advance(ctx context.Context, label string, seconds uint64) (Window, error) {
	steps := uint64(math.Round(float64(seconds) * s.ticksPerSecond))
	res, err := s.Run(ctx, s.state, steps)
	s.state = res.Final
	if err != nil {
		return Window{}, fmt.Errorf("%s: %w", label, err)
	}

	w := newWindow(label, res, s.ticksPerSecond)
	s.logger.Debug("window complete",
		"label", label,
		"steps", res.Steps,
		"tick_surplus", w.TickSurplus,
		"observed_speed", w.ObservedSpeed,
	)
	return w, nil
}
