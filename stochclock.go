package stochclock

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stochclock/internal/logging"
	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/config"
	"github.com/aretw0/stochclock/pkg/runner"
	"github.com/aretw0/stochclock/pkg/simulate"
)

// Version is the release of the stochclock module.
const Version = "0.1.0"

// Clock is the high-level entry point for the library.
// It holds a validated matrix together with its steady-state report and
// hands out simulators and realtime runners that share its random source.
//
// The source is not synchronised: drive one simulator or runner at a time,
// or give each its own source through their options.
type Clock struct {
	matrix      *chain.Matrix
	source      chain.Source
	tickRate    time.Duration
	analyzeOpts []chain.AnalyzeOption
	logger      *slog.Logger
	report      chain.Report
}

// Option defines a functional option for configuring the Clock.
type Option func(*Clock)

// WithMatrix replaces the reference matrix.
func WithMatrix(m *chain.Matrix) Option {
	return func(c *Clock) {
		c.matrix = m
	}
}

// WithSource injects the random source.
func WithSource(src chain.Source) Option {
	return func(c *Clock) {
		c.source = src
	}
}

// WithSeed uses a reproducible PCG source.
func WithSeed(seed uint64) Option {
	return func(c *Clock) {
		c.source = chain.NewSeededSource(seed)
	}
}

// WithTickRate sets the interval between realtime ticks (default 250ms).
// It also fixes how many steps make one second for analysis and simulation.
func WithTickRate(d time.Duration) Option {
	return func(c *Clock) {
		c.tickRate = d
	}
}

// WithExponent sets the matrix power used by the steady-state analysis.
func WithExponent(exp int) Option {
	return func(c *Clock) {
		c.analyzeOpts = append(c.analyzeOpts, chain.WithExponent(exp))
	}
}

// WithTolerance sets the convergence tolerance of the steady-state analysis.
func WithTolerance(tol float64) Option {
	return func(c *Clock) {
		c.analyzeOpts = append(c.analyzeOpts, chain.WithTolerance(tol))
	}
}

// WithLogger sets a custom structured logger for the clock.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Clock) {
		c.logger = logger
	}
}

// New validates the configuration and runs the steady-state analysis once.
// A chain that does not converge is rejected with a NonConvergedError.
func New(opts ...Option) (*Clock, error) {
	c := &Clock{
		tickRate: runner.DefaultTickRate,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.matrix == nil {
		c.matrix = chain.Reference()
	}
	if c.source == nil {
		c.source = chain.NewSource()
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.tickRate <= 0 {
		return nil, fmt.Errorf("invalid tick rate %v", c.tickRate)
	}

	analyzeOpts := append([]chain.AnalyzeOption{chain.WithTicksPerSecond(c.TicksPerSecond())}, c.analyzeOpts...)
	report, err := chain.Analyze(c.matrix, analyzeOpts...)
	if err != nil {
		return nil, fmt.Errorf("steady state: %w", err)
	}
	c.report = report

	c.logger.Info("steady state",
		"distribution", report.Distribution,
		"speed", report.Speed,
		"drift_per_day", report.DriftPerDay,
		"exponent", report.Exponent,
		"residual", report.Residual,
	)
	return c, nil
}

// FromConfig builds a Clock from a loaded configuration. Extra options are
// applied after the configured ones.
func FromConfig(cfg config.Config, opts ...Option) (*Clock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := cfg.Matrix()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithMatrix(m),
		WithSource(cfg.Source()),
		WithTickRate(cfg.TickRate),
		WithExponent(cfg.Exponent),
		WithTolerance(cfg.Tolerance),
	}
	return New(append(base, opts...)...)
}

// Matrix returns the transition matrix.
func (c *Clock) Matrix() *chain.Matrix {
	return c.matrix
}

// Report returns the steady-state report computed by New.
func (c *Clock) Report() chain.Report {
	return c.report
}

// Source returns the random source shared by simulators and runners.
func (c *Clock) Source() chain.Source {
	return c.source
}

// TickRate returns the realtime tick interval.
func (c *Clock) TickRate() time.Duration {
	return c.tickRate
}

// TicksPerSecond is the number of steps that make one nominal second.
func (c *Clock) TicksPerSecond() float64 {
	return float64(time.Second) / float64(c.tickRate)
}

// Simulator returns an offline simulator over the clock's matrix and source.
func (c *Clock) Simulator(opts ...simulate.Option) *simulate.Simulator {
	base := []simulate.Option{
		simulate.WithTicksPerSecond(c.TicksPerSecond()),
		simulate.WithLogger(c.logger),
	}
	return simulate.New(c.matrix, c.source, append(base, opts...)...)
}

// Runner returns a realtime driver over the clock's matrix and source.
func (c *Clock) Runner(opts ...runner.Option) *runner.Runner {
	base := []runner.Option{
		runner.WithSource(c.source),
		runner.WithTickRate(c.tickRate),
		runner.WithLogger(c.logger),
	}
	return runner.NewRunner(c.matrix, append(base, opts...)...)
}
