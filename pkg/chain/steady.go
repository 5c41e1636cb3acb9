package chain

import (
	"math"

	"github.com/aretw0/stochclock/pkg/domain"
)

const (
	// DefaultExponent is the matrix power used to approximate the limit.
	DefaultExponent = 1000
	// DefaultTolerance bounds both the P^N vs P^(N+1) residual and the
	// spread between rows of P^N.
	DefaultTolerance = 1e-6
	// DefaultTicksPerSecond is the nominal sampling rate of the clock.
	DefaultTicksPerSecond = 4
	// SecondsPerDay scales speed error into drift.
	SecondsPerDay = 86400
)

// Report is the long-run behaviour of a chain.
type Report struct {
	// Distribution is the stationary distribution, read from row 0 of P^N.
	Distribution [n]float64 `json:"distribution"`
	// Powered is P^N itself.
	Powered Square `json:"powered"`
	// Speed is ticks in state 0 per nominal second. 1 means the clock keeps time.
	Speed float64 `json:"speed"`
	// DriftPerDay is the expected seconds gained (positive) or lost per day.
	DriftPerDay    float64 `json:"drift_per_day"`
	Exponent       int     `json:"exponent"`
	Residual       float64 `json:"residual"`
	RowSpread      float64 `json:"row_spread"`
	TicksPerSecond float64 `json:"ticks_per_second"`
}

// TickProbability is the long-run fraction of ticks spent in state 0.
func (r Report) TickProbability() float64 {
	return r.Distribution[domain.StateTick]
}

type analyzer struct {
	exponent       int
	tolerance      float64
	ticksPerSecond float64
}

// AnalyzeOption configures Analyze.
type AnalyzeOption func(*analyzer)

// WithExponent sets the matrix power N.
func WithExponent(exp int) AnalyzeOption {
	return func(a *analyzer) {
		a.exponent = exp
	}
}

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) AnalyzeOption {
	return func(a *analyzer) {
		a.tolerance = tol
	}
}

// WithTicksPerSecond sets how many chain steps make one nominal second.
func WithTicksPerSecond(tps float64) AnalyzeOption {
	return func(a *analyzer) {
		a.ticksPerSecond = tps
	}
}

// Analyze approximates the stationary distribution of m as a row of P^N.
//
// P^N is checked against P^(N+1); if any element moved by more than the
// tolerance the chain has not settled (or is periodic) and a
// NonConvergedError is returned. Every row of P^N must also agree with
// row 0, otherwise the chain is not ergodic and no single row describes
// its long-run behaviour.
func Analyze(m *Matrix, opts ...AnalyzeOption) (Report, error) {
	a := analyzer{
		exponent:       DefaultExponent,
		tolerance:      DefaultTolerance,
		ticksPerSecond: DefaultTicksPerSecond,
	}
	for _, opt := range opts {
		opt(&a)
	}

	if a.exponent < 1 {
		return Report{}, &domain.ConfigError{Field: "exponent", Reason: "must be at least 1"}
	}
	if math.IsNaN(a.tolerance) || a.tolerance <= 0 {
		return Report{}, &domain.ConfigError{Field: "tolerance", Reason: "must be positive"}
	}
	if math.IsNaN(a.ticksPerSecond) || a.ticksPerSecond <= 0 {
		return Report{}, &domain.ConfigError{Field: "ticks_per_second", Reason: "must be positive"}
	}

	powered := m.Power(a.exponent)
	next := powered.Mul(m.p)

	residual := powered.MaxAbsDiff(next)
	if residual > a.tolerance {
		return Report{}, &domain.NonConvergedError{
			Exponent: a.exponent,
			Residual: residual,
			Reason:   "P^N and P^(N+1) differ",
		}
	}

	spread := rowSpread(powered)
	if spread > a.tolerance {
		return Report{}, &domain.NonConvergedError{
			Exponent: a.exponent,
			Residual: spread,
			Reason:   "rows disagree, chain is not ergodic",
		}
	}

	r := Report{
		Distribution:   powered[0],
		Powered:        powered,
		Exponent:       a.exponent,
		Residual:       residual,
		RowSpread:      spread,
		TicksPerSecond: a.ticksPerSecond,
	}
	r.Speed = r.TickProbability() * a.ticksPerSecond
	r.DriftPerDay = (r.Speed - 1) * SecondsPerDay
	return r, nil
}

func rowSpread(p Square) float64 {
	var d float64
	for i := 1; i < n; i++ {
		for j := 0; j < n; j++ {
			d = math.Max(d, math.Abs(p[i][j]-p[0][j]))
		}
	}
	return d
}
