package simulate

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
)

const (
	// SecondsPerMinute is the length of one short validation window.
	SecondsPerMinute = 60
	// DefaultMinuteWindows is how many minutes ValidateMinutes runs by default.
	DefaultMinuteWindows = 20
)

// Window is the report for one measurement window.
type Window struct {
	Label string `json:"label"`
	Result
	// ObservedSpeed is visits to state 0 per simulated second.
	ObservedSpeed float64 `json:"observed_speed"`
	// TickSurplus is visits to state 0 minus the seconds the window spans:
	// positive when the clock ran fast.
	TickSurplus float64                   `json:"tick_surplus"`
	Fractions   [domain.NumStates]float64 `json:"fractions"`
}

func newWindow(label string, res Result, tps float64) Window {
	w := Window{
		Label:     label,
		Result:    res,
		Fractions: res.Visits.Fractions(),
	}
	ticks := float64(res.Visits.Counts[domain.StateTick])
	w.TickSurplus = ticks - float64(res.Steps)/tps
	if res.Steps > 0 {
		w.ObservedSpeed = ticks / float64(res.Steps) * tps
	}
	return w
}

// ValidateMinutes runs windows simulated minutes back to back. The chain
// carries over between windows; the counts do not.
func (s *Simulator) ValidateMinutes(ctx context.Context, windows int) ([]Window, error) {
	if windows <= 0 {
		windows = DefaultMinuteWindows
	}
	out := make([]Window, 0, windows)
	for i := 0; i < windows; i++ {
		w, err := s.advance(ctx, fmt.Sprintf("minute %d", i+1), SecondsPerMinute)
		if err != nil {
			return out, err
		}
		out = append(out, w)
	}
	return out, nil
}

// ValidateDay runs one simulated day.
func (s *Simulator) ValidateDay(ctx context.Context) (Window, error) {
	return s.advance(ctx, "day", chain.SecondsPerDay)
}

// Deviation compares a window with the analytic steady state.
type Deviation struct {
	Observed float64 `json:"observed"`
	Expected float64 `json:"expected"`
	AbsError float64 `json:"abs_error"`
	// Bound is four binomial standard deviations at the window's size. It
	// shrinks as 1/sqrt(steps).
	Bound  float64 `json:"bound"`
	Within bool    `json:"within"`
}

// Compare checks the observed frequency of state 0 against the report.
func Compare(w Window, r chain.Report) Deviation {
	p := r.TickProbability()
	d := Deviation{
		Observed: w.Visits.Fraction(domain.StateTick),
		Expected: p,
	}
	d.AbsError = math.Abs(d.Observed - d.Expected)
	if w.Steps > 0 {
		d.Bound = 4 * math.Sqrt(p*(1-p)/float64(w.Steps))
	}
	d.Within = d.AbsError <= d.Bound
	return d
}
