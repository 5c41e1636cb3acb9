// Package report renders analysis and simulation results as markdown.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/aretw0/stochclock/pkg/simulate"
)

// negligible is the threshold below which residuals print as a bound rather
// than as floating-point noise.
const negligible = 1e-12

// Steady renders the matrix and its steady-state report.
func Steady(m *chain.Matrix, r chain.Report) string {
	var b strings.Builder

	b.WriteString("# Steady state\n\n")
	b.WriteString("| from \\ to | 0 | 1 | 2 | 3 |\n")
	b.WriteString("|---|---|---|---|---|\n")
	w := m.Weights()
	for i := 0; i < domain.NumStates; i++ {
		fmt.Fprintf(&b, "| %d |", i)
		for j := 0; j < domain.NumStates; j++ {
			fmt.Fprintf(&b, " %g |", w[i][j])
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nNormalizer: `%g`\n\n", m.Normalizer())

	b.WriteString("| state | colour | probability |\n")
	b.WriteString("|---|---|---|\n")
	for i, p := range r.Distribution {
		s := domain.State(i)
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i, s.Color(), fixed(p, 6))
	}

	fmt.Fprintf(&b, "\n- Speed: `%s`\n", fixed(r.Speed, 6))
	fmt.Fprintf(&b, "- Drift: `%s` s/day\n", fixed(r.DriftPerDay, 2))
	fmt.Fprintf(&b, "- Exponent: `%d`\n", r.Exponent)
	fmt.Fprintf(&b, "- Residual: `%s`\n", small(r.Residual))
	fmt.Fprintf(&b, "- Row spread: `%s`\n", small(r.RowSpread))
	fmt.Fprintf(&b, "- Ticks per second: `%g`\n", r.TicksPerSecond)
	return b.String()
}

// Windows renders simulation windows next to the analytic expectation.
func Windows(ws []simulate.Window, r chain.Report) string {
	var b strings.Builder

	b.WriteString("# Simulation\n\n")
	b.WriteString("| window | steps | 0 | 1 | 2 | 3 | speed | surplus | deviation | ok |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	failed := 0
	for _, w := range ws {
		d := simulate.Compare(w, r)
		ok := "yes"
		if !d.Within {
			ok = "no"
			failed++
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d | %s | %s | %s | %s |\n",
			w.Label, w.Steps,
			w.Visits.Counts[0], w.Visits.Counts[1], w.Visits.Counts[2], w.Visits.Counts[3],
			fixed(w.ObservedSpeed, 4), fixed(w.TickSurplus, 0), fixed(d.AbsError, 4), ok)
	}

	fmt.Fprintf(&b, "\nExpected state 0 frequency: `%s` (speed `%s`)\n", fixed(r.TickProbability(), 6), fixed(r.Speed, 6))
	if failed > 0 {
		fmt.Fprintf(&b, "\n**%d of %d windows outside 4σ**\n", failed, len(ws))
	}
	return b.String()
}

// fixed formats v with prec decimals, printing values that round to zero
// without a sign.
func fixed(v float64, prec int) string {
	scale := math.Pow(10, float64(prec))
	v = math.Round(v*scale) / scale
	if v == 0 {
		v = 0
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func small(v float64) string {
	if math.Abs(v) < negligible {
		return fmt.Sprintf("< %g", negligible)
	}
	return fmt.Sprintf("%.2e", v)
}
