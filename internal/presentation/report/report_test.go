package report

import (
	"context"
	"testing"

	"github.com/aretw0/stochclock/internal/testutils"
	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/simulate"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteady_Reference(t *testing.T) {
	m := chain.Reference()
	r := testutils.MustAnalyze(t, m)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "steady_reference", []byte(Steady(m, r)))
}

func TestWindows(t *testing.T) {
	m := chain.Reference()
	r := testutils.MustAnalyze(t, m)

	sim := simulate.New(m, chain.NewSeededSource(1))
	ws, err := sim.ValidateMinutes(context.Background(), 3)
	require.NoError(t, err)

	out := Windows(ws, r)
	assert.Contains(t, out, "| minute 1 | 240 |")
	assert.Contains(t, out, "| minute 3 | 240 |")
	assert.Contains(t, out, "Expected state 0 frequency: `0.250000`")
}

func TestWindows_FlagsOutliers(t *testing.T) {
	r := chain.Report{Distribution: [4]float64{0.25, 0.25, 0.25, 0.25}, Speed: 1}
	w := simulate.Window{Label: "rigged"}
	w.Steps = 100
	w.Visits.Counts = [4]uint64{100, 0, 0, 0}
	w.Visits.Total = 100

	out := Windows([]simulate.Window{w}, r)
	assert.Contains(t, out, "| rigged | 100 | 100 | 0 | 0 | 0 |")
	assert.Contains(t, out, "| no |")
	assert.Contains(t, out, "1 of 1 windows outside 4σ")
}

func TestFixed_NoNegativeZero(t *testing.T) {
	assert.Equal(t, "0.00", fixed(-2.7e-10, 2))
	assert.Equal(t, "-85.40", fixed(-85.4036, 2))
	assert.Equal(t, "0.250000", fixed(0.24999999999999922, 6))
}
