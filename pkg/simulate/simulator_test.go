package simulate

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AccumulatorMatchesSteps(t *testing.T) {
	sim := New(chain.Reference(), chain.NewSeededSource(1))

	for _, steps := range []uint64{0, 1, 239, 240, 10_000} {
		res, err := sim.Run(context.Background(), domain.InitialState, steps)
		require.NoError(t, err)
		assert.Equal(t, steps, res.Steps)
		assert.Equal(t, steps, res.Visits.Total)
		assert.Equal(t, steps, res.Visits.Sum())
	}
}

func TestRun_ZeroStepsKeepsStart(t *testing.T) {
	sim := New(chain.Reference(), chain.NewSeededSource(1))
	res, err := sim.Run(context.Background(), domain.StateGreen, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StateGreen, res.Final)
}

func TestRun_Deterministic(t *testing.T) {
	m := chain.MustMatrix(chain.LegacyWeights, chain.ReferenceNormalizer)
	a, err := New(m, chain.NewSeededSource(99)).Run(context.Background(), domain.InitialState, 5000)
	require.NoError(t, err)
	b, err := New(m, chain.NewSeededSource(99)).Run(context.Background(), domain.InitialState, 5000)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRun_ScriptedDraws(t *testing.T) {
	// From state 0 the reference row is [1,14,0,1]/16: a draw of 0.01 always
	// lands in the first bucket, so the chain never leaves state 0.
	sim := New(chain.Reference(), chain.NewSequence(0.01))
	res, err := sim.Run(context.Background(), domain.StateTick, 8)
	require.NoError(t, err)

	assert.Equal(t, domain.StateTick, res.Final)
	assert.Equal(t, [domain.NumStates]uint64{8, 0, 0, 0}, res.Visits.Counts)
}

func TestRun_Errors(t *testing.T) {
	sim := New(chain.Reference(), chain.NewSeededSource(1))

	_, err := sim.Run(context.Background(), domain.State(9), 10)
	assert.True(t, errors.Is(err, domain.ErrConfig))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx, domain.InitialState, 10)
	assert.ErrorIs(t, err, context.Canceled)

	broken := New(chain.Reference(), chain.SourceFunc(func() float64 { return -1 }))
	_, err = broken.Run(context.Background(), domain.InitialState, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSampling))
	assert.Contains(t, err.Error(), "step 0")
}

func TestNew_Defaults(t *testing.T) {
	sim := New(chain.Reference(), chain.NewSeededSource(1), WithTicksPerSecond(0), WithStart(domain.StateBlue))
	assert.Equal(t, float64(chain.DefaultTicksPerSecond), sim.TicksPerSecond())
	assert.Equal(t, domain.StateBlue, sim.State())
}
