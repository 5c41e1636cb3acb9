package chain

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix_RowsSumToOne(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			w, err := Preset(name)
			require.NoError(t, err)
			m, err := NewMatrix(w, ReferenceNormalizer)
			require.NoError(t, err)

			for s := domain.State(0); s < domain.NumStates; s++ {
				var sum float64
				for _, p := range m.Row(s) {
					assert.GreaterOrEqual(t, p, 0.0)
					sum += p
				}
				assert.InDelta(t, 1.0, sum, RowTolerance, "row %d", s)
			}
		})
	}
}

func TestNewMatrix_Rejects(t *testing.T) {
	bad := ReferenceWeights
	bad[2][3] = 13

	cases := map[string]struct {
		weights    [n][n]float64
		normalizer float64
		field      string
	}{
		"row sum":         {bad, 16, "row 2"},
		"zero normalizer": {ReferenceWeights, 0, "normalizer"},
		"negative weight": {[n][n]float64{{2, -1, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}}, 1, "row 0"},
		"NaN normalizer":  {ReferenceWeights, math.NaN(), "normalizer"},
		"infinite weight": {[n][n]float64{{1, 0, 0, 0}, {math.Inf(1), 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}}, 1, "row 1"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewMatrix(tc.weights, tc.normalizer)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfig))

			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestNewMatrix_WithinTolerance(t *testing.T) {
	w := ReferenceWeights
	w[0][0] += 1e-9 // 1e-9/16 off, inside tolerance
	_, err := NewMatrix(w, ReferenceNormalizer)
	assert.NoError(t, err)
}

func TestMatrix_RowIsACopy(t *testing.T) {
	m := Reference()
	row := m.Row(domain.StateTick)
	row[0] = 42

	assert.Equal(t, 1.0/16, m.Row(domain.StateTick)[0])
	assert.Equal(t, [n]float64{}, m.Row(domain.State(7)))
	assert.Equal(t, 14.0/16, m.At(domain.StateTick, domain.StateRed))
	assert.Equal(t, 16.0, m.Normalizer())
	assert.Equal(t, Square(ReferenceWeights), m.Weights())
}

func TestMatrix_Power(t *testing.T) {
	m := Reference()

	assert.Equal(t, Identity(), m.Power(0))
	assert.Equal(t, m.Probabilities(), m.Power(1))

	p := m.Probabilities()
	cubed := p.Mul(p).Mul(p)
	assert.InDelta(t, 0, m.Power(3).MaxAbsDiff(cubed), 1e-15)
}

func TestPreset_Unknown(t *testing.T) {
	_, err := Preset("sundial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference")
	assert.Equal(t, []string{"legacy", "reference"}, PresetNames())
}

func TestMustMatrix_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMatrix(ReferenceWeights, 15) })
}
