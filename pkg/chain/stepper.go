package chain

import (
	"math"

	"github.com/aretw0/stochclock/pkg/domain"
)

// Step returns the state that follows s for the uniform draw u.
//
// It walks the cumulative sum of Row(s) and picks the first state with
// non-zero probability whose cumulative mass reaches u. Rounding can leave
// the final cumulative entry just under 1; any u that matches nothing falls
// back to the last reachable state.
//
// Skipping zero-probability states matters only at u == 0. There the bare
// "first cumulative sum >= u" rule would pick a leading zero entry: for the
// reference row [0,0,2,14]/16 it returns 0, a transition that cannot occur,
// whereas Step returns 2.
func Step(s domain.State, m *Matrix, u float64) (domain.State, error) {
	if err := s.Validate(); err != nil {
		return s, err
	}
	if math.IsNaN(u) || u < 0 || u >= 1 {
		return s, &domain.SamplingError{Value: u}
	}

	row := m.Row(s)
	last := domain.State(n - 1)
	var cum float64
	for i := 0; i < n; i++ {
		if row[i] == 0 {
			continue
		}
		cum += row[i]
		last = domain.State(i)
		if cum >= u {
			return last, nil
		}
	}
	return last, nil
}

// Stepper advances the chain with draws from an injected Source.
type Stepper struct {
	matrix *Matrix
	source Source
}

// NewStepper binds m to src.
func NewStepper(m *Matrix, src Source) *Stepper {
	return &Stepper{matrix: m, source: src}
}

// Next draws once and returns the state following s.
func (st *Stepper) Next(s domain.State) (domain.State, error) {
	return Step(s, st.matrix, st.source.Float64())
}

// Matrix returns the bound transition matrix.
func (st *Stepper) Matrix() *Matrix {
	return st.matrix
}
