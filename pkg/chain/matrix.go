package chain

import (
	"fmt"
	"math"

	"github.com/aretw0/stochclock/pkg/domain"
)

// RowTolerance is how far a row sum may stray from 1.
const RowTolerance = 1e-9

const n = domain.NumStates

// Square is a plain 4x4 matrix used for products and powers.
type Square [n][n]float64

// Identity returns the identity matrix.
func Identity() Square {
	var id Square
	for i := range id {
		id[i][i] = 1
	}
	return id
}

// Mul returns a·b.
func (a Square) Mul(b Square) Square {
	var out Square
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if a[i][k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

// MaxAbsDiff returns the largest element-wise difference between a and b.
func (a Square) MaxAbsDiff(b Square) float64 {
	var d float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d = math.Max(d, math.Abs(a[i][j]-b[i][j]))
		}
	}
	return d
}

// Matrix is a validated row-stochastic transition matrix. It is never
// mutated after NewMatrix returns and is safe to share.
type Matrix struct {
	p          Square
	weights    Square
	normalizer float64
}

// NewMatrix divides weights by normalizer and checks that every row is a
// probability distribution.
func NewMatrix(weights [n][n]float64, normalizer float64) (*Matrix, error) {
	if math.IsNaN(normalizer) || math.IsInf(normalizer, 0) || normalizer <= 0 {
		return nil, &domain.ConfigError{Field: "normalizer", Reason: fmt.Sprintf("must be positive, got %v", normalizer)}
	}

	m := &Matrix{weights: weights, normalizer: normalizer}
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			w := weights[i][j]
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return nil, &domain.ConfigError{
					Field:  fmt.Sprintf("row %d", i),
					Reason: fmt.Sprintf("weight %d is %v, must be non-negative", j, w),
				}
			}
			m.p[i][j] = w / normalizer
			sum += m.p[i][j]
		}
		if math.Abs(sum-1) > RowTolerance {
			return nil, &domain.ConfigError{
				Field:  fmt.Sprintf("row %d", i),
				Reason: fmt.Sprintf("sums to %.12g, want 1", sum),
			}
		}
	}
	return m, nil
}

// MustMatrix is NewMatrix for package-level presets. It panics on error.
func MustMatrix(weights [n][n]float64, normalizer float64) *Matrix {
	m, err := NewMatrix(weights, normalizer)
	if err != nil {
		panic(err)
	}
	return m
}

// Row returns the transition distribution out of s. Invalid states yield
// an all-zero row.
func (m *Matrix) Row(s domain.State) [n]float64 {
	if !s.Valid() {
		return [n]float64{}
	}
	return m.p[s]
}

// At returns the probability of moving from state i to state j.
func (m *Matrix) At(i, j domain.State) float64 {
	if !i.Valid() || !j.Valid() {
		return 0
	}
	return m.p[i][j]
}

// Probabilities returns a copy of the normalised matrix.
func (m *Matrix) Probabilities() Square {
	return m.p
}

// Weights returns the weights the matrix was built from.
func (m *Matrix) Weights() Square {
	return m.weights
}

// Normalizer returns the common divisor applied to the weights.
func (m *Matrix) Normalizer() float64 {
	return m.normalizer
}

// Power returns P^k by repeated squaring. k <= 0 yields the identity.
func (m *Matrix) Power(k int) Square {
	result := Identity()
	base := m.p
	for k > 0 {
		if k&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		k >>= 1
	}
	return result
}

func (m *Matrix) String() string {
	return fmt.Sprintf("%v/%g", m.weights, m.normalizer)
}
