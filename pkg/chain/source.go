package chain

import "math/rand/v2"

// Source yields uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// SourceFunc adapts a function to Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// NewSeededSource returns a reproducible PCG source.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSource returns a source seeded from the runtime's entropy.
func NewSource() Source {
	return NewSeededSource(rand.Uint64())
}

// Sequence replays fixed draws in order and then repeats the last one.
// Mostly useful in tests and for scripted demos.
type Sequence struct {
	draws []float64
	pos   int
}

// NewSequence returns a Source over draws. An empty sequence yields 0.
func NewSequence(draws ...float64) *Sequence {
	return &Sequence{draws: draws}
}

func (s *Sequence) Float64() float64 {
	if len(s.draws) == 0 {
		return 0
	}
	if s.pos >= len(s.draws) {
		return s.draws[len(s.draws)-1]
	}
	u := s.draws[s.pos]
	s.pos++
	return u
}
