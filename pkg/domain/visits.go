package domain

// Visits counts how often each state was entered during one measurement
// window. It has a single writer; copy it to hand it to readers.
type Visits struct {
	Counts [NumStates]uint64 `json:"counts"`
	Total  uint64            `json:"total"`
}

// Record counts one visit to s. Invalid states are ignored so that Total
// always equals the sum of Counts.
func (v *Visits) Record(s State) {
	if !s.Valid() {
		return
	}
	v.Counts[s]++
	v.Total++
}

// Reset starts a new window.
func (v *Visits) Reset() {
	*v = Visits{}
}

// Sum adds up the per-state counts. It equals Total for any Visits built
// through Record.
func (v Visits) Sum() uint64 {
	var n uint64
	for _, c := range v.Counts {
		n += c
	}
	return n
}

// Fractions returns the empirical distribution. All zeros for an empty window.
func (v Visits) Fractions() [NumStates]float64 {
	var f [NumStates]float64
	if v.Total == 0 {
		return f
	}
	for i, c := range v.Counts {
		f[i] = float64(c) / float64(v.Total)
	}
	return f
}

// Fraction returns the empirical frequency of s.
func (v Visits) Fraction(s State) float64 {
	if !s.Valid() || v.Total == 0 {
		return 0
	}
	return float64(v.Counts[s]) / float64(v.Total)
}
