package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/stochclock/pkg/domain"
)

// Snapshot is a point-in-time view of a live run.
type Snapshot struct {
	RunID         string                    `json:"run_id,omitempty"`
	Last          *domain.StateChanged      `json:"last,omitempty"`
	Visits        domain.Visits             `json:"visits"`
	Fractions     [domain.NumStates]float64 `json:"fractions"`
	ObservedSpeed float64                   `json:"observed_speed"`
}

// Tracker mirrors the loop's accumulator for concurrent readers. The loop
// itself stays lock-free; the lock lives here, on the reader side.
type Tracker struct {
	mu             sync.RWMutex
	ticksPerSecond float64
	last           *domain.StateChanged
	visits         domain.Visits
}

// NewTracker creates a tracker for a loop paced at tickRate.
func NewTracker(tickRate time.Duration) *Tracker {
	tps := 4.0
	if tickRate > 0 {
		tps = float64(time.Second) / float64(tickRate)
	}
	return &Tracker{ticksPerSecond: tps}
}

// Emit implements ports.StateSink.
func (t *Tracker) Emit(_ context.Context, evt domain.StateChanged) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := evt
	t.last = &e
	t.visits.Record(evt.State)
	return nil
}

// Snapshot returns a copy of the current view.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		Visits:    t.visits,
		Fractions: t.visits.Fractions(),
	}
	if t.last != nil {
		last := *t.last
		s.Last = &last
		s.RunID = last.RunID
	}
	s.ObservedSpeed = s.Fractions[domain.StateTick] * t.ticksPerSecond
	return s
}

// Reset starts a new measurement window.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visits.Reset()
}
