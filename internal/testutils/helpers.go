package testutils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/stretchr/testify/require"
)

// MustAnalyze runs the steady-state analysis and fails the test immediately
// on error.
func MustAnalyze(t *testing.T, m *chain.Matrix, opts ...chain.AnalyzeOption) chain.Report {
	t.Helper()
	r, err := chain.Analyze(m, opts...)
	require.NoError(t, err, "steady-state analysis failed")
	return r
}

// Recorder is a StateSink that keeps every event. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []domain.StateChanged
}

func (r *Recorder) Emit(_ context.Context, evt domain.StateChanged) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []domain.StateChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.StateChanged(nil), r.events...)
}

// States returns the recorded states in order.
func (r *Recorder) States() []domain.State {
	events := r.Events()
	out := make([]domain.State, len(events))
	for i, evt := range events {
		out[i] = evt.State
	}
	return out
}

// FixedClock returns a clock that advances by step on every call, starting at start.
func FixedClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}
