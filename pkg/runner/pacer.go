package runner

import (
	"context"
	"math"
	"time"
)

// Pacer blocks between loop iterations.
type Pacer interface {
	Wait(ctx context.Context) error
	Stop()
}

// TickerPacer paces on a time.Ticker. Missed ticks are dropped, not
// replayed, so a slow sink lowers the rate instead of bursting afterwards.
type TickerPacer struct {
	ticker *time.Ticker
}

// NewTickerPacer starts a ticker with the given interval.
func NewTickerPacer(interval time.Duration) *TickerPacer {
	if interval <= 0 {
		interval = DefaultTickRate
	}
	return &TickerPacer{ticker: time.NewTicker(interval)}
}

func (p *TickerPacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
		return nil
	}
}

func (p *TickerPacer) Stop() {
	p.ticker.Stop()
}

// Unpaced never blocks. It is meant for headless runs and tests.
type Unpaced struct{}

func (Unpaced) Wait(ctx context.Context) error { return ctx.Err() }
func (Unpaced) Stop()                          {}

// RateFromHz converts a frequency into a tick interval.
// Non-positive or non-finite frequencies yield DefaultTickRate.
func RateFromHz(hz float64) time.Duration {
	if hz <= 0 || math.IsInf(hz, 0) || math.IsNaN(hz) {
		return DefaultTickRate
	}
	return time.Duration(float64(time.Second) / hz)
}
