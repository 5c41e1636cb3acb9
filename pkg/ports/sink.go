package ports

import (
	"context"
	"errors"

	"github.com/aretw0/stochclock/pkg/domain"
)

// StateSink consumes the per-tick notification. Emit is called from the
// driver's loop goroutine; implementations that are read from elsewhere must
// synchronise on their own side.
type StateSink interface {
	Emit(ctx context.Context, evt domain.StateChanged) error
}

// SinkFunc adapts a function to StateSink.
type SinkFunc func(ctx context.Context, evt domain.StateChanged) error

func (f SinkFunc) Emit(ctx context.Context, evt domain.StateChanged) error {
	return f(ctx, evt)
}

// Discard drops every event.
var Discard StateSink = SinkFunc(func(context.Context, domain.StateChanged) error { return nil })

// MultiSink fans one event out to several sinks in order. Every sink sees
// the event even if an earlier one failed; the errors are joined.
func MultiSink(sinks ...StateSink) StateSink {
	active := make([]StateSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return SinkFunc(func(ctx context.Context, evt domain.StateChanged) error {
		var errs []error
		for _, s := range active {
			if err := s.Emit(ctx, evt); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
