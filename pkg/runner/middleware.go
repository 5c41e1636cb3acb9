package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/aretw0/stochclock/pkg/ports"
)

// SinkMiddleware wraps a sink to intercept or adjust each Emit.
type SinkMiddleware func(next ports.StateSink) ports.StateSink

// WrapSink applies middlewares around sink. The first middleware listed is
// the outermost.
func WrapSink(sink ports.StateSink, middlewares ...SinkMiddleware) ports.StateSink {
	for i := len(middlewares) - 1; i >= 0; i-- {
		sink = middlewares[i](sink)
	}
	return sink
}

// TimeoutMiddleware bounds every Emit by d. A sink that honours its context
// then fails with context.DeadlineExceeded instead of stalling the loop.
func TimeoutMiddleware(d time.Duration) SinkMiddleware {
	return func(next ports.StateSink) ports.StateSink {
		return ports.SinkFunc(func(ctx context.Context, evt domain.StateChanged) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Emit(ctx, evt)
		})
	}
}

// BestEffortMiddleware logs sink failures and reports success, so losing an
// optional output does not stop the clock.
func BestEffortMiddleware(logger *slog.Logger, name string) SinkMiddleware {
	return func(next ports.StateSink) ports.StateSink {
		return ports.SinkFunc(func(ctx context.Context, evt domain.StateChanged) error {
			if err := next.Emit(ctx, evt); err != nil {
				logger.Warn("sink failed, event dropped", "sink", name, "tick", evt.Tick, "err", err)
			}
			return nil
		})
	}
}
