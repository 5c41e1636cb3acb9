package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/stochclock"
	"github.com/aretw0/stochclock/internal/logging"
	httpAdapter "github.com/aretw0/stochclock/pkg/adapters/http"
	redisAdapter "github.com/aretw0/stochclock/pkg/adapters/redis"
	"github.com/aretw0/stochclock/pkg/config"
	"github.com/aretw0/stochclock/pkg/observability"
	"github.com/aretw0/stochclock/pkg/ports"
	"github.com/aretw0/stochclock/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
)

// LoadConfig layers flags over the config file and environment.
func LoadConfig(o Options) (config.Config, error) {
	if err := config.LoadDotEnv(o.EnvFiles...); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if o.Preset != "" {
		cfg.Preset = o.Preset
		cfg.Weights = nil
	}
	if o.Seed != nil {
		cfg.Seed = o.Seed
	}
	if o.TickRate > 0 {
		cfg.TickRate = o.TickRate
	}
	if o.RedisAddr != "" {
		cfg.Redis.Addr = o.RedisAddr
	}
	if o.HTTPAddr != "" {
		cfg.HTTP.Addr = o.HTTPAddr
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	return cfg, cfg.Validate()
}

// NewLogger builds the application logger from the log settings.
func NewLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(lc.Format) {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q (text or json)", lc.Format)
	}
	return logging.NewWriter(w, level, lc.Format), nil
}

// Stack is a clock plus every sink the configuration asked for.
type Stack struct {
	Clock   *stochclock.Clock
	Logger  *slog.Logger
	Tracker *observability.Tracker
	Metrics *observability.Metrics
	// Registry backs Metrics; it is what /metrics serves.
	Registry  *prometheus.Registry
	Server    *httpAdapter.Server
	Publisher *redisAdapter.Publisher
	sinks     []ports.StateSink
}

// buildStack initializes the clock and its observability sinks with the
// standard CLI conventions.
func buildStack(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stack, error) {
	clock, err := stochclock.FromConfig(cfg, stochclock.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("error initializing clock: %w", err)
	}

	s := &Stack{
		Clock:    clock,
		Logger:   logger,
		Tracker:  observability.NewTracker(clock.TickRate()),
		Registry: prometheus.NewRegistry(),
	}

	s.Metrics, err = observability.NewMetrics(s.Registry)
	if err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}
	s.Metrics.ObserveReport(clock.Report())

	s.Server = httpAdapter.NewServer(clock.Report(), s.Tracker, s.Registry)
	s.Server.Matrix = clock.Matrix()
	s.Server.Version = stochclock.Version
	s.Server.Logger = logger

	s.sinks = []ports.StateSink{s.Tracker, s.Metrics, s.Server}

	if cfg.Redis.Addr != "" {
		opts := []redisAdapter.Option{}
		if cfg.Redis.Channel != "" {
			opts = append(opts, redisAdapter.WithChannel(cfg.Redis.Channel))
		}
		if cfg.Redis.CountersTTL > 0 {
			opts = append(opts, redisAdapter.WithCounters(cfg.Redis.CountersTTL))
		}
		pub := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := pub.Ping(ctx); err != nil {
			_ = pub.Close()
			return nil, fmt.Errorf("error connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("publishing to redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
		s.Publisher = pub

		var mws []runner.SinkMiddleware
		if cfg.Redis.BestEffort {
			mws = append(mws, runner.BestEffortMiddleware(logger, "redis"))
		}
		if cfg.Redis.Timeout > 0 {
			mws = append(mws, runner.TimeoutMiddleware(cfg.Redis.Timeout))
		}
		s.sinks = append(s.sinks, runner.WrapSink(pub, mws...))
	}
	return s, nil
}

// Sink fans out to every configured sink plus the extra ones given.
func (s *Stack) Sink(extra ...ports.StateSink) ports.StateSink {
	return ports.MultiSink(append(append([]ports.StateSink{}, s.sinks...), extra...)...)
}

// Close releases external connections.
func (s *Stack) Close() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			s.Logger.Warn("closing redis publisher", "err", err)
		}
	}
}
