package observability

import (
	"context"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stochclock"

// Metrics exports the live run as Prometheus collectors.
type Metrics struct {
	visits   *prometheus.CounterVec
	ticks    prometheus.Counter
	clicks   prometheus.Counter
	current  prometheus.Gauge
	speed    prometheus.Gauge
	drift    prometheus.Gauge
	expected *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the global handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_visits_total",
			Help:      "Ticks that landed in each chain state.",
		}, []string{"state", "color"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Chain steps taken by the live loop.",
		}),
		clicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_cues_total",
			Help:      "Ticks that carried the audio cue.",
		}),
		current: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_state",
			Help:      "State emitted by the latest tick.",
		}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "steady_state_speed",
			Help:      "Analytic ticks in state 0 per nominal second.",
		}),
		drift: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "steady_state_drift_seconds_per_day",
			Help:      "Analytic drift against wall-clock seconds.",
		}),
		expected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "steady_state_probability",
			Help:      "Stationary probability of each state.",
		}, []string{"state"}),
	}

	collectors := []prometheus.Collector{m.visits, m.ticks, m.clicks, m.current, m.speed, m.drift, m.expected}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveReport publishes the one-time steady-state analysis.
func (m *Metrics) ObserveReport(r chain.Report) {
	m.speed.Set(r.Speed)
	m.drift.Set(r.DriftPerDay)
	for i, p := range r.Distribution {
		m.expected.WithLabelValues(domain.State(i).String()).Set(p)
	}
}

// Emit implements ports.StateSink.
func (m *Metrics) Emit(_ context.Context, evt domain.StateChanged) error {
	m.visits.WithLabelValues(evt.State.String(), string(evt.Color)).Inc()
	m.ticks.Inc()
	if evt.AudioCue {
		m.clicks.Inc()
	}
	m.current.Set(float64(evt.State))
	return nil
}
