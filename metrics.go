package emitter

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by an Emitter.
type Metrics struct {
	emits         *prometheus.CounterVec
	invocations   *prometheus.CounterVec
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions prometheus.Gauge
}

// NewMetrics creates the emitter collectors under namespace and registers
// them on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		emits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emitter_emits_total",
				Help:      "Events dispatched by signal",
			},
			[]string{"signal"},
		),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emitter_handler_invocations_total",
				Help:      "Handler invocations by signal",
			},
			[]string{"signal"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emitter_handler_failures_total",
				Help:      "Handler errors and panics by signal",
			},
			[]string{"signal"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "emitter_dispatch_seconds",
				Help:      "Time spent dispatching one event to all handlers",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"signal"},
		),
		subscriptions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "emitter_subscriptions",
				Help:      "Currently registered handlers, wildcards included",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.emits, m.invocations, m.failures, m.duration, m.subscriptions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register emitter metrics: %w", err)
		}
	}
	return m, nil
}

// The methods below are nil-safe so an Emitter without metrics can call them
// unconditionally.

func (m *Metrics) emitted(key any) {
	if m == nil {
		return
	}
	m.emits.WithLabelValues(label(key)).Inc()
}

func (m *Metrics) invoked(key any) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(label(key)).Inc()
}

func (m *Metrics) failed(key any) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(label(key)).Inc()
}

func (m *Metrics) observe(key any, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(label(key)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) subscribed(delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.subscriptions.Add(float64(delta))
}

func label(key any) string {
	if s, ok := key.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(key)
}
