package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var histogramBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1}

// Metrics are the daemon's prometheus collectors, on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	ready   prometheus.Counter
}

// NewMetrics creates and registers the daemon collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kruzic",
			Subsystem: "platform",
			Name:      "calls_total",
			Help:      "Count of platform RPCs by method and status code",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kruzic",
			Subsystem: "platform",
			Name:      "call_duration_seconds",
			Help:      "Latency distribution of platform RPCs",
			Buckets:   histogramBuckets,
		}, []string{"method"}),
		ready: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kruzic",
			Subsystem: "platform",
			Name:      "ready_total",
			Help:      "Number of ready notifications received from games",
		}),
	}
	m.Registry.MustRegister(
		m.calls,
		m.latency,
		m.ready,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observeCall(method, code string, d time.Duration) {
	m.calls.WithLabelValues(method, code).Inc()
	m.latency.WithLabelValues(method).Observe(d.Seconds())
}
