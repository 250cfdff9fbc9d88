/*
Package observability exposes Prometheus metrics for notebook runs.

Metrics are registered on a caller-owned registry so embedding applications
control exposure; the bundled HTTP server serves them under /metrics.
*/
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the run-level counters and timings.
type Metrics struct {
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the metric set on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notemill_runs_total",
				Help: "Total number of notebook executions by outcome",
			},
			[]string{"engine", "outcome"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "notemill_run_duration_seconds",
				Help: "Duration of notebook executions",
			},
			[]string{"engine"},
		),
	}
	reg.MustRegister(m.Runs, m.RunDuration)
	return m
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(engine, outcome string, seconds float64) {
	if m == nil {
		return
	}
	if engine == "" {
		engine = "default"
	}
	m.Runs.WithLabelValues(engine, outcome).Inc()
	m.RunDuration.WithLabelValues(engine).Observe(seconds)
}
