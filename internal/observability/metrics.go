package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// quality-monitoring pipeline.
type Metrics struct {
	RunsStarted   prometheus.Counter
	RunFailures   prometheus.Counter
	GateFailures  prometheus.Counter
	PublishErrors prometheus.Counter
	RowsValidated prometheus.Counter
	RowsRejected  prometheus.Counter

	QualityScore prometheus.Gauge
	RunDuration  prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsStarted,
		m.RunFailures,
		m.GateFailures,
		m.PublishErrors,
		m.RowsValidated,
		m.RowsRejected,
		m.QualityScore,
		m.RunDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_quality",
			Name:      "runs_started_total",
			Help:      "Total pipeline runs started.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_quality",
			Name:      "run_failures_total",
			Help:      "Total runs aborted by a fatal dataset error.",
		}),
		GateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_quality",
			Name:      "gate_failures_total",
			Help:      "Total runs whose report failed the accept thresholds.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_quality",
			Name:      "publish_errors_total",
			Help:      "Total report publish failures (best-effort step).",
		}),
		RowsValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_quality",
			Name:      "rows_validated_total",
			Help:      "Total rows that passed validation.",
		}),
		RowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_quality",
			Name:      "rows_rejected_total",
			Help:      "Total rows dropped by row-level validation.",
		}),
		QualityScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_quality",
			Name:      "quality_score",
			Help:      "Quality score of the most recent completed run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_quality",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-validate-score-package run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
