package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "env_context"

// Fetch outcomes recorded on SourceFetches.
const (
	OutcomeSuccess       = "success"
	OutcomeError         = "error"
	OutcomeNotConfigured = "not_configured"
	OutcomePanic         = "panic"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// environmental context service.
type Metrics struct {
	// Per-source fetch metrics.
	SourceFetches       *prometheus.CounterVec   // labels: source, outcome={success,error,not_configured,panic}
	SourceFetchDuration *prometheus.HistogramVec // labels: source

	// Gather cycle metrics.
	GatherDuration  prometheus.Histogram
	SnapshotHasData prometheus.Gauge
	SlotsAvailable  prometheus.Gauge

	// Publication metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	PipelineRunning    prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()
	prometheus.MustRegister(
		m.SourceFetches,
		m.SourceFetchDuration,
		m.GatherDuration,
		m.SnapshotHasData,
		m.SlotsAvailable,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_total",
			Help:      "Data source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Data source fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),
		GatherDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gather_duration_seconds",
			Help:      "Wall time of a complete environmental gather.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 15, 20, 30},
		}),
		SnapshotHasData: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_has_data",
			Help:      "1 when the last snapshot carried live data, 0 otherwise.",
		}),
		SlotsAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_slots_available",
			Help:      "Number of populated slots in the last snapshot.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Total snapshots written to the snapshot topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total snapshot publication failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the gather pipeline is active, 0 when shut down.",
		}),
	}
}
