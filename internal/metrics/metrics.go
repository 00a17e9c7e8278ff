// Package metrics defines the Prometheus instruments for the analysis pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	FetchAttempts    *prometheus.CounterVec // labels: mode=period|range, outcome=ok|empty|error
	FetchFallbacks   prometheus.Counter
	BarsDropped      prometheus.Counter
	ResampleBuckets  prometheus.Histogram
	AnalysesTotal    *prometheus.CounterVec // labels: status
	AnalysisDuration prometheus.Histogram
}

// New creates the metrics and registers them with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_fetch_attempts_total",
			Help: "Data source queries by mode and outcome",
		}, []string{"mode", "outcome"}),
		FetchFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_fetch_fallbacks_total",
			Help: "Period queries that fell back to an explicit date range",
		}),
		BarsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_bars_dropped_total",
			Help: "Incomplete provider rows dropped during normalization",
		}),
		ResampleBuckets: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analyzer_resample_buckets",
			Help:    "Buckets produced per resample",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_analyses_total",
			Help: "Pipeline runs by terminal status",
		}, []string{"status"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analyzer_analysis_duration_seconds",
			Help:    "End-to-end pipeline latency including the data source fetch",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.FetchAttempts,
			m.FetchFallbacks,
			m.BarsDropped,
			m.ResampleBuckets,
			m.AnalysesTotal,
			m.AnalysisDuration,
		)
	}
	return m
}

func (m *Metrics) ObserveFetch(mode, outcome string) {
	if m == nil {
		return
	}
	m.FetchAttempts.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) IncFallback() {
	if m == nil {
		return
	}
	m.FetchFallbacks.Inc()
}

func (m *Metrics) AddDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BarsDropped.Add(float64(n))
}

func (m *Metrics) ObserveResample(buckets int) {
	if m == nil {
		return
	}
	m.ResampleBuckets.Observe(float64(buckets))
}

func (m *Metrics) ObserveAnalysis(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(d.Seconds())
}
