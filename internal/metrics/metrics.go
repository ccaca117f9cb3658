// Package metrics exposes Prometheus instrumentation for the upload and
// analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts completed upload analyses by outcome.
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insightengine_analyses_total",
		Help: "Completed upload analyses by status.",
	}, []string{"status"})

	// AnalysisDuration observes end-to-end upload processing latency.
	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insightengine_analysis_duration_seconds",
		Help:    "End-to-end upload analysis latency.",
		Buckets: prometheus.DefBuckets,
	})

	// AnalyzedRowsTotal counts data rows processed across all analyses.
	AnalyzedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insightengine_analyzed_rows_total",
		Help: "Data rows processed across all analyses.",
	})

	// QualityScore observes the distribution of data quality scores.
	QualityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insightengine_quality_score",
		Help:    "Distribution of data quality scores (0-100).",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})
)
