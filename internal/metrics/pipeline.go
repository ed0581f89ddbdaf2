package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordindex",
			Name:      "queries_total",
			Help:      "Total record queries",
		},
		[]string{"outcome"}, // "ok" / "invalid" / "backend_error"
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recordindex",
			Name:      "query_duration_seconds",
			Help:      "Record query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"post_processed"}, // "true" / "false"
	)

	IndexFetchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recordindex",
			Name:      "index_fetch_size",
			Help:      "Candidates requested from the index per query",
			Buckets:   []float64{20, 60, 100, 300, 1000, 3000, 10000},
		},
	)

	StageDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordindex",
			Name:      "stage_dropped_total",
			Help:      "Candidates discarded per post-processing stage",
		},
		[]string{"stage"}, // "privacy" / "resolution" / "derived" / "dedup"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(IndexFetchSize)
	prometheus.MustRegister(StageDroppedTotal)
	pipelineMetricsRegistered = true
}
