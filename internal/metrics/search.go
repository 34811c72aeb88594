package metrics

import "github.com/prometheus/client_golang/prometheus"

// Hybrid search Prometheus metrics, labelled per retrieval channel.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexikon",
			Name:      "search_requests_total",
			Help:      "Total number of hybrid search requests",
		},
		[]string{"language", "status"}, // status: "ok" / "error" / "empty_query"
	)

	SearchChannelDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexikon",
			Name:      "search_channel_duration_seconds",
			Help:      "Per-channel retrieval duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"channel"}, // "lexical" / "vector"
	)

	SearchChannelHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexikon",
			Name:      "search_channel_hits",
			Help:      "Candidate count produced per retrieval channel",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"channel"},
	)

	SearchVectorDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lexikon",
			Name:      "search_vector_degraded_total",
			Help:      "Searches where the vector channel contributed nothing",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchChannelDuration)
	prometheus.MustRegister(SearchChannelHits)
	prometheus.MustRegister(SearchVectorDegradedTotal)
	searchMetricsRegistered = true
}
