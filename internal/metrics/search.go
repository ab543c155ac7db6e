package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stellarsearch",
			Name:      "searches_total",
			Help:      "Total searches by detected search type",
		},
		[]string{"search_type"}, // "feature" / "event"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stellarsearch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"search_type"},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stellarsearch",
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	EventFeedErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stellarsearch",
			Name:      "event_feed_errors_total",
			Help:      "Total event feed request failures",
		},
	)

	ParserFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stellarsearch",
			Name:      "parser_fallbacks_total",
			Help:      "Total remote parser failures recovered by keyword extraction",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		SearchesTotal,
		SearchDuration,
		ResultCacheTotal,
		EventFeedErrorsTotal,
		ParserFallbacksTotal,
	)
	searchMetricsRegistered = true
}
