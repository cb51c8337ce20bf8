package warehouse

import "github.com/prometheus/client_golang/prometheus"

var (
	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mfginsight",
			Name:      "warehouse_query_duration_seconds",
			Help:      "Histogram of warehouse query durations in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"query"},
	)
	queryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mfginsight",
			Name:      "warehouse_query_failures_total",
			Help:      "Total number of failed warehouse queries.",
		},
		[]string{"query"},
	)
)

func init() {
	prometheus.MustRegister(queryDuration, queryFailures)
}
