package scan

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_scan_duration_seconds",
			Help:    "Time taken to run a complete scan",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	scanTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_scan_total",
			Help: "Total number of scan attempts",
		},
		[]string{"status"}, // success or error
	)

	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_inventory_query_duration_seconds",
			Help:    "Time taken by individual inventory queries",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"query", "status"},
	)

	recommendationCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "advisor_recommendations",
			Help: "Number of recommendations in the last report",
		},
		[]string{"view", "priority"},
	)
)

// ObserveQuery records one inventory sub-query. It matches
// collector.Observer.
func ObserveQuery(query string, elapsed time.Duration, err error) {
	queryDuration.WithLabelValues(query, status(err)).Observe(elapsed.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
