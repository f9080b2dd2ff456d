package backend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal *prometheus.CounterVec

	requestDuration *prometheus.HistogramVec
)

func init() {
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchfront",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of requests sent to the search backend",
		},
		[]string{"op", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchfront",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"op"},
	)

	prometheus.MustRegister(requestsTotal, requestDuration)
}

func recordRequest(op string, status string, seconds float64) {
	requestsTotal.WithLabelValues(op, status).Inc()
	requestDuration.WithLabelValues(op).Observe(seconds)
}
