package handlers

import "github.com/prometheus/client_golang/prometheus"

var activeSuggestSockets = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "searchfront_suggestion_connections_active",
		Help: "Number of open live suggestion connections",
	},
)

func init() {
	prometheus.MustRegister(activeSuggestSockets)
}
