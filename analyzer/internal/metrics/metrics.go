// Package metrics defines Prometheus metrics for the analyzer service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Replays counts full log replays, labeled by outcome.
	Replays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwatch_analyzer_replays_total",
			Help: "Total number of event log replays",
		},
		[]string{"status"},
	)

	// ReplayDuration tracks how long a full log replay takes.
	ReplayDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parkwatch_analyzer_replay_duration_seconds",
			Help:    "Duration of full event log replays in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)
