// Package metrics defines Prometheus metrics for the processing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Passes counts completed aggregation passes.
	Passes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkwatch_processing_passes_total",
			Help: "Total number of aggregation passes",
		},
	)

	// WindowErrors counts failed window fetches, labeled by event type.
	WindowErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwatch_processing_window_errors_total",
			Help: "Total number of failed storage window fetches",
		},
		[]string{"type"},
	)

	// EventsAggregated counts events folded into the snapshot.
	EventsAggregated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwatch_processing_events_aggregated_total",
			Help: "Total number of events folded into the statistics snapshot",
		},
		[]string{"type"},
	)
)
