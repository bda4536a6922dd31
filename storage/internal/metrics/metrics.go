// Package metrics defines Prometheus metrics for the storage service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsStored counts events persisted, labeled by event type.
	EventsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwatch_storage_events_stored_total",
			Help: "Total number of events persisted to the database",
		},
		[]string{"type"},
	)

	// InsertErrors counts failed database inserts. The offset is committed
	// anyway, so each increment is a dropped event.
	InsertErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkwatch_storage_insert_errors_total",
			Help: "Total number of events dropped due to insert failures",
		},
	)

	// ConsumeErrors counts undecodable or undeliverable log messages.
	ConsumeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkwatch_storage_consume_errors_total",
			Help: "Total number of event log read or decode failures",
		},
	)

	// QueryDuration tracks read API query latency.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parkwatch_storage_query_duration_seconds",
			Help:    "Duration of window queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)
)
