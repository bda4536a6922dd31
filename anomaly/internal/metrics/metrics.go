// Package metrics defines Prometheus metrics for the anomaly service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cycles counts detection cycles, labeled by outcome.
	Cycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwatch_anomaly_cycles_total",
			Help: "Total number of anomaly detection cycles",
		},
		[]string{"status"},
	)

	// EventsScanned counts events examined by the detector.
	EventsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkwatch_anomaly_events_scanned_total",
			Help: "Total number of events examined for anomalies",
		},
	)

	// AnomaliesFound counts detected anomalies, labeled by reason.
	AnomaliesFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwatch_anomaly_found_total",
			Help: "Total number of anomalies detected",
		},
		[]string{"reason"},
	)
)
