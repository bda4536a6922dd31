// Package metrics defines Prometheus metrics for the check service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sweeps counts completed fleet sweeps.
	Sweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkwatch_check_sweeps_total",
			Help: "Total number of completed fleet health sweeps",
		},
	)

	// CheckFailures counts failed service checks, labeled by target.
	CheckFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwatch_check_failures_total",
			Help: "Total number of failed service health checks",
		},
		[]string{"target"},
	)
)
