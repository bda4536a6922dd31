package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/common/middleware"
)

// NewRouter constructs a ServeMux with anomaly API routes registered.
func NewRouter(h *handlers.AnomaliesHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/anomalies", h.HandleAnomalies)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
