package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkwatch-systems/parkwatch-stack/common/middleware"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/handlers"
)

// NewRouter constructs a ServeMux with processing API routes registered.
func NewRouter(h *handlers.StatsHandler) http.Handler {
	mux := http.NewServeMux()

	// Statistics endpoints. /stats is kept as an alias for older clients.
	mux.HandleFunc("/events/stats", h.HandleStats)
	mux.HandleFunc("/stats", h.HandleStats)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// The stats API is read by a browser dashboard on another origin.
	return middleware.RequestID(middleware.CORS(middleware.DefaultCORS())(mux))
}
