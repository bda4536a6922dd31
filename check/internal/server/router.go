package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkwatch-systems/parkwatch-stack/check/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/common/middleware"
)

// NewRouter constructs a ServeMux with check API routes registered.
func NewRouter(h *handlers.StatusHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", h.HandleStatus)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// The health report is read by a browser dashboard on another origin.
	return middleware.RequestID(middleware.CORS(middleware.DefaultCORS())(mux))
}
