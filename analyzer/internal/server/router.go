package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/common/middleware"
)

// NewRouter constructs a ServeMux with analyzer API routes registered.
func NewRouter(h *handlers.ReplayHandler) http.Handler {
	mux := http.NewServeMux()

	// Positional replay queries
	mux.HandleFunc("/parking-status", h.HandleParkingStatus)
	mux.HandleFunc("/payment", h.HandlePayment)
	mux.HandleFunc("/stats", h.HandleStats)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Replay results are read by a browser dashboard on another origin.
	return middleware.RequestID(middleware.CORS(middleware.DefaultCORS())(mux))
}
