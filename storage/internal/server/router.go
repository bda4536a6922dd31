package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkwatch-systems/parkwatch-stack/common/middleware"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/handlers"
)

// NewRouter constructs a ServeMux with storage API routes registered.
func NewRouter(h *handlers.EventsHandler) http.Handler {
	mux := http.NewServeMux()

	// Window query endpoints
	mux.HandleFunc("/parking-status", h.HandleParkingStatus)
	mux.HandleFunc("/payment-events", h.HandlePayments)
	mux.HandleFunc("/stats", h.HandleStats)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
