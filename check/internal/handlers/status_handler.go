// Package handlers implements the check read API.
package handlers

import (
	"net/http"

	"github.com/parkwatch-systems/parkwatch-stack/check/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

type StatusHandler struct {
	reports *store.ReportStore
	logger  *logging.Logger
}

func NewStatusHandler(reports *store.ReportStore, logger *logging.Logger) *StatusHandler {
	return &StatusHandler{reports: reports, logger: logger}
}

// HandleStatus returns the latest fleet health report.
// GET /status
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report := h.reports.Get()
	if report.CheckedAt.IsZero() {
		httputil.WriteNotFound(w, "no sweep completed yet")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// Health reports liveness.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready requires at least one completed sweep.
func (h *StatusHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.reports.Get().CheckedAt.IsZero() {
		httputil.WriteError(w, http.StatusServiceUnavailable, "no sweep completed yet")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
