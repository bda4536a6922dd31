// Package handlers implements the processing read API.
package handlers

import (
	"net/http"

	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/store"
)

type StatsHandler struct {
	snapshots *store.SnapshotStore
	logger    *logging.Logger
}

func NewStatsHandler(snapshots *store.SnapshotStore, logger *logging.Logger) *StatsHandler {
	return &StatsHandler{snapshots: snapshots, logger: logger}
}

// HandleStats returns the current aggregated statistics snapshot.
// GET /events/stats (also served at /stats)
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := h.snapshots.Get()
	if snap.LastUpdated.IsZero() {
		httputil.WriteNotFound(w, "no statistics computed yet")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snap)
}

// Health reports liveness.
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready requires at least one completed aggregation pass.
func (h *StatsHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.snapshots.Get().LastUpdated.IsZero() {
		httputil.WriteError(w, http.StatusServiceUnavailable, "no aggregation pass completed yet")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
