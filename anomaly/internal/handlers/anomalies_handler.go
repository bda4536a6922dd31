// Package handlers implements the anomaly read API.
package handlers

import (
	"net/http"

	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

// HealthReporter reports whether the detector reached the log last cycle.
type HealthReporter interface {
	Healthy() bool
}

type AnomaliesHandler struct {
	anomalies *store.AnomalyStore
	detector  HealthReporter
	logger    *logging.Logger
}

func NewAnomaliesHandler(anomalies *store.AnomalyStore, detector HealthReporter, logger *logging.Logger) *AnomaliesHandler {
	return &AnomaliesHandler{anomalies: anomalies, detector: detector, logger: logger}
}

// HandleAnomalies returns recorded anomalies, oldest first. An optional
// limit query parameter keeps only the most recent N.
// GET /anomalies?limit=50
func (h *AnomaliesHandler) HandleAnomalies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	all := h.anomalies.All()
	if all == nil {
		all = []store.Anomaly{}
	}
	if limit := httputil.ParseIntParam(r.URL.Query().Get("limit"), 0); limit > 0 && limit < len(all) {
		all = all[len(all)-limit:]
	}
	httputil.WriteJSON(w, http.StatusOK, all)
}

// Health reports liveness. A detector that cannot reach the broker is
// degraded, not dead: the recorded anomalies stay readable.
func (h *AnomaliesHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready requires the detector's last cycle to have reached the event log.
func (h *AnomaliesHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.detector.Healthy() {
		httputil.WriteError(w, http.StatusServiceUnavailable, "detector cannot reach event log")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
