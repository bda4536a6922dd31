// Package handlers implements the analyzer query API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/service"
	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

type ReplayHandler struct {
	service *service.ReplayService
	logger  *logging.Logger
}

func NewReplayHandler(service *service.ReplayService, logger *logging.Logger) *ReplayHandler {
	return &ReplayHandler{service: service, logger: logger}
}

// HandleParkingStatus returns the index-th parking status event in the log.
// GET /parking-status?index=N
func (h *ReplayHandler) HandleParkingStatus(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}

	payload, err := h.service.ParkingStatusAt(r.Context(), index)
	if err != nil {
		h.writeQueryError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// HandlePayment returns the index-th payment event in the log.
// GET /payment?index=N
func (h *ReplayHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}

	payload, err := h.service.PaymentAt(r.Context(), index)
	if err != nil {
		h.writeQueryError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// HandleStats returns per-type counts over the retained log.
// GET /stats
func (h *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeQueryError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// Health reports liveness.
func (h *ReplayHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready mirrors Health; replay consumers are created per query.
func (h *ReplayHandler) Ready(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

func (h *ReplayHandler) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return 0, false
	}

	param := r.URL.Query().Get("index")
	if param == "" {
		httputil.WriteError(w, http.StatusBadRequest, "index is required")
		return 0, false
	}
	index, err := strconv.Atoi(param)
	if err != nil || index < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "index must be a non-negative integer")
		return 0, false
	}
	return index, true
}

func (h *ReplayHandler) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrIndexOutOfRange) {
		httputil.WriteNotFound(w, "no event at that index")
		return
	}
	h.logger.ErrorContext(r.Context(), "replay query failed", logging.Error(err))
	httputil.WriteError(w, http.StatusServiceUnavailable, "event log unavailable")
}
