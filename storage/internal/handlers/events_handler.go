// Package handlers implements the storage read API.
package handlers

import (
	"net/http"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/metrics"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/repository"
)

// HealthReporter reports whether the event recorder loop is running.
type HealthReporter interface {
	Healthy() bool
}

type EventsHandler struct {
	repo     repository.Repository
	recorder HealthReporter
	logger   *logging.Logger
}

func NewEventsHandler(repo repository.Repository, recorder HealthReporter, logger *logging.Logger) *EventsHandler {
	return &EventsHandler{repo: repo, recorder: recorder, logger: logger}
}

// HandleParkingStatus returns parking status events recorded in the window
// [start_timestamp, end_timestamp).
// GET /parking-status?start_timestamp=...&end_timestamp=...
func (h *EventsHandler) HandleParkingStatus(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.window(w, r)
	if !ok {
		return
	}

	t0 := time.Now()
	records, err := h.repo.ParkingStatusWindow(r.Context(), start, end)
	metrics.QueryDuration.WithLabelValues("parking_status").Observe(time.Since(t0).Seconds())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "parking status query failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}

	h.logger.DebugContext(r.Context(), "parking status window served", logging.Count(len(records)))
	httputil.WriteJSON(w, http.StatusOK, records)
}

// HandlePayments returns payment events recorded in the window
// [start_timestamp, end_timestamp).
// GET /payment-events?start_timestamp=...&end_timestamp=...
func (h *EventsHandler) HandlePayments(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.window(w, r)
	if !ok {
		return
	}

	t0 := time.Now()
	records, err := h.repo.PaymentWindow(r.Context(), start, end)
	metrics.QueryDuration.WithLabelValues("payment_event").Observe(time.Since(t0).Seconds())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "payment query failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}

	h.logger.DebugContext(r.Context(), "payment window served", logging.Count(len(records)))
	httputil.WriteJSON(w, http.StatusOK, records)
}

// HandleStats returns total stored event counts.
// GET /stats
func (h *EventsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "stats query failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// Health reports database reachability.
func (h *EventsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready additionally requires the recorder loop to hold a live cursor.
func (h *EventsHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	if !h.recorder.Healthy() {
		httputil.WriteError(w, http.StatusServiceUnavailable, "event recorder not running")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// window parses and validates the query window parameters. The start bound
// is inclusive, the end bound exclusive.
func (h *EventsHandler) window(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return time.Time{}, time.Time{}, false
	}

	startParam := r.URL.Query().Get("start_timestamp")
	endParam := r.URL.Query().Get("end_timestamp")
	if startParam == "" || endParam == "" {
		httputil.WriteError(w, http.StatusBadRequest, "start_timestamp and end_timestamp are required")
		return time.Time{}, time.Time{}, false
	}

	start, err := httputil.ParseTimeParam(startParam)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid start_timestamp")
		return time.Time{}, time.Time{}, false
	}
	end, err := httputil.ParseTimeParam(endParam)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid end_timestamp")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
