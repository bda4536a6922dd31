package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/ratelimit"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/service"
)

// EventsHandler accepts meter telemetry over HTTP and hands it to the
// producer.
type EventsHandler struct {
	producer *service.Producer
	limiter  ratelimit.RateLimiter
	logger   *logging.Logger
}

func NewEventsHandler(producer *service.Producer, limiter ratelimit.RateLimiter, logger *logging.Logger) *EventsHandler {
	return &EventsHandler{producer: producer, limiter: limiter, logger: logger}
}

// HandleParkingStatus accepts a parking status reading.
// POST /parking-status
func (h *EventsHandler) HandleParkingStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.allow(w, r) {
		return
	}

	var payload events.ParkingStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.MeterID == "" || payload.DeviceID == "" || payload.Timestamp == "" {
		httputil.WriteError(w, http.StatusBadRequest, "meter_id, device_id and timestamp are required")
		return
	}

	traceID, err := h.producer.SubmitParkingStatus(r.Context(), payload)
	if err != nil {
		h.writePublishError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"trace_id": traceID})
}

// HandlePayment accepts a payment reading.
// POST /payment
func (h *EventsHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.allow(w, r) {
		return
	}

	var payload events.PaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.MeterID == "" || payload.DeviceID == "" || payload.Timestamp == "" {
		httputil.WriteError(w, http.StatusBadRequest, "meter_id, device_id and timestamp are required")
		return
	}
	if payload.Amount < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	traceID, err := h.producer.SubmitPayment(r.Context(), payload)
	if err != nil {
		h.writePublishError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"trace_id": traceID})
}

// Health reports liveness; the broker connection is part of it because a
// receiver that cannot publish is useless.
func (h *EventsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.producer.Healthy() {
		httputil.WriteError(w, http.StatusServiceUnavailable, "event log unavailable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready mirrors Health; the receiver has no warm-up phase.
func (h *EventsHandler) Ready(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

func (h *EventsHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	allowed, err := h.limiter.Allow(r.Context(), httputil.GetClientIP(r))
	if err != nil {
		// A broken limiter must not take ingestion down with it.
		h.logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request", logging.Error(err))
		return true
	}
	if !allowed {
		httputil.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return false
	}
	return true
}

func (h *EventsHandler) writePublishError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, eventlog.ErrPublishFailed) || errors.Is(err, eventlog.ErrBrokerUnreachable) {
		httputil.WriteError(w, http.StatusServiceUnavailable, "event log unavailable")
		return
	}
	h.logger.ErrorContext(r.Context(), "unexpected submit failure", logging.Error(err))
	httputil.WriteError(w, http.StatusInternalServerError, "internal error")
}
