package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/service"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

type fixedReplayer struct {
	envelopes []*events.Envelope
}

func (f *fixedReplayer) Replay(ctx context.Context, timeout time.Duration, fn func(*events.Envelope)) error {
	for _, env := range f.envelopes {
		fn(env)
	}
	return nil
}

func newHandler(envelopes ...*events.Envelope) *ReplayHandler {
	logger := logging.New(slog.LevelError, "text")
	svc := service.NewReplayService(&fixedReplayer{envelopes: envelopes}, logger, time.Second)
	return NewReplayHandler(svc, logger)
}

func TestHandleParkingStatusByIndex(t *testing.T) {
	h := newHandler(
		events.NewParkingStatus(events.ParkingStatusPayload{MeterID: "meter-a", DeviceID: "d", Timestamp: "2026-03-14T09:00:00"}),
		events.NewPayment(events.PaymentPayload{MeterID: "meter-x", DeviceID: "d", Amount: 2, Timestamp: "2026-03-14T09:01:00"}),
		events.NewParkingStatus(events.ParkingStatusPayload{MeterID: "meter-b", DeviceID: "d", Timestamp: "2026-03-14T09:02:00"}),
	)

	req := httptest.NewRequest(http.MethodGet, "/parking-status?index=1", nil)
	rec := httptest.NewRecorder()
	h.HandleParkingStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got events.ParkingStatusPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "meter-b", got.MeterID)
}

func TestIndexOutOfRangeIs404(t *testing.T) {
	h := newHandler(
		events.NewParkingStatus(events.ParkingStatusPayload{MeterID: "meter-a", DeviceID: "d", Timestamp: "2026-03-14T09:00:00"}),
	)

	req := httptest.NewRequest(http.MethodGet, "/payment?index=0", nil)
	rec := httptest.NewRecorder()
	h.HandlePayment(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingReplayer struct {
	err error
}

func (f *failingReplayer) Replay(ctx context.Context, timeout time.Duration, fn func(*events.Envelope)) error {
	return f.err
}

func TestBrokerFailureIs503(t *testing.T) {
	logger := logging.New(slog.LevelError, "text")
	svc := service.NewReplayService(&failingReplayer{err: eventlog.ErrBrokerUnreachable}, logger, time.Second)
	h := NewReplayHandler(svc, logger)

	req := httptest.NewRequest(http.MethodGet, "/parking-status?index=0", nil)
	rec := httptest.NewRecorder()
	h.HandleParkingStatus(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIndexValidation(t *testing.T) {
	h := newHandler()

	cases := []struct {
		name string
		url  string
	}{
		{"missing", "/parking-status"},
		{"not a number", "/parking-status?index=abc"},
		{"negative", "/parking-status?index=-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			h.HandleParkingStatus(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleStats(t *testing.T) {
	h := newHandler(
		events.NewParkingStatus(events.ParkingStatusPayload{MeterID: "a", DeviceID: "d", Timestamp: "2026-03-14T09:00:00"}),
		events.NewParkingStatus(events.ParkingStatusPayload{MeterID: "b", DeviceID: "d", Timestamp: "2026-03-14T09:01:00"}),
		events.NewPayment(events.PaymentPayload{MeterID: "a", DeviceID: "d", Amount: 1, Timestamp: "2026-03-14T09:02:00"}),
	)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"num_parking_events":2,"num_payment_events":1}`, rec.Body.String())
}
