package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/ratelimit"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/service"
)

type fakePublisher struct {
	published []*events.Envelope
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, env *events.Envelope) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, env)
	return nil
}

func (f *fakePublisher) IsConnected() bool { return f.err == nil }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(ctx context.Context, key string) (bool, error) { return false, nil }
func (denyAllLimiter) Close() error                                        { return nil }

func newTestHandler(pub *fakePublisher) *EventsHandler {
	logger := logging.New(slog.LevelError, "text")
	producer := service.NewProducer(pub, logger)
	return NewEventsHandler(producer, &ratelimit.NoOpRateLimiter{}, logger)
}

func TestHandleParkingStatusCreated(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestHandler(pub)

	body := `{"meter_id":"meter-1","device_id":"device-1","status":true,"spot_number":7,"timestamp":"2026-03-14T09:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/parking-status", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleParkingStatus(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["trace_id"])

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeParkingStatus, pub.published[0].Type)
	assert.Equal(t, resp["trace_id"], pub.published[0].CorrelationID())
}

func TestHandlePaymentCreated(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestHandler(pub)

	body := `{"meter_id":"meter-2","device_id":"device-9","amount":4.5,"duration":30,"timestamp":"2026-03-14T09:10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePayment(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypePayment, pub.published[0].Type)
}

func TestHandleParkingStatusValidation(t *testing.T) {
	h := newTestHandler(&fakePublisher{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing meter_id", `{"device_id":"d","timestamp":"2026-03-14T09:00:00"}`},
		{"missing timestamp", `{"meter_id":"m","device_id":"d"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/parking-status", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.HandleParkingStatus(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlePaymentRejectsNegativeAmount(t *testing.T) {
	h := newTestHandler(&fakePublisher{})

	body := `{"meter_id":"m","device_id":"d","amount":-1,"duration":30,"timestamp":"2026-03-14T09:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePayment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEventMethodNotAllowed(t *testing.T) {
	h := newTestHandler(&fakePublisher{})

	req := httptest.NewRequest(http.MethodGet, "/payment", nil)
	rec := httptest.NewRecorder()
	h.HandlePayment(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlePaymentBrokerDown(t *testing.T) {
	pub := &fakePublisher{err: eventlog.ErrPublishFailed}
	h := newTestHandler(pub)

	body := `{"meter_id":"m","device_id":"d","amount":2,"duration":30,"timestamp":"2026-03-14T09:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePayment(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitedRequestRejected(t *testing.T) {
	logger := logging.New(slog.LevelError, "text")
	producer := service.NewProducer(&fakePublisher{}, logger)
	h := NewEventsHandler(producer, denyAllLimiter{}, logger)

	body := `{"meter_id":"m","device_id":"d","amount":2,"duration":30,"timestamp":"2026-03-14T09:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePayment(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHealthReflectsBrokerConnection(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestHandler(pub)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	pub.err = eventlog.ErrBrokerUnreachable
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
