package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/models"
)

type stubRepo struct {
	parking  []models.ParkingStatusRecord
	payments []models.PaymentRecord
	stats    models.Stats
	queryErr error
	gotStart time.Time
	gotEnd   time.Time
}

func (s *stubRepo) InsertParkingStatus(ctx context.Context, p events.ParkingStatusPayload) error {
	return nil
}

func (s *stubRepo) InsertPayment(ctx context.Context, p events.PaymentPayload) error { return nil }

func (s *stubRepo) ParkingStatusWindow(ctx context.Context, start, end time.Time) ([]models.ParkingStatusRecord, error) {
	s.gotStart, s.gotEnd = start, end
	return s.parking, s.queryErr
}

func (s *stubRepo) PaymentWindow(ctx context.Context, start, end time.Time) ([]models.PaymentRecord, error) {
	s.gotStart, s.gotEnd = start, end
	return s.payments, s.queryErr
}

func (s *stubRepo) Stats(ctx context.Context) (models.Stats, error) {
	return s.stats, s.queryErr
}

func (s *stubRepo) Ping(ctx context.Context) error { return s.queryErr }
func (s *stubRepo) Close()                         {}

type alwaysHealthy struct{}

func (alwaysHealthy) Healthy() bool { return true }

func newHandler(repo *stubRepo) *EventsHandler {
	return NewEventsHandler(repo, alwaysHealthy{}, logging.New(slog.LevelError, "text"))
}

func TestHandleParkingStatusWindow(t *testing.T) {
	repo := &stubRepo{parking: []models.ParkingStatusRecord{
		{ID: 1, MeterID: "meter-a", SpotNumber: 2},
		{ID: 2, MeterID: "meter-b", SpotNumber: 5},
	}}
	h := newHandler(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/parking-status?start_timestamp=2026-03-14T00:00:00Z&end_timestamp=2026-03-15T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.HandleParkingStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.ParkingStatusRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "meter-a", got[0].MeterID)
	assert.Equal(t, "meter-b", got[1].MeterID)

	// Window bounds forwarded intact
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), repo.gotStart)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), repo.gotEnd)
}

func TestHandleParkingStatusEmptyWindowIsEmptyArray(t *testing.T) {
	h := newHandler(&stubRepo{parking: []models.ParkingStatusRecord{}})

	req := httptest.NewRequest(http.MethodGet,
		"/parking-status?start_timestamp=2026-03-14T00:00:00Z&end_timestamp=2026-03-15T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.HandleParkingStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestWindowParamValidation(t *testing.T) {
	h := newHandler(&stubRepo{})

	cases := []struct {
		name string
		url  string
	}{
		{"missing params", "/payment-events"},
		{"missing end", "/payment-events?start_timestamp=2026-03-14T00:00:00Z"},
		{"bad format", "/payment-events?start_timestamp=2026-03-14&end_timestamp=2026-03-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			h.HandlePayments(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleStats(t *testing.T) {
	h := newHandler(&stubRepo{stats: models.Stats{NumParkingEvents: 7, NumPaymentEvents: 3}})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"num_parking_events":7,"num_payment_events":3}`, rec.Body.String())
}

func TestQueryFailureReturns500(t *testing.T) {
	h := newHandler(&stubRepo{queryErr: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet,
		"/payment-events?start_timestamp=2026-03-14T00:00:00Z&end_timestamp=2026-03-15T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.HandlePayments(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthReflectsDatabase(t *testing.T) {
	h := newHandler(&stubRepo{})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h = newHandler(&stubRepo{queryErr: errors.New("down")})
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
