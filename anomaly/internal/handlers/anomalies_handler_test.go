package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

type fixedHealth bool

func (f fixedHealth) Healthy() bool { return bool(f) }

func newHandlerWithStore(t *testing.T) (*AnomaliesHandler, *store.AnomalyStore) {
	t.Helper()
	anomalies, err := store.NewAnomalyStore(filepath.Join(t.TempDir(), "anomalies.json"))
	require.NoError(t, err)
	h := NewAnomaliesHandler(anomalies, fixedHealth(true), logging.New(slog.LevelError, "text"))
	return h, anomalies
}

func TestHandleAnomaliesEmpty(t *testing.T) {
	h, _ := newHandlerWithStore(t)

	rec := httptest.NewRecorder()
	h.HandleAnomalies(rec, httptest.NewRequest(http.MethodGet, "/anomalies", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleAnomaliesReturnsAll(t *testing.T) {
	h, anomalies := newHandlerWithStore(t)
	require.NoError(t, anomalies.Append([]store.Anomaly{
		{AnomalyType: store.TypeTooHigh, EventID: "meter-a", Value: 250},
		{AnomalyType: store.TypeInvalidSpot, EventID: "meter-b", Value: -2},
	}))

	rec := httptest.NewRecorder()
	h.HandleAnomalies(rec, httptest.NewRequest(http.MethodGet, "/anomalies", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []store.Anomaly
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, store.TypeTooHigh, got[0].AnomalyType)
	assert.Equal(t, store.TypeInvalidSpot, got[1].AnomalyType)
}

func TestHandleAnomaliesLimitKeepsNewest(t *testing.T) {
	h, anomalies := newHandlerWithStore(t)
	require.NoError(t, anomalies.Append([]store.Anomaly{
		{AnomalyType: store.TypeTooHigh, EventID: "meter-a", Value: 250},
		{AnomalyType: store.TypeInvalidSpot, EventID: "meter-b", Value: -2},
		{AnomalyType: store.TypeTooHigh, EventID: "meter-c", Value: 101},
	}))

	rec := httptest.NewRecorder()
	h.HandleAnomalies(rec, httptest.NewRequest(http.MethodGet, "/anomalies?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []store.Anomaly
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "meter-b", got[0].EventID)
	assert.Equal(t, "meter-c", got[1].EventID)
}

func TestReadyReflectsDetector(t *testing.T) {
	anomalies, err := store.NewAnomalyStore(filepath.Join(t.TempDir(), "anomalies.json"))
	require.NoError(t, err)
	logger := logging.New(slog.LevelError, "text")

	h := NewAnomaliesHandler(anomalies, fixedHealth(false), logger)
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = NewAnomaliesHandler(anomalies, fixedHealth(true), logger)
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
