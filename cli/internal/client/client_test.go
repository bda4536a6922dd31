package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
)

func TestReceiverSubmitParkingStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/parking-status", r.URL.Path)

		var payload events.ParkingStatusPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "meter-1", payload.MeterID)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"trace_id":"abc-123"}`))
	}))
	defer srv.Close()

	c := NewReceiverClient(srv.URL)
	traceID, err := c.SubmitParkingStatus(events.ParkingStatusPayload{
		MeterID: "meter-1", DeviceID: "d", Timestamp: "2026-03-14T09:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", traceID)
}

func TestReceiverSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewReceiverClient(srv.URL)
	_, err := c.SubmitPayment(events.PaymentPayload{MeterID: "m", DeviceID: "d", Timestamp: "2026-03-14T09:00:00"})
	assert.Error(t, err)
}

func TestStorageStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)
		w.Write([]byte(`{"num_parking_events":4,"num_payment_events":2}`))
	}))
	defer srv.Close()

	c := NewStorageClient(srv.URL)
	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.NumParkingEvents)
	assert.Equal(t, int64(2), stats.NumPaymentEvents)
}

func TestAnalyzerPaymentAt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment", r.URL.Path)
		require.Equal(t, "3", r.URL.Query().Get("index"))
		w.Write([]byte(`{"meter_id":"meter-9","amount":7.25}`))
	}))
	defer srv.Close()

	c := NewAnalyzerClient(srv.URL)
	payload, err := c.PaymentAt(3)
	require.NoError(t, err)
	assert.Equal(t, "meter-9", payload.MeterID)
	assert.Equal(t, 7.25, payload.Amount)
}

func TestAnomalyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/anomalies", r.URL.Path)
		w.Write([]byte(`[{"anomaly_type":"Too High","event_id":"meter-2","description":"Payment amount 130 exceeded $100","value":130}]`))
	}))
	defer srv.Close()

	c := NewAnomalyClient(srv.URL)
	anomalies, err := c.Anomalies()
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "Too High", anomalies[0].AnomalyType)
	assert.Equal(t, "Payment amount 130 exceeded $100", anomalies[0].Description)
}
