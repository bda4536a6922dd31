package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

type mockPublisher struct {
	published []*events.Envelope
	err       error
	connected bool
}

func (m *mockPublisher) Publish(ctx context.Context, env *events.Envelope) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, env)
	return nil
}

func (m *mockPublisher) IsConnected() bool { return m.connected }

func newTestProducer(pub Publisher) *Producer {
	return NewProducer(pub, logging.New(slog.LevelError, "text"))
}

func TestSubmitParkingStatusAssignsTraceID(t *testing.T) {
	pub := &mockPublisher{connected: true}
	producer := newTestProducer(pub)

	traceID, err := producer.SubmitParkingStatus(context.Background(), events.ParkingStatusPayload{
		MeterID:    "meter-1",
		DeviceID:   "device-1",
		Status:     true,
		SpotNumber: 4,
		Timestamp:  "2026-03-14T09:00:00",
	})
	require.NoError(t, err)
	require.NotEmpty(t, traceID)

	require.Len(t, pub.published, 1)
	env := pub.published[0]
	assert.Equal(t, events.TypeParkingStatus, env.Type)
	require.NotNil(t, env.ParkingStatus)
	assert.Equal(t, traceID, env.ParkingStatus.TraceID)
	assert.Equal(t, traceID, env.CorrelationID())
	assert.False(t, env.CreatedAt.IsZero())
}

func TestSubmitPaymentAssignsTraceID(t *testing.T) {
	pub := &mockPublisher{connected: true}
	producer := newTestProducer(pub)

	traceID, err := producer.SubmitPayment(context.Background(), events.PaymentPayload{
		MeterID:  "meter-2",
		DeviceID: "device-2",
		Amount:   3.25,
		Duration: 60,
	})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	require.NotNil(t, pub.published[0].Payment)
	assert.Equal(t, traceID, pub.published[0].Payment.TraceID)
}

func TestSubmitDistinctTraceIDs(t *testing.T) {
	pub := &mockPublisher{connected: true}
	producer := newTestProducer(pub)

	first, err := producer.SubmitPayment(context.Background(), events.PaymentPayload{MeterID: "m"})
	require.NoError(t, err)
	second, err := producer.SubmitPayment(context.Background(), events.PaymentPayload{MeterID: "m"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSubmitSurfacesPublishError(t *testing.T) {
	pub := &mockPublisher{err: eventlog.ErrPublishFailed}
	producer := newTestProducer(pub)

	traceID, err := producer.SubmitPayment(context.Background(), events.PaymentPayload{MeterID: "m"})
	assert.ErrorIs(t, err, eventlog.ErrPublishFailed)
	assert.Empty(t, traceID)
}

func TestHealthyTracksConnection(t *testing.T) {
	pub := &mockPublisher{connected: true}
	producer := newTestProducer(pub)
	assert.True(t, producer.Healthy())

	pub.connected = false
	assert.False(t, producer.Healthy())
}
