package detector

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

// drainCursor yields its envelopes then reports a quiet log.
type drainCursor struct {
	envelopes []*events.Envelope
	pos       int
	commits   int
}

func (c *drainCursor) Next(ctx context.Context, timeout time.Duration) (*events.Envelope, error) {
	if c.pos >= len(c.envelopes) {
		return nil, eventlog.ErrReadTimeout
	}
	env := c.envelopes[c.pos]
	c.pos++
	return env, nil
}

func (c *drainCursor) Commit() error {
	c.commits++
	return nil
}

func (c *drainCursor) Close() {}

func paymentEnv(amount float64) *events.Envelope {
	return events.NewPayment(events.PaymentPayload{
		MeterID:   "meter-1",
		DeviceID:  "device-1",
		Amount:    amount,
		Duration:  60,
		Timestamp: "2026-03-14T09:00:00",
	})
}

func parkingEnv(spot int) *events.Envelope {
	return events.NewParkingStatus(events.ParkingStatusPayload{
		MeterID:    "meter-1",
		DeviceID:   "device-1",
		Status:     true,
		SpotNumber: spot,
		Timestamp:  "2026-03-14T09:00:00",
	})
}

func newDetector(t *testing.T, cur Cursor) (*Detector, *store.AnomalyStore) {
	t.Helper()
	anomalies, err := store.NewAnomalyStore(filepath.Join(t.TempDir(), "anomalies.json"))
	require.NoError(t, err)
	logger := logging.New(slog.LevelError, "text")
	d := New(
		func(ctx context.Context) (Cursor, error) { return cur, nil },
		anomalies, logger,
		Thresholds{MaxAmount: 100, MinSpotNumber: 0},
		time.Minute, 10*time.Millisecond,
	)
	return d, anomalies
}

func TestCycleFlagsExcessivePayment(t *testing.T) {
	cur := &drainCursor{envelopes: []*events.Envelope{
		paymentEnv(50),
		paymentEnv(150),
		paymentEnv(100), // at the threshold, not above it
	}}
	d, anomalies := newDetector(t, cur)

	d.Cycle(context.Background())

	all := anomalies.All()
	require.Len(t, all, 1)
	assert.Equal(t, store.TypeTooHigh, all[0].AnomalyType)
	assert.Equal(t, "Payment amount 150 exceeded $100", all[0].Description)
	assert.Equal(t, "meter-1", all[0].EventID)
	assert.Equal(t, 150.0, all[0].Value)
	assert.Equal(t, 1, cur.commits)
}

func TestCycleFlagsNegativeSpotNumber(t *testing.T) {
	cur := &drainCursor{envelopes: []*events.Envelope{
		parkingEnv(3),
		parkingEnv(-1),
		parkingEnv(0),
	}}
	d, anomalies := newDetector(t, cur)

	d.Cycle(context.Background())

	all := anomalies.All()
	require.Len(t, all, 1)
	assert.Equal(t, store.TypeInvalidSpot, all[0].AnomalyType)
	assert.Equal(t, "Spot number -1 is less than 0", all[0].Description)
	assert.Equal(t, -1.0, all[0].Value)
}

func TestCyclesAccumulate(t *testing.T) {
	cur := &drainCursor{envelopes: []*events.Envelope{paymentEnv(200)}}
	d, anomalies := newDetector(t, cur)

	d.Cycle(context.Background())
	require.Len(t, anomalies.All(), 1)

	// Next cycle finds a new offender; both remain recorded
	cur.envelopes = append(cur.envelopes, parkingEnv(-5))
	d.Cycle(context.Background())
	assert.Len(t, anomalies.All(), 2)
}

func TestOpenFailureSkipsCycle(t *testing.T) {
	anomalies, err := store.NewAnomalyStore(filepath.Join(t.TempDir(), "anomalies.json"))
	require.NoError(t, err)
	logger := logging.New(slog.LevelError, "text")
	d := New(
		func(ctx context.Context) (Cursor, error) { return nil, errors.New("broker unreachable") },
		anomalies, logger,
		Thresholds{MaxAmount: 100, MinSpotNumber: 0},
		time.Minute, 10*time.Millisecond,
	)

	d.Cycle(context.Background())

	assert.False(t, d.Healthy())
	assert.Empty(t, anomalies.All())
}
