// Package detector flags anomalous meter events.
package detector

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/metrics"
	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

// Cursor is the detector's read position into the event log.
type Cursor interface {
	Next(ctx context.Context, timeout time.Duration) (*events.Envelope, error)
	Commit() error
	Close()
}

// Opener opens the detector's cursor.
type Opener func(ctx context.Context) (Cursor, error)

// Thresholds are the detection rules. A payment amount above MaxAmount is
// flagged "Too High"; a spot number below MinSpotNumber is flagged
// "Invalid Spot Number".
type Thresholds struct {
	MaxAmount     float64
	MinSpotNumber int
}

// Detector periodically drains new events from its cursor and records the
// ones that violate a threshold. The offset is committed only after the
// batch is durably appended, so a crash between reading and appending
// redelivers the batch instead of losing it.
type Detector struct {
	open        Opener
	anomalies   *store.AnomalyStore
	logger      *logging.Logger
	thresholds  Thresholds
	interval    time.Duration
	pollTimeout time.Duration

	connected atomic.Bool
}

func New(open Opener, anomalies *store.AnomalyStore, logger *logging.Logger, thresholds Thresholds, interval, pollTimeout time.Duration) *Detector {
	return &Detector{
		open:        open,
		anomalies:   anomalies,
		logger:      logger,
		thresholds:  thresholds,
		interval:    interval,
		pollTimeout: pollTimeout,
	}
}

// Healthy reports whether the last cycle reached the event log.
func (d *Detector) Healthy() bool {
	return d.connected.Load()
}

// Run executes detection cycles until ctx is cancelled. One cycle runs
// immediately on start. A cycle that cannot reach the broker is skipped;
// detection resumes on the next tick.
func (d *Detector) Run(ctx context.Context) {
	d.logger.InfoContext(ctx, "anomaly detector started",
		logging.Duration(d.interval.Milliseconds()))

	d.Cycle(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.InfoContext(ctx, "anomaly detector stopped")
			return
		case <-ticker.C:
			d.Cycle(ctx)
		}
	}
}

// Cycle drains currently available events, appends any anomalies found, and
// commits the cursor.
func (d *Detector) Cycle(ctx context.Context) {
	cur, err := d.open(ctx)
	if err != nil {
		d.connected.Store(false)
		metrics.Cycles.WithLabelValues("error").Inc()
		d.logger.ErrorContext(ctx, "failed to open event cursor, skipping cycle",
			logging.Error(err))
		return
	}
	defer cur.Close()
	d.connected.Store(true)

	var batch []store.Anomaly
	scanned := 0
	for {
		env, err := cur.Next(ctx, d.pollTimeout)
		if err != nil {
			if errors.Is(err, eventlog.ErrReadTimeout) {
				break
			}
			// An undecodable message ends the cycle; it is already
			// pending, so the commit below skips past it.
			d.logger.WarnContext(ctx, "failed to read event", logging.Error(err))
			break
		}
		scanned++
		if a, ok := d.inspect(env); ok {
			batch = append(batch, a)
		}
	}
	metrics.EventsScanned.Add(float64(scanned))

	if err := d.anomalies.Append(batch); err != nil {
		metrics.Cycles.WithLabelValues("error").Inc()
		d.logger.ErrorContext(ctx, "failed to persist anomalies, offset not committed",
			logging.Error(err))
		return
	}

	if err := cur.Commit(); err != nil {
		metrics.Cycles.WithLabelValues("error").Inc()
		d.logger.WarnContext(ctx, "failed to commit offset", logging.Error(err))
		return
	}

	metrics.Cycles.WithLabelValues("ok").Inc()
	if len(batch) > 0 {
		d.logger.InfoContext(ctx, "anomalies detected", logging.Count(len(batch)))
	}
}

func (d *Detector) inspect(env *events.Envelope) (store.Anomaly, bool) {
	now := time.Now().UTC()
	switch env.Type {
	case events.TypePayment:
		p := env.Payment
		if p.Amount > d.thresholds.MaxAmount {
			metrics.AnomaliesFound.WithLabelValues(store.TypeTooHigh).Inc()
			return store.Anomaly{
				EventID:     p.MeterID,
				TraceID:     p.TraceID,
				EventType:   string(env.Type),
				AnomalyType: store.TypeTooHigh,
				Description: fmt.Sprintf("Payment amount %g exceeded $%g", p.Amount, d.thresholds.MaxAmount),
				Timestamp:   p.Timestamp,
				DeviceID:    p.DeviceID,
				Value:       p.Amount,
				DetectedAt:  now,
			}, true
		}
	case events.TypeParkingStatus:
		p := env.ParkingStatus
		if p.SpotNumber < d.thresholds.MinSpotNumber {
			metrics.AnomaliesFound.WithLabelValues(store.TypeInvalidSpot).Inc()
			return store.Anomaly{
				EventID:     p.MeterID,
				TraceID:     p.TraceID,
				EventType:   string(env.Type),
				AnomalyType: store.TypeInvalidSpot,
				Description: fmt.Sprintf("Spot number %d is less than %d", p.SpotNumber, d.thresholds.MinSpotNumber),
				Timestamp:   p.Timestamp,
				DeviceID:    p.DeviceID,
				Value:       float64(p.SpotNumber),
				DetectedAt:  now,
			}, true
		}
	}
	return store.Anomaly{}, false
}
