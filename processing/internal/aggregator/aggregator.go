// Package aggregator folds stored events into a running statistics snapshot.
package aggregator

import (
	"context"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/metrics"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/storageclient"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/store"
)

// Fetcher reads event windows from the storage service.
type Fetcher interface {
	ParkingStatusWindow(ctx context.Context, start, end time.Time) ([]storageclient.ParkingStatusEvent, error)
	PaymentWindow(ctx context.Context, start, end time.Time) ([]storageclient.PaymentEvent, error)
}

// watermarkEpoch is where a fresh aggregator starts reading. Everything
// recorded before it is invisible to aggregation.
var watermarkEpoch = time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)

// Aggregator periodically queries the storage service for events recorded
// since its watermark and folds them into the snapshot.
//
// The watermark advances every pass whether or not the queries succeeded.
// Events in a failed window are skipped, never re-read: totals are a lower
// bound, not an exact count.
type Aggregator struct {
	fetcher   Fetcher
	snapshots *store.SnapshotStore
	logger    *logging.Logger
	interval  time.Duration
	watermark time.Time
	now       func() time.Time
}

func New(fetcher Fetcher, snapshots *store.SnapshotStore, logger *logging.Logger, interval time.Duration) *Aggregator {
	// The persisted snapshot records how far aggregation has read. A restart
	// resumes from there; re-reading from the epoch would fold events into
	// the accumulated totals a second time.
	watermark := snapshots.Get().LastUpdated
	if watermark.IsZero() {
		watermark = watermarkEpoch
	}
	return &Aggregator{
		fetcher:   fetcher,
		snapshots: snapshots,
		logger:    logger,
		interval:  interval,
		watermark: watermark,
		now:       time.Now,
	}
}

// Run executes aggregation passes until ctx is cancelled. One pass runs
// immediately on start.
func (a *Aggregator) Run(ctx context.Context) {
	a.logger.InfoContext(ctx, "aggregator started", logging.Duration(a.interval.Milliseconds()))

	a.Pass(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.InfoContext(ctx, "aggregator stopped")
			return
		case <-ticker.C:
			a.Pass(ctx)
		}
	}
}

// Pass runs one aggregation pass over [watermark, now).
func (a *Aggregator) Pass(ctx context.Context) {
	end := a.now().UTC()
	snap := a.snapshots.Get()

	parking, parkingErr := a.fetcher.ParkingStatusWindow(ctx, a.watermark, end)
	if parkingErr != nil {
		metrics.WindowErrors.WithLabelValues("parking_status").Inc()
		a.logger.WarnContext(ctx, "parking status window fetch failed, skipping window",
			logging.Error(parkingErr))
	} else {
		snap.TotalStatusEvents += int64(len(parking))
		metrics.EventsAggregated.WithLabelValues("parking_status").Add(float64(len(parking)))
		if meter := modalMeter(parking); meter != "" {
			snap.MostFrequentMeter = meter
		}
	}

	payments, paymentErr := a.fetcher.PaymentWindow(ctx, a.watermark, end)
	if paymentErr != nil {
		metrics.WindowErrors.WithLabelValues("payment").Inc()
		a.logger.WarnContext(ctx, "payment window fetch failed, skipping window",
			logging.Error(paymentErr))
	} else {
		snap.TotalPaymentEvents += int64(len(payments))
		metrics.EventsAggregated.WithLabelValues("payment").Add(float64(len(payments)))
		for _, p := range payments {
			if p.Amount > snap.HighestPayment {
				snap.HighestPayment = p.Amount
			}
		}
	}

	// The watermark moves regardless of fetch outcomes; a failed window is
	// gone for good.
	a.watermark = end

	snap.LastUpdated = end
	if err := a.snapshots.Put(snap); err != nil {
		a.logger.ErrorContext(ctx, "failed to persist snapshot", logging.Error(err))
		return
	}

	metrics.Passes.Inc()
	a.logger.DebugContext(ctx, "aggregation pass complete",
		logging.Count(len(parking)+len(payments)))
}

// modalMeter returns the meter with the most events in the window. On a tie
// the meter that reached the top count first wins. Empty windows yield "".
func modalMeter(window []storageclient.ParkingStatusEvent) string {
	counts := make(map[string]int, len(window))
	best := ""
	bestCount := 0
	for _, e := range window {
		counts[e.MeterID]++
		if counts[e.MeterID] > bestCount {
			best = e.MeterID
			bestCount = counts[e.MeterID]
		}
	}
	return best
}
