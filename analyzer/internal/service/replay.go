// Package service answers positional queries by replaying the event log.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/metrics"
	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

// ErrIndexOutOfRange means the log holds fewer events of the requested type
// than the index requires.
var ErrIndexOutOfRange = errors.New("index out of range")

// Replayer reads the whole retained log from the beginning.
type Replayer interface {
	Replay(ctx context.Context, timeout time.Duration, fn func(*events.Envelope)) error
}

// Stats are per-type event counts over the retained log.
type Stats struct {
	NumParkingEvents int64 `json:"num_parking_events"`
	NumPaymentEvents int64 `json:"num_payment_events"`
}

// ReplayService serves positional and aggregate queries. Every query walks
// the full log: positions are indexes into the per-type subsequence, counted
// from zero in log order. Nothing is cached between queries, so results
// always reflect the log as retained right now.
type ReplayService struct {
	replayer Replayer
	logger   *logging.Logger
	timeout  time.Duration
}

func NewReplayService(replayer Replayer, logger *logging.Logger, timeout time.Duration) *ReplayService {
	return &ReplayService{replayer: replayer, logger: logger, timeout: timeout}
}

// ParkingStatusAt returns the index-th parking status event in the log.
func (s *ReplayService) ParkingStatusAt(ctx context.Context, index int) (*events.ParkingStatusPayload, error) {
	var found *events.ParkingStatusPayload
	seen := 0
	err := s.replay(ctx, func(env *events.Envelope) {
		if env.Type != events.TypeParkingStatus || found != nil {
			return
		}
		if seen == index {
			found = env.ParkingStatus
		}
		seen++
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrIndexOutOfRange
	}
	return found, nil
}

// PaymentAt returns the index-th payment event in the log.
func (s *ReplayService) PaymentAt(ctx context.Context, index int) (*events.PaymentPayload, error) {
	var found *events.PaymentPayload
	seen := 0
	err := s.replay(ctx, func(env *events.Envelope) {
		if env.Type != events.TypePayment || found != nil {
			return
		}
		if seen == index {
			found = env.Payment
		}
		seen++
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrIndexOutOfRange
	}
	return found, nil
}

// Stats counts all retained events by type.
func (s *ReplayService) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.replay(ctx, func(env *events.Envelope) {
		switch env.Type {
		case events.TypeParkingStatus:
			stats.NumParkingEvents++
		case events.TypePayment:
			stats.NumPaymentEvents++
		}
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *ReplayService) replay(ctx context.Context, fn func(*events.Envelope)) error {
	start := time.Now()
	err := s.replayer.Replay(ctx, s.timeout, fn)
	metrics.ReplayDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Replays.WithLabelValues("error").Inc()
		s.logger.ErrorContext(ctx, "log replay failed", logging.Error(err))
		return err
	}

	metrics.Replays.WithLabelValues("ok").Inc()
	return nil
}
