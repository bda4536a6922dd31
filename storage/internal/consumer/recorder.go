// Package consumer drains the event log into PostgreSQL.
package consumer

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/metrics"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/repository"
)

// Cursor is the read position the recorder drains from.
type Cursor interface {
	Next(ctx context.Context, timeout time.Duration) (*events.Envelope, error)
	Commit() error
	Close()
}

// Opener opens (or reopens) the recorder's cursor.
type Opener func(ctx context.Context) (Cursor, error)

// Recorder continuously reads events from the log and appends them to the
// database. The offset is committed after every delivery whether or not the
// insert succeeded: an event that cannot be stored is logged and dropped
// rather than blocking the group behind it.
type Recorder struct {
	open        Opener
	repo        repository.Repository
	logger      *logging.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration

	connected atomic.Bool
}

func NewRecorder(open Opener, repo repository.Repository, logger *logging.Logger, pollTimeout, retryDelay time.Duration) *Recorder {
	return &Recorder{
		open:        open,
		repo:        repo,
		logger:      logger,
		pollTimeout: pollTimeout,
		retryDelay:  retryDelay,
	}
}

// Healthy reports whether the recorder currently holds an open cursor.
func (r *Recorder) Healthy() bool {
	return r.connected.Load()
}

// Run drains the log until ctx is cancelled. A lost cursor is reopened after
// retryDelay; the HTTP read API keeps serving while the recorder reconnects.
func (r *Recorder) Run(ctx context.Context) {
	for ctx.Err() == nil {
		cur, err := r.open(ctx)
		if err != nil {
			r.connected.Store(false)
			r.logger.ErrorContext(ctx, "failed to open event cursor, retrying",
				logging.Error(err),
				logging.Duration(r.retryDelay.Milliseconds()),
			)
			if !sleep(ctx, r.retryDelay) {
				return
			}
			continue
		}

		r.connected.Store(true)
		r.logger.InfoContext(ctx, "event recorder started")
		r.drain(ctx, cur)
		cur.Close()
		r.connected.Store(false)
	}
}

func (r *Recorder) drain(ctx context.Context, cur Cursor) {
	for ctx.Err() == nil {
		env, err := cur.Next(ctx, r.pollTimeout)
		if err != nil {
			if errors.Is(err, eventlog.ErrReadTimeout) || errors.Is(err, context.Canceled) {
				continue
			}
			// Either an undecodable message or a transport failure.
			// Committing what was delivered skips a poison message;
			// a dead connection gets a fresh cursor after the pause.
			metrics.ConsumeErrors.Inc()
			r.logger.WarnContext(ctx, "failed to read event", logging.Error(err))
			if err := cur.Commit(); err != nil {
				r.logger.WarnContext(ctx, "failed to commit offset", logging.Error(err))
				return
			}
			if !sleep(ctx, r.retryDelay) {
				return
			}
			continue
		}

		r.store(ctx, env)

		if err := cur.Commit(); err != nil {
			r.logger.WarnContext(ctx, "failed to commit offset", logging.Error(err))
			return
		}
	}
}

// store inserts the event. Failures are logged and counted, never retried:
// the surrounding loop commits the offset regardless.
func (r *Recorder) store(ctx context.Context, env *events.Envelope) {
	var err error
	switch env.Type {
	case events.TypeParkingStatus:
		err = r.repo.InsertParkingStatus(ctx, *env.ParkingStatus)
	case events.TypePayment:
		err = r.repo.InsertPayment(ctx, *env.Payment)
	}

	if err != nil {
		metrics.InsertErrors.Inc()
		r.logger.ErrorContext(ctx, "failed to store event, dropping",
			logging.EventType(string(env.Type)),
			logging.TraceID(env.CorrelationID()),
			logging.Error(err),
		)
		return
	}

	metrics.EventsStored.WithLabelValues(string(env.Type)).Inc()
	r.logger.DebugContext(ctx, "stored event",
		logging.EventType(string(env.Type)),
		logging.TraceID(env.CorrelationID()),
	)
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
