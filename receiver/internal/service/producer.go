// Package service implements event submission. The producer is synchronous:
// a submit returns only after the log broker has acknowledged durability of
// the append, never earlier and never after any downstream consumer.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/metrics"
)

// Publisher appends envelopes to the event log.
type Publisher interface {
	Publish(ctx context.Context, env *events.Envelope) error
	IsConnected() bool
}

// Producer assigns correlation ids and publishes domain events. There is no
// local buffering or retry queue; a failed publish is surfaced to the caller,
// who must retry.
type Producer struct {
	publisher Publisher
	logger    *logging.Logger
}

func NewProducer(publisher Publisher, logger *logging.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// SubmitParkingStatus stamps and publishes a parking status event, returning
// the newly assigned correlation id.
func (p *Producer) SubmitParkingStatus(ctx context.Context, payload events.ParkingStatusPayload) (string, error) {
	payload.TraceID = uuid.New().String()
	return p.submit(ctx, events.NewParkingStatus(payload), payload.TraceID)
}

// SubmitPayment stamps and publishes a payment event, returning the newly
// assigned correlation id.
func (p *Producer) SubmitPayment(ctx context.Context, payload events.PaymentPayload) (string, error) {
	payload.TraceID = uuid.New().String()
	return p.submit(ctx, events.NewPayment(payload), payload.TraceID)
}

func (p *Producer) submit(ctx context.Context, env *events.Envelope, traceID string) (string, error) {
	p.logger.InfoContext(ctx, "received event",
		logging.EventType(string(env.Type)),
		logging.TraceID(traceID),
	)

	start := time.Now()
	err := p.publisher.Publish(ctx, env)
	metrics.PublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PublishErrors.Inc()
		metrics.EventsTotal.WithLabelValues(string(env.Type), "error").Inc()
		p.logger.ErrorContext(ctx, "failed to publish event",
			logging.EventType(string(env.Type)),
			logging.TraceID(traceID),
			logging.Error(err),
		)
		return "", err
	}

	metrics.EventsTotal.WithLabelValues(string(env.Type), "ok").Inc()
	p.logger.InfoContext(ctx, "published event",
		logging.EventType(string(env.Type)),
		logging.TraceID(traceID),
	)
	return traceID, nil
}

// Healthy reports whether the broker connection is up.
func (p *Producer) Healthy() bool {
	return p.publisher.IsConnected()
}
