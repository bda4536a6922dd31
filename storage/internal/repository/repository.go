// Package repository persists parking events in PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/models"
)

// Repository stores and queries parking events.
type Repository interface {
	InsertParkingStatus(ctx context.Context, p events.ParkingStatusPayload) error
	InsertPayment(ctx context.Context, p events.PaymentPayload) error
	ParkingStatusWindow(ctx context.Context, start, end time.Time) ([]models.ParkingStatusRecord, error)
	PaymentWindow(ctx context.Context, start, end time.Time) ([]models.PaymentRecord, error)
	Stats(ctx context.Context) (models.Stats, error)
	Ping(ctx context.Context) error
	Close()
}
