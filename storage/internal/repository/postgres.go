package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Connection pool configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// InsertParkingStatus appends one parking status row. date_created is
// assigned by the database at insert time, not taken from the event.
func (r *PostgresRepository) InsertParkingStatus(ctx context.Context, p events.ParkingStatusPayload) error {
	query := `
		INSERT INTO parking_status (meter_id, device_id, status, spot_number, event_timestamp, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		p.MeterID, p.DeviceID, p.Status, p.SpotNumber, p.Timestamp, p.TraceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert parking status: %w", err)
	}

	return nil
}

// InsertPayment appends one payment row.
func (r *PostgresRepository) InsertPayment(ctx context.Context, p events.PaymentPayload) error {
	query := `
		INSERT INTO payment_event (meter_id, device_id, amount, duration, event_timestamp, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		p.MeterID, p.DeviceID, p.Amount, p.Duration, p.Timestamp, p.TraceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// ParkingStatusWindow returns parking status rows whose date_created falls
// in [start, end), in insertion order.
func (r *PostgresRepository) ParkingStatusWindow(ctx context.Context, start, end time.Time) ([]models.ParkingStatusRecord, error) {
	query := `
		SELECT id, meter_id, device_id, status, spot_number, event_timestamp, trace_id, date_created
		FROM parking_status
		WHERE date_created >= $1 AND date_created < $2
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query parking status window: %w", err)
	}
	defer rows.Close()

	records := []models.ParkingStatusRecord{}
	for rows.Next() {
		var rec models.ParkingStatusRecord
		if err := rows.Scan(
			&rec.ID, &rec.MeterID, &rec.DeviceID, &rec.Status,
			&rec.SpotNumber, &rec.Timestamp, &rec.TraceID, &rec.DateCreated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan parking status row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parking status rows: %w", err)
	}

	return records, nil
}

// PaymentWindow returns payment rows whose date_created falls in
// [start, end), in insertion order.
func (r *PostgresRepository) PaymentWindow(ctx context.Context, start, end time.Time) ([]models.PaymentRecord, error) {
	query := `
		SELECT id, meter_id, device_id, amount, duration, event_timestamp, trace_id, date_created
		FROM payment_event
		WHERE date_created >= $1 AND date_created < $2
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment window: %w", err)
	}
	defer rows.Close()

	records := []models.PaymentRecord{}
	for rows.Next() {
		var rec models.PaymentRecord
		if err := rows.Scan(
			&rec.ID, &rec.MeterID, &rec.DeviceID, &rec.Amount,
			&rec.Duration, &rec.Timestamp, &rec.TraceID, &rec.DateCreated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment rows: %w", err)
	}

	return records, nil
}

// Stats returns the total row count per event table.
func (r *PostgresRepository) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM parking_status`).Scan(&stats.NumParkingEvents); err != nil {
		return models.Stats{}, fmt.Errorf("failed to count parking status rows: %w", err)
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payment_event`).Scan(&stats.NumPaymentEvents); err != nil {
		return models.Stats{}, fmt.Errorf("failed to count payment rows: %w", err)
	}

	return stats, nil
}

// Ping checks database reachability.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}
