// Package models defines the persisted event records.
package models

import "time"

// ParkingStatusRecord is a stored parking status event.
type ParkingStatusRecord struct {
	ID          int64     `json:"id"`
	MeterID     string    `json:"meter_id"`
	DeviceID    string    `json:"device_id"`
	Status      bool      `json:"status"`
	SpotNumber  int       `json:"spot_number"`
	Timestamp   string    `json:"timestamp"`
	TraceID     string    `json:"trace_id"`
	DateCreated time.Time `json:"date_created"`
}

// PaymentRecord is a stored payment event.
type PaymentRecord struct {
	ID          int64     `json:"id"`
	MeterID     string    `json:"meter_id"`
	DeviceID    string    `json:"device_id"`
	Amount      float64   `json:"amount"`
	Duration    int       `json:"duration"`
	Timestamp   string    `json:"timestamp"`
	TraceID     string    `json:"trace_id"`
	DateCreated time.Time `json:"date_created"`
}

// Stats holds the stored event counts.
type Stats struct {
	NumParkingEvents int64 `json:"num_parking_events"`
	NumPaymentEvents int64 `json:"num_payment_events"`
}
