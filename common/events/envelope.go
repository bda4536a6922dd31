// Package events defines the wire contract between the receiver and every
// consumer of the parking event log. An Envelope wraps exactly one domain
// payload; the "type" discriminator selects which concrete payload shape the
// "payload" field carries. Changing payload field names breaks every consumer,
// so treat this package as a frozen wire format.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType discriminates the payload variant carried by an Envelope.
type EventType string

const (
	TypeParkingStatus EventType = "parking_status"
	TypePayment       EventType = "payment"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == TypeParkingStatus || t == TypePayment
}

// CreatedAtLayout is the envelope timestamp format on the wire.
const CreatedAtLayout = "2006-01-02T15:04:05"

// ParkingStatusPayload is a meter occupancy reading.
type ParkingStatusPayload struct {
	MeterID    string `json:"meter_id"`
	DeviceID   string `json:"device_id"`
	Status     bool   `json:"status"`
	SpotNumber int    `json:"spot_number"`
	Timestamp  string `json:"timestamp"`
	TraceID    string `json:"trace_id"`
}

// PaymentPayload is a meter payment reading.
type PaymentPayload struct {
	MeterID   string  `json:"meter_id"`
	DeviceID  string  `json:"device_id"`
	Amount    float64 `json:"amount"`
	Duration  int     `json:"duration"`
	Timestamp string  `json:"timestamp"`
	TraceID   string  `json:"trace_id"`
}

// Envelope wraps a single domain event. Exactly one of ParkingStatus or
// Payment is non-nil, matching Type. CreatedAt is stamped by the producer and
// is monotonic only within one producer's clock; consumers must not assume
// log order equals timestamp order across producers.
type Envelope struct {
	Type      EventType
	CreatedAt time.Time

	ParkingStatus *ParkingStatusPayload
	Payment       *PaymentPayload
}

// NewParkingStatus builds an envelope around a parking status payload,
// stamped with the current time.
func NewParkingStatus(p ParkingStatusPayload) *Envelope {
	return &Envelope{Type: TypeParkingStatus, CreatedAt: time.Now(), ParkingStatus: &p}
}

// NewPayment builds an envelope around a payment payload, stamped with the
// current time.
func NewPayment(p PaymentPayload) *Envelope {
	return &Envelope{Type: TypePayment, CreatedAt: time.Now(), Payment: &p}
}

// CorrelationID returns the trace id assigned at ingestion. It is generated
// once by the receiver and never mutated downstream.
func (e *Envelope) CorrelationID() string {
	switch e.Type {
	case TypeParkingStatus:
		if e.ParkingStatus != nil {
			return e.ParkingStatus.TraceID
		}
	case TypePayment:
		if e.Payment != nil {
			return e.Payment.TraceID
		}
	}
	return ""
}

// wireEnvelope is the JSON shape on the log: {"type","datetime","payload"}.
type wireEnvelope struct {
	Type     EventType       `json:"type"`
	Datetime string          `json:"datetime"`
	Payload  json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the envelope in the log wire format.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	var payload any
	switch e.Type {
	case TypeParkingStatus:
		if e.ParkingStatus == nil {
			return nil, fmt.Errorf("envelope type %s has no payload", e.Type)
		}
		payload = e.ParkingStatus
	case TypePayment:
		if e.Payment == nil {
			return nil, fmt.Errorf("envelope type %s has no payload", e.Type)
		}
		payload = e.Payment
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	return json.Marshal(wireEnvelope{
		Type:     e.Type,
		Datetime: e.CreatedAt.Format(CreatedAtLayout),
		Payload:  raw,
	})
}

// UnmarshalJSON decodes the log wire format into a typed envelope. Unknown
// event types are a decode error so that adding a type forces every consumer
// to handle it.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	createdAt, err := time.Parse(CreatedAtLayout, w.Datetime)
	if err != nil {
		return fmt.Errorf("decode envelope datetime %q: %w", w.Datetime, err)
	}

	e.Type = w.Type
	e.CreatedAt = createdAt
	e.ParkingStatus = nil
	e.Payment = nil

	switch w.Type {
	case TypeParkingStatus:
		var p ParkingStatusPayload
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return fmt.Errorf("decode parking_status payload: %w", err)
		}
		e.ParkingStatus = &p
	case TypePayment:
		var p PaymentPayload
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return fmt.Errorf("decode payment payload: %w", err)
		}
		e.Payment = &p
	default:
		return fmt.Errorf("unknown event type %q", w.Type)
	}

	return nil
}
