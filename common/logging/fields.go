package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService   = "service"
	FieldTraceID   = "trace_id"
	FieldEventType = "event_type"
	FieldMeterID   = "meter_id"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldCount     = "count"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// TraceID returns a slog attribute for an event correlation id.
func TraceID(id string) slog.Attr {
	return slog.String(FieldTraceID, id)
}

// EventType returns a slog attribute for an event type.
func EventType(t string) slog.Attr {
	return slog.String(FieldEventType, t)
}

// MeterID returns a slog attribute for a parking meter id.
func MeterID(id string) slog.Attr {
	return slog.String(FieldMeterID, id)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Count returns a slog attribute for a result count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}
