// Package store persists detected anomalies.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Anomaly types. The strings are part of the API surface; clients match
// on them.
const (
	TypeTooHigh     = "Too High"
	TypeInvalidSpot = "Invalid Spot Number"
)

// Anomaly is one flagged event. EventID carries the offending meter's id.
type Anomaly struct {
	EventID     string    `json:"event_id"`
	TraceID     string    `json:"trace_id"`
	EventType   string    `json:"event_type"`
	AnomalyType string    `json:"anomaly_type"`
	Description string    `json:"description"`
	Timestamp   string    `json:"timestamp"`
	DeviceID    string    `json:"device_id"`
	Value       float64   `json:"value"`
	DetectedAt  time.Time `json:"detected_at"`
}

// AnomalyStore is an append-only anomaly record backed by a JSON file. Each
// batch is appended to everything recorded before it; nothing is ever
// removed.
type AnomalyStore struct {
	mu        sync.RWMutex
	path      string
	anomalies []Anomaly
}

// NewAnomalyStore opens (or initializes) the store at path.
func NewAnomalyStore(path string) (*AnomalyStore, error) {
	s := &AnomalyStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read anomaly store: %w", err)
	}

	if err := json.Unmarshal(data, &s.anomalies); err != nil {
		return nil, fmt.Errorf("decode anomaly store: %w", err)
	}
	return s, nil
}

// All returns every recorded anomaly, oldest first.
func (s *AnomalyStore) All() []Anomaly {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Anomaly, len(s.anomalies))
	copy(out, s.anomalies)
	return out
}

// Append adds a batch to the store and writes the union to disk. An empty
// batch is a no-op.
func (s *AnomalyStore) Append(batch []Anomaly) error {
	if len(batch) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := append(s.anomalies, batch...)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encode anomaly store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create anomaly store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".anomalies-*")
	if err != nil {
		return fmt.Errorf("create temp anomaly store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp anomaly store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp anomaly store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace anomaly store: %w", err)
	}

	s.anomalies = merged
	return nil
}
