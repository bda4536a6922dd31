// Package store persists the aggregated statistics snapshot.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Snapshot is the aggregated view over all processed events.
type Snapshot struct {
	TotalStatusEvents  int64     `json:"total_status_events"`
	TotalPaymentEvents int64     `json:"total_payment_events"`
	MostFrequentMeter  string    `json:"most_frequent_meter"`
	HighestPayment     float64   `json:"highest_payment"`
	LastUpdated        time.Time `json:"last_updated"`
}

// SnapshotStore holds the current snapshot in memory and mirrors it to disk.
// Reads are served from memory; the file exists so a restart resumes from
// the last written state. There is a single writer, the aggregator.
type SnapshotStore struct {
	mu   sync.RWMutex
	path string
	snap Snapshot
}

// NewSnapshotStore opens (or initializes) the snapshot at path. A missing
// file yields the zero snapshot; a corrupt file is an error.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	s := &SnapshotStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &s.snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Get returns the current snapshot.
func (s *SnapshotStore) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Put replaces the snapshot and writes it to disk. The write goes through a
// temp file and rename so readers of the file never observe a partial write.
func (s *SnapshotStore) Put(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}

	s.snap = snap
	return nil
}
