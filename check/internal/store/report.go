// Package store persists the latest fleet health report.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Unavailable is the status recorded for a service that could not be
// reached or answered outside 2xx.
const Unavailable = "Unavailable"

// Report is one full sweep over the fleet. Each field holds a short
// human-readable status line.
type Report struct {
	Receiver   string    `json:"receiver"`
	Storage    string    `json:"storage"`
	Processing string    `json:"processing"`
	Analyzer   string    `json:"analyzer"`
	CheckedAt  time.Time `json:"checked_at"`
}

// ReportStore holds the latest report in memory and mirrors it to disk.
// Each sweep fully replaces the previous report; there is no history.
type ReportStore struct {
	mu     sync.RWMutex
	path   string
	report Report
}

// NewReportStore opens (or initializes) the report at path.
func NewReportStore(path string) (*ReportStore, error) {
	s := &ReportStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read health report: %w", err)
	}

	if err := json.Unmarshal(data, &s.report); err != nil {
		return nil, fmt.Errorf("decode health report: %w", err)
	}
	return s, nil
}

// Get returns the latest report.
func (s *ReportStore) Get() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Put replaces the report and writes it to disk via temp file and rename.
func (s *ReportStore) Put(report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode health report: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create health report dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("create temp health report: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp health report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp health report: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace health report: %w", err)
	}

	s.report = report
	return nil
}
