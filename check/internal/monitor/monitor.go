// Package monitor polls the fleet and summarizes what it finds.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/check/internal/metrics"
	"github.com/parkwatch-systems/parkwatch-stack/check/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

// Targets are the base URLs of the monitored services.
type Targets struct {
	ReceiverURL   string
	StorageURL    string
	ProcessingURL string
	AnalyzerURL   string
}

// Monitor periodically sweeps the fleet: one HTTP call per service, each
// with its own timeout, so one hung service cannot stall the sweep. Any
// non-2xx answer or transport failure marks the service Unavailable.
type Monitor struct {
	targets    Targets
	reports    *store.ReportStore
	logger     *logging.Logger
	interval   time.Duration
	httpClient *http.Client
	now        func() time.Time
}

func New(targets Targets, reports *store.ReportStore, logger *logging.Logger, interval, callTimeout time.Duration) *Monitor {
	return &Monitor{
		targets:  targets,
		reports:  reports,
		logger:   logger,
		interval: interval,
		httpClient: &http.Client{
			Timeout: callTimeout,
		},
		now: time.Now,
	}
}

// Run sweeps the fleet until ctx is cancelled. One sweep runs immediately
// on start.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.InfoContext(ctx, "health monitor started",
		logging.Duration(m.interval.Milliseconds()))

	m.Sweep(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.InfoContext(ctx, "health monitor stopped")
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep polls every service once and replaces the stored report.
func (m *Monitor) Sweep(ctx context.Context) {
	report := store.Report{
		Receiver:   m.checkReceiver(ctx),
		Storage:    m.checkStorage(ctx),
		Processing: m.checkProcessing(ctx),
		Analyzer:   m.checkAnalyzer(ctx),
		CheckedAt:  m.now().UTC(),
	}

	if err := m.reports.Put(report); err != nil {
		m.logger.ErrorContext(ctx, "failed to persist health report", logging.Error(err))
		return
	}
	metrics.Sweeps.Inc()
}

func (m *Monitor) checkReceiver(ctx context.Context) string {
	var body map[string]string
	if !m.get(ctx, "receiver", m.targets.ReceiverURL+"/healthz", &body) {
		return store.Unavailable
	}
	return "Healthy"
}

type storageStats struct {
	NumParkingEvents int64 `json:"num_parking_events"`
	NumPaymentEvents int64 `json:"num_payment_events"`
}

func (m *Monitor) checkStorage(ctx context.Context) string {
	var stats storageStats
	if !m.get(ctx, "storage", m.targets.StorageURL+"/stats", &stats) {
		return store.Unavailable
	}
	return fmt.Sprintf("Storage has %d parking and %d payment events",
		stats.NumParkingEvents, stats.NumPaymentEvents)
}

type processingStats struct {
	TotalStatusEvents  int64   `json:"total_status_events"`
	TotalPaymentEvents int64   `json:"total_payment_events"`
	MostFrequentMeter  string  `json:"most_frequent_meter"`
	HighestPayment     float64 `json:"highest_payment"`
}

func (m *Monitor) checkProcessing(ctx context.Context) string {
	var stats processingStats
	if !m.get(ctx, "processing", m.targets.ProcessingURL+"/events/stats", &stats) {
		return store.Unavailable
	}
	return fmt.Sprintf("Processed %d parking and %d payment events, highest payment %.2f",
		stats.TotalStatusEvents, stats.TotalPaymentEvents, stats.HighestPayment)
}

func (m *Monitor) checkAnalyzer(ctx context.Context) string {
	var stats storageStats
	if !m.get(ctx, "analyzer", m.targets.AnalyzerURL+"/stats", &stats) {
		return store.Unavailable
	}
	return fmt.Sprintf("Analyzer has %d parking and %d payment events",
		stats.NumParkingEvents, stats.NumPaymentEvents)
}

// get performs one GET and decodes a 2xx JSON body into out. Any failure
// mode, transport, status, or decode, reports false.
func (m *Monitor) get(ctx context.Context, service, url string, out interface{}) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		m.fail(ctx, service, err)
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.fail(ctx, service, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.fail(ctx, service, fmt.Errorf("status %d", resp.StatusCode))
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		m.fail(ctx, service, err)
		return false
	}
	return true
}

func (m *Monitor) fail(ctx context.Context, service string, err error) {
	metrics.CheckFailures.WithLabelValues(service).Inc()
	m.logger.WarnContext(ctx, "service check failed",
		slog.String("target", service), logging.Error(err))
}
