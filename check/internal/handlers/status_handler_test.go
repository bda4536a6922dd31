package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwatch-systems/parkwatch-stack/check/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

func newStatusHandler(t *testing.T) (*StatusHandler, *store.ReportStore) {
	t.Helper()
	reports, err := store.NewReportStore(filepath.Join(t.TempDir(), "report.json"))
	require.NoError(t, err)
	return NewStatusHandler(reports, logging.New(slog.LevelError, "text")), reports
}

func TestHandleStatusBeforeFirstSweep(t *testing.T) {
	h, _ := newStatusHandler(t)

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStatusReturnsReport(t *testing.T) {
	h, reports := newStatusHandler(t)
	require.NoError(t, reports.Put(store.Report{
		Receiver:  "Healthy",
		Storage:   "Storage has 2 parking and 1 payment events",
		CheckedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}))

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got store.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Healthy", got.Receiver)
	assert.Equal(t, "Storage has 2 parking and 1 payment events", got.Storage)
}
