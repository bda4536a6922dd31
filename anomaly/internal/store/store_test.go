package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendIsUnion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anomalies.json")

	s, err := NewAnomalyStore(path)
	require.NoError(t, err)
	assert.Empty(t, s.All())

	require.NoError(t, s.Append([]Anomaly{
		{AnomalyType: TypeTooHigh, EventID: "meter-a", Value: 150},
	}))
	require.NoError(t, s.Append([]Anomaly{
		{AnomalyType: TypeInvalidSpot, EventID: "meter-b", Value: -1},
	}))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, TypeTooHigh, all[0].AnomalyType)
	assert.Equal(t, TypeInvalidSpot, all[1].AnomalyType)

	// Reopening resumes with the full union
	reopened, err := NewAnomalyStore(path)
	require.NoError(t, err)
	assert.Equal(t, all, reopened.All())
}

func TestAnomalyJSONKeys(t *testing.T) {
	data, err := json.Marshal(Anomaly{
		EventID:     "meter-a",
		AnomalyType: TypeTooHigh,
		Description: "Payment amount 150 exceeded $100",
	})
	require.NoError(t, err)

	// Dashboard clients read these keys directly.
	for _, key := range []string{"event_id", "trace_id", "event_type", "anomaly_type", "description", "timestamp"} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
}

func TestEmptyAppendWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anomalies.json")

	s, err := NewAnomalyStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(nil))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, s.All())
}
