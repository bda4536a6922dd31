package httputil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", GetClientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.195, 70.41.3.18")
	assert.Equal(t, "203.0.113.195", GetClientIP(r))
}

func TestParseIntParam(t *testing.T) {
	assert.Equal(t, 5, ParseIntParam("", 5))
	assert.Equal(t, 5, ParseIntParam("nope", 5))
	assert.Equal(t, 3, ParseIntParam("3", 5))
	assert.Equal(t, -1, ParseIntParam("-1", 5))
}

func TestParseTimeParam(t *testing.T) {
	ts, err := ParseTimeParam("2026-03-14T09:26:53Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), ts)

	_, err = ParseTimeParam("not-a-time")
	assert.Error(t, err)
}
