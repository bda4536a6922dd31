package httputil

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// QueryTimeLayout is the timestamp format accepted by window query endpoints.
const QueryTimeLayout = "2006-01-02T15:04:05Z"

// GetClientIP extracts the real client IP address from request headers.
// It handles proxy scenarios by checking headers in this order:
//  1. X-Forwarded-For (first IP from the comma-separated list)
//  2. X-Real-IP
//  3. RemoteAddr (direct connection)
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// ParseIntParam parses an integer query parameter with a default value.
// Returns defaultVal if the parameter is empty or invalid.
func ParseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultVal
}

// ParseTimeParam parses a window boundary query parameter in QueryTimeLayout.
func ParseTimeParam(s string) (time.Time, error) {
	return time.Parse(QueryTimeLayout, s)
}
