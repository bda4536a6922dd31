package client

import (
	"net/http"
	"time"
)

type AnomalyClient struct {
	baseURL string
	client  *http.Client
}

func NewAnomalyClient(baseURL string) *AnomalyClient {
	return &AnomalyClient{baseURL: baseURL, client: newHTTPClient()}
}

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

func (c *AnomalyClient) Anomalies() ([]Anomaly, error) {
	var anomalies []Anomaly
	if err := getJSON(c.client, c.baseURL+"/anomalies", &anomalies); err != nil {
		return nil, err
	}
	return anomalies, nil
}
