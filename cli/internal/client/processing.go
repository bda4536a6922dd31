package client

import (
	"net/http"
	"time"
)

type ProcessingClient struct {
	baseURL string
	client  *http.Client
}

func NewProcessingClient(baseURL string) *ProcessingClient {
	return &ProcessingClient{baseURL: baseURL, client: newHTTPClient()}
}

// ProcessingStats is the aggregated statistics snapshot.
type ProcessingStats struct {
	TotalStatusEvents  int64     `json:"total_status_events"`
	TotalPaymentEvents int64     `json:"total_payment_events"`
	MostFrequentMeter  string    `json:"most_frequent_meter"`
	HighestPayment     float64   `json:"highest_payment"`
	LastUpdated        time.Time `json:"last_updated"`
}

func (c *ProcessingClient) Stats() (*ProcessingStats, error) {
	var stats ProcessingStats
	if err := getJSON(c.client, c.baseURL+"/events/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
