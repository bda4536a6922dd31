package client

import (
	"net/http"
	"time"
)

type CheckClient struct {
	baseURL string
	client  *http.Client
}

func NewCheckClient(baseURL string) *CheckClient {
	return &CheckClient{baseURL: baseURL, client: newHTTPClient()}
}

// HealthReport is the latest fleet sweep.
type HealthReport struct {
	Receiver   string    `json:"receiver"`
	Storage    string    `json:"storage"`
	Processing string    `json:"processing"`
	Analyzer   string    `json:"analyzer"`
	CheckedAt  time.Time `json:"checked_at"`
}

func (c *CheckClient) Status() (*HealthReport, error) {
	var report HealthReport
	if err := getJSON(c.client, c.baseURL+"/status", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
