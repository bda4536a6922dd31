package client

import (
	"fmt"
	"net/http"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
)

type AnalyzerClient struct {
	baseURL string
	client  *http.Client
}

func NewAnalyzerClient(baseURL string) *AnalyzerClient {
	return &AnalyzerClient{baseURL: baseURL, client: newHTTPClient()}
}

// ParkingStatusAt fetches the index-th parking status event in the log.
func (c *AnalyzerClient) ParkingStatusAt(index int) (*events.ParkingStatusPayload, error) {
	var payload events.ParkingStatusPayload
	url := fmt.Sprintf("%s/parking-status?index=%d", c.baseURL, index)
	if err := getJSON(c.client, url, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PaymentAt fetches the index-th payment event in the log.
func (c *AnalyzerClient) PaymentAt(index int) (*events.PaymentPayload, error) {
	var payload events.PaymentPayload
	url := fmt.Sprintf("%s/payment?index=%d", c.baseURL, index)
	if err := getJSON(c.client, url, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Stats fetches per-type counts over the retained log.
func (c *AnalyzerClient) Stats() (*StorageStats, error) {
	var stats StorageStats
	if err := getJSON(c.client, c.baseURL+"/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
