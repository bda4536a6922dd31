// Package storageclient is an HTTP client for the storage service's window
// query API.
package storageclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
)

// ParkingStatusEvent mirrors a stored parking status row.
type ParkingStatusEvent struct {
	ID          int64     `json:"id"`
	MeterID     string    `json:"meter_id"`
	DeviceID    string    `json:"device_id"`
	Status      bool      `json:"status"`
	SpotNumber  int       `json:"spot_number"`
	Timestamp   string    `json:"timestamp"`
	TraceID     string    `json:"trace_id"`
	DateCreated time.Time `json:"date_created"`
}

// PaymentEvent mirrors a stored payment row.
type PaymentEvent struct {
	ID          int64     `json:"id"`
	MeterID     string    `json:"meter_id"`
	DeviceID    string    `json:"device_id"`
	Amount      float64   `json:"amount"`
	Duration    int       `json:"duration"`
	Timestamp   string    `json:"timestamp"`
	TraceID     string    `json:"trace_id"`
	DateCreated time.Time `json:"date_created"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ParkingStatusWindow fetches parking status events recorded in [start, end).
func (c *Client) ParkingStatusWindow(ctx context.Context, start, end time.Time) ([]ParkingStatusEvent, error) {
	var events []ParkingStatusEvent
	if err := c.getWindow(ctx, "/parking-status", start, end, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// PaymentWindow fetches payment events recorded in [start, end).
func (c *Client) PaymentWindow(ctx context.Context, start, end time.Time) ([]PaymentEvent, error) {
	var events []PaymentEvent
	if err := c.getWindow(ctx, "/payment-events", start, end, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) getWindow(ctx context.Context, path string, start, end time.Time, out interface{}) error {
	params := url.Values{}
	params.Set("start_timestamp", start.UTC().Format(httputil.QueryTimeLayout))
	params.Set("end_timestamp", end.UTC().Format(httputil.QueryTimeLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode storage response: %w", err)
	}
	return nil
}
