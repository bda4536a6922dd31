package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/common/httputil"
)

type StorageClient struct {
	baseURL string
	client  *http.Client
}

func NewStorageClient(baseURL string) *StorageClient {
	return &StorageClient{baseURL: baseURL, client: newHTTPClient()}
}

// StorageStats are the stored event counts.
type StorageStats struct {
	NumParkingEvents int64 `json:"num_parking_events"`
	NumPaymentEvents int64 `json:"num_payment_events"`
}

// StoredParkingStatus is one recorded parking status row.
type StoredParkingStatus struct {
	ID          int64     `json:"id"`
	MeterID     string    `json:"meter_id"`
	DeviceID    string    `json:"device_id"`
	Status      bool      `json:"status"`
	SpotNumber  int       `json:"spot_number"`
	Timestamp   string    `json:"timestamp"`
	TraceID     string    `json:"trace_id"`
	DateCreated time.Time `json:"date_created"`
}

// StoredPayment is one recorded payment row.
type StoredPayment struct {
	ID          int64     `json:"id"`
	MeterID     string    `json:"meter_id"`
	DeviceID    string    `json:"device_id"`
	Amount      float64   `json:"amount"`
	Duration    int       `json:"duration"`
	Timestamp   string    `json:"timestamp"`
	TraceID     string    `json:"trace_id"`
	DateCreated time.Time `json:"date_created"`
}

func (c *StorageClient) Stats() (*StorageStats, error) {
	var stats StorageStats
	if err := getJSON(c.client, c.baseURL+"/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *StorageClient) ParkingStatusWindow(start, end time.Time) ([]StoredParkingStatus, error) {
	var rows []StoredParkingStatus
	if err := getJSON(c.client, c.windowURL("/parking-status", start, end), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *StorageClient) PaymentWindow(start, end time.Time) ([]StoredPayment, error) {
	var rows []StoredPayment
	if err := getJSON(c.client, c.windowURL("/payment-events", start, end), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *StorageClient) windowURL(path string, start, end time.Time) string {
	params := url.Values{}
	params.Set("start_timestamp", start.UTC().Format(httputil.QueryTimeLayout))
	params.Set("end_timestamp", end.UTC().Format(httputil.QueryTimeLayout))
	return c.baseURL + path + "?" + params.Encode()
}
