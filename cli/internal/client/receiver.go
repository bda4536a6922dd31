package client

import (
	"net/http"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
)

type ReceiverClient struct {
	baseURL string
	client  *http.Client
}

func NewReceiverClient(baseURL string) *ReceiverClient {
	return &ReceiverClient{baseURL: baseURL, client: newHTTPClient()}
}

// SubmitParkingStatus posts a parking status event and returns the assigned
// trace id.
func (c *ReceiverClient) SubmitParkingStatus(payload events.ParkingStatusPayload) (string, error) {
	var resp struct {
		TraceID string `json:"trace_id"`
	}
	if err := postJSON(c.client, c.baseURL+"/parking-status", payload, &resp); err != nil {
		return "", err
	}
	return resp.TraceID, nil
}

// SubmitPayment posts a payment event and returns the assigned trace id.
func (c *ReceiverClient) SubmitPayment(payload events.PaymentPayload) (string, error) {
	var resp struct {
		TraceID string `json:"trace_id"`
	}
	if err := postJSON(c.client, c.baseURL+"/payment", payload, &resp); err != nil {
		return "", err
	}
	return resp.TraceID, nil
}
