package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/parkwatch-systems/parkwatch-stack/common/events"
)

var (
	receiverURL = flag.String("receiver-url", "http://localhost:8080", "Receiver endpoint URL")
	count       = flag.Int("count", 100, "Number of events to generate")
	interval    = flag.Duration("interval", 100*time.Millisecond, "Interval between events")
	meters      = flag.Int("meters", 20, "Number of distinct meters to simulate")
	paymentPct  = flag.Int("payment-pct", 40, "Percentage of events that are payments")
	anomalyPct  = flag.Int("anomaly-pct", 5, "Percentage of events with out-of-range values")
)

func main() {
	flag.Parse()

	if *paymentPct < 0 || *paymentPct > 100 {
		log.Fatal("payment-pct must be between 0 and 100")
	}
	if *anomalyPct < 0 || *anomalyPct > 100 {
		log.Fatal("anomaly-pct must be between 0 and 100")
	}

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting event seeder:")
	log.Printf("  Receiver URL: %s", *receiverURL)
	log.Printf("  Event count: %d", *count)
	log.Printf("  Interval: %v", *interval)
	log.Printf("  Meters: %d", *meters)
	log.Printf("  Payment share: %d%%", *paymentPct)
	log.Printf("  Anomaly share: %d%%", *anomalyPct)

	fleet := buildFleet(*meters)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	successCount := 0
	failCount := 0

	for i := 0; i < *count; i++ {
		meter := fleet[rand.Intn(len(fleet))]
		anomalous := rand.Intn(100) < *anomalyPct

		var path string
		var payload any
		if rand.Intn(100) < *paymentPct {
			path = "/payment"
			payload = generatePayment(meter, anomalous)
		} else {
			path = "/parking-status"
			payload = generateParkingStatus(meter, anomalous)
		}

		if err := send(client, *receiverURL+path, payload); err != nil {
			log.Printf("Failed to send event: %v", err)
			failCount++
		} else {
			successCount++
			if successCount%50 == 0 {
				log.Printf("Progress: %d/%d events sent", successCount, *count)
			}
		}

		if *interval > 0 && i < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("\nSeeding complete:")
	log.Printf("  Success: %d events", successCount)
	log.Printf("  Failed: %d events", failCount)
}

type meterIdentity struct {
	MeterID  string
	DeviceID string
}

func buildFleet(n int) []meterIdentity {
	fleet := make([]meterIdentity, 0, n)
	for i := 0; i < n; i++ {
		fleet = append(fleet, meterIdentity{
			MeterID:  fmt.Sprintf("mtr-%04d", 1000+i),
			DeviceID: gofakeit.UUID(),
		})
	}
	return fleet
}

func generateParkingStatus(meter meterIdentity, anomalous bool) events.ParkingStatusPayload {
	spot := gofakeit.Number(0, 199)
	if anomalous {
		spot = -gofakeit.Number(1, 50)
	}

	return events.ParkingStatusPayload{
		MeterID:    meter.MeterID,
		DeviceID:   meter.DeviceID,
		Status:     gofakeit.Bool(),
		SpotNumber: spot,
		Timestamp:  time.Now().UTC().Format(events.CreatedAtLayout),
	}
}

func generatePayment(meter meterIdentity, anomalous bool) events.PaymentPayload {
	amount := gofakeit.Price(0.5, 40)
	if anomalous {
		amount = gofakeit.Price(101, 5000)
	}

	return events.PaymentPayload{
		MeterID:   meter.MeterID,
		DeviceID:  meter.DeviceID,
		Amount:    amount,
		Duration:  gofakeit.Number(15, 480),
		Timestamp: time.Now().UTC().Format(events.CreatedAtLayout),
	}
}

func send(client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("receiver returned status %d", resp.StatusCode)
	}
	return nil
}
