package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parkwatch-systems/parkwatch-stack/cli/internal/client"
	"github.com/parkwatch-systems/parkwatch-stack/cli/pkg/output"
	"github.com/parkwatch-systems/parkwatch-stack/common/events"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit meter telemetry",
	Long:  "Send parking status or payment events to the receiver service",
}

var submitParkingCmd = &cobra.Command{
	Use:   "parking",
	Short: "Submit a parking status event",
	Example: `  pwctl submit parking --meter meter-42 --device dev-7 --spot 12 --occupied
  pwctl submit parking --meter meter-42 --device dev-7 --spot 12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		meter, _ := cmd.Flags().GetString("meter")
		device, _ := cmd.Flags().GetString("device")
		spot, _ := cmd.Flags().GetInt("spot")
		occupied, _ := cmd.Flags().GetBool("occupied")

		if meter == "" || device == "" {
			return fmt.Errorf("both --meter and --device are required")
		}

		c := client.NewReceiverClient(cfg.ReceiverURL)
		traceID, err := c.SubmitParkingStatus(events.ParkingStatusPayload{
			MeterID:    meter,
			DeviceID:   device,
			Status:     occupied,
			SpotNumber: spot,
			Timestamp:  time.Now().UTC().Format(events.CreatedAtLayout),
		})
		if err != nil {
			return fmt.Errorf("failed to submit parking status: %w", err)
		}

		output.Success("Parking status submitted (trace id: %s)", traceID)
		return nil
	},
}

var submitPaymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Submit a payment event",
	Example: `  pwctl submit payment --meter meter-42 --device dev-7 --amount 4.50 --minutes 90`,
	RunE: func(cmd *cobra.Command, args []string) error {
		meter, _ := cmd.Flags().GetString("meter")
		device, _ := cmd.Flags().GetString("device")
		amount, _ := cmd.Flags().GetFloat64("amount")
		minutes, _ := cmd.Flags().GetInt("minutes")

		if meter == "" || device == "" {
			return fmt.Errorf("both --meter and --device are required")
		}
		if amount < 0 {
			return fmt.Errorf("--amount must not be negative")
		}

		c := client.NewReceiverClient(cfg.ReceiverURL)
		traceID, err := c.SubmitPayment(events.PaymentPayload{
			MeterID:   meter,
			DeviceID:  device,
			Amount:    amount,
			Duration:  minutes,
			Timestamp: time.Now().UTC().Format(events.CreatedAtLayout),
		})
		if err != nil {
			return fmt.Errorf("failed to submit payment: %w", err)
		}

		output.Success("Payment submitted (trace id: %s)", traceID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.AddCommand(submitParkingCmd)
	submitCmd.AddCommand(submitPaymentCmd)

	submitParkingCmd.Flags().StringP("meter", "m", "", "Meter id")
	submitParkingCmd.Flags().StringP("device", "d", "", "Device id")
	submitParkingCmd.Flags().Int("spot", 0, "Spot number")
	submitParkingCmd.Flags().Bool("occupied", false, "Spot is occupied")

	submitPaymentCmd.Flags().StringP("meter", "m", "", "Meter id")
	submitPaymentCmd.Flags().StringP("device", "d", "", "Device id")
	submitPaymentCmd.Flags().Float64P("amount", "a", 0, "Payment amount")
	submitPaymentCmd.Flags().Int("minutes", 60, "Parking duration in minutes")
}
