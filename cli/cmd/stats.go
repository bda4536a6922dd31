package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/parkwatch-systems/parkwatch-stack/cli/internal/client"
	"github.com/parkwatch-systems/parkwatch-stack/cli/pkg/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show event statistics",
	Long:  "Show stored event counts and the aggregated statistics snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		storage := client.NewStorageClient(cfg.StorageURL)
		stored, storageErr := storage.Stats()

		processing := client.NewProcessingClient(cfg.ProcessingURL)
		aggregated, processingErr := processing.Stats()

		if storageErr != nil && processingErr != nil {
			return fmt.Errorf("no statistics available: storage: %v, processing: %v", storageErr, processingErr)
		}

		if asJSON {
			combined := map[string]interface{}{}
			if storageErr == nil {
				combined["storage"] = stored
			}
			if processingErr == nil {
				combined["processing"] = aggregated
			}
			return output.JSON(combined)
		}

		if storageErr != nil {
			output.Warn("Storage stats unavailable: %v", storageErr)
		} else {
			output.Info("Stored events")
			table := output.NewTable("TYPE", "COUNT")
			table.AddRow("parking_status", strconv.FormatInt(stored.NumParkingEvents, 10))
			table.AddRow("payment", strconv.FormatInt(stored.NumPaymentEvents, 10))
			table.Render()
		}

		if processingErr != nil {
			output.Warn("Processing stats unavailable: %v", processingErr)
		} else {
			fmt.Println()
			output.Info("Aggregated snapshot (updated %s)", aggregated.LastUpdated.Format("2006-01-02 15:04:05"))
			table := output.NewTable("METRIC", "VALUE")
			table.AddRow("total_status_events", strconv.FormatInt(aggregated.TotalStatusEvents, 10))
			table.AddRow("total_payment_events", strconv.FormatInt(aggregated.TotalPaymentEvents, 10))
			table.AddRow("most_frequent_meter", aggregated.MostFrequentMeter)
			table.AddRow("highest_payment", strconv.FormatFloat(aggregated.HighestPayment, 'f', 2, 64))
			table.Render()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("json", false, "Output as JSON")
}
