package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkwatch-systems/parkwatch-stack/cli/internal/client"
	"github.com/parkwatch-systems/parkwatch-stack/cli/pkg/output"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Query the event log by position",
	Long:  "Fetch the N-th event of a type from the analyzer's log replay",
	Example: `  pwctl replay --type parking --index 0
  pwctl replay --type payment --index 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eventType, _ := cmd.Flags().GetString("type")
		index, _ := cmd.Flags().GetInt("index")

		if index < 0 {
			return fmt.Errorf("--index must not be negative")
		}

		c := client.NewAnalyzerClient(cfg.AnalyzerURL)

		switch eventType {
		case "parking":
			payload, err := c.ParkingStatusAt(index)
			if err != nil {
				return fmt.Errorf("failed to fetch parking status %d: %w", index, err)
			}
			return output.JSON(payload)
		case "payment":
			payload, err := c.PaymentAt(index)
			if err != nil {
				return fmt.Errorf("failed to fetch payment %d: %w", index, err)
			}
			return output.JSON(payload)
		default:
			return fmt.Errorf("--type must be parking or payment")
		}
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringP("type", "t", "parking", "Event type: parking or payment")
	replayCmd.Flags().IntP("index", "i", 0, "Position in the per-type sequence")
}
