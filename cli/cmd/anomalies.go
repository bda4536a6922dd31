package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkwatch-systems/parkwatch-stack/cli/internal/client"
	"github.com/parkwatch-systems/parkwatch-stack/cli/pkg/output"
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "List detected anomalies",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		c := client.NewAnomalyClient(cfg.AnomalyURL)
		anomalies, err := c.Anomalies()
		if err != nil {
			return fmt.Errorf("failed to fetch anomalies: %w", err)
		}

		if asJSON {
			return output.JSON(anomalies)
		}

		if len(anomalies) == 0 {
			output.Info("No anomalies recorded")
			return nil
		}

		table := output.NewTable("DETECTED", "METER", "TYPE", "DESCRIPTION", "TRACE")
		for _, a := range anomalies {
			table.AddRow(
				a.DetectedAt.Format("2006-01-02 15:04:05"),
				a.EventID,
				a.AnomalyType,
				a.Description,
				a.TraceID,
			)
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(anomaliesCmd)
	anomaliesCmd.Flags().Bool("json", false, "Output as JSON")
}
