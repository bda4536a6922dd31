package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkwatch-systems/parkwatch-stack/cli/internal/client"
	"github.com/parkwatch-systems/parkwatch-stack/cli/pkg/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show fleet health",
	Long:  "Show the check service's latest sweep over all services",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		c := client.NewCheckClient(cfg.CheckURL)
		report, err := c.Status()
		if err != nil {
			return fmt.Errorf("failed to fetch fleet status: %w", err)
		}

		if asJSON {
			return output.JSON(report)
		}

		output.Info("Fleet status as of %s", report.CheckedAt.Format("2006-01-02 15:04:05"))
		table := output.NewTable("SERVICE", "STATUS")
		table.AddRow("receiver", report.Receiver)
		table.AddRow("storage", report.Storage)
		table.AddRow("processing", report.Processing)
		table.AddRow("analyzer", report.Analyzer)
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("json", false, "Output as JSON")
}
