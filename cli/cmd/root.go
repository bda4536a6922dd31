package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parkwatch-systems/parkwatch-stack/cli/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pwctl",
	Short: "ParkWatch CLI",
	Long: `pwctl is the command-line interface for the ParkWatch meter fleet.

Submit meter telemetry, query stored events, replay the event log,
list anomalies, and check fleet health from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pwctl/config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}
