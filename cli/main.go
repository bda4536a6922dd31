package main

import (
	"os"

	"github.com/parkwatch-systems/parkwatch-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
