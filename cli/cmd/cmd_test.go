package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"submit", "stats", "replay", "anomalies", "status"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestSubmitSubcommands(t *testing.T) {
	sub, _, err := rootCmd.Find([]string{"submit", "parking"})
	require.NoError(t, err)
	assert.Equal(t, "parking", sub.Name())

	sub, _, err = rootCmd.Find([]string{"submit", "payment"})
	require.NoError(t, err)
	assert.Equal(t, "payment", sub.Name())
}

func TestReplayRejectsUnknownType(t *testing.T) {
	initConfig()

	replayCmd.Flags().Set("type", "bogus")
	err := replayCmd.RunE(replayCmd, nil)
	assert.Error(t, err)
}
