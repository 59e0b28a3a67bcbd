package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(nil, slog.LevelDebug))
		})
	}
}

func TestNewCorpusCommand(t *testing.T) {
	cmd := newCorpusCommand()

	assert.Equal(t, "corpus", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
}

func TestNewRoundCommand(t *testing.T) {
	cmd := newRoundCommand()

	assert.Equal(t, "round", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range []string{"start", "show", "answer", "next", "mnemonic", "abandon", "play"} {
		assert.True(t, subcommands[name], "round must have a %s subcommand", name)
	}
}

func TestNewStatsCommand(t *testing.T) {
	cmd := newStatsCommand()

	assert.Equal(t, "stats", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("period"))
}
