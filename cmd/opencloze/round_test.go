package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencloze/opencloze/internal/config"
	"github.com/opencloze/opencloze/internal/language"
)

func TestRoundFlags_toRoundConfig(t *testing.T) {
	cfg := &config.Config{
		Round: config.RoundConfig{
			NumSentences:   10,
			BlankCount:     1,
			NumChoices:     4,
			PercentileLow:  0,
			PercentileHigh: 100,
		},
	}
	japanese, err := language.Lookup("Japanese")
	require.NoError(t, err)
	spanish, err := language.Lookup("Spanish")
	require.NoError(t, err)

	t.Run("defaults come from the configuration", func(t *testing.T) {
		flags := &roundFlags{set: "100", percentileLow: -1, percentileHigh: -1}
		got := flags.toRoundConfig(cfg, spanish)

		assert.Equal(t, "Spanish", got.Language)
		assert.Equal(t, "spa", got.LanguageCode)
		assert.Equal(t, 10, got.NumSentences)
		assert.Equal(t, 1, got.BlankCount)
		assert.Equal(t, 4, got.NumChoices)
		assert.InDelta(t, 0.0, got.PercentileLow, 1e-9)
		assert.InDelta(t, 100.0, got.PercentileHigh, 1e-9)
		assert.Equal(t, int64(1), got.SequentialFrom)
		assert.Equal(t, int64(math.MaxInt64), got.SequentialTo)
	})

	t.Run("flags override the configuration", func(t *testing.T) {
		flags := &roundFlags{
			set:            "200",
			sentences:      5,
			blanks:         2,
			choice:         true,
			choices:        3,
			random:         true,
			percentileLow:  25,
			percentileHigh: 75,
		}
		got := flags.toRoundConfig(cfg, spanish)

		assert.Equal(t, 5, got.NumSentences)
		assert.Equal(t, 2, got.BlankCount)
		assert.True(t, got.UseChoice)
		assert.Equal(t, 3, got.NumChoices)
		assert.True(t, got.Randomize)
		assert.InDelta(t, 25.0, got.PercentileLow, 1e-9)
		assert.InDelta(t, 75.0, got.PercentileHigh, 1e-9)
	})

	t.Run("language traits carry over", func(t *testing.T) {
		flags := &roundFlags{set: "100", percentileLow: -1, percentileHigh: -1, pronunciation: true}
		got := flags.toRoundConfig(cfg, japanese)

		assert.Equal(t, "jpn", got.LanguageCode)
		assert.Equal(t, "ja", got.TTSCode)
		assert.True(t, got.Pronunciation)
	})
}
