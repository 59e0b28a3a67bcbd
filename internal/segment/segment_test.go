package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForLanguage_passthrough(t *testing.T) {
	segmenter, err := ForLanguage("spa")
	require.NoError(t, err)

	result, err := segmenter.Segment("Hola mundo")
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", result)
}

func TestForLanguage_mandarinCharacterSplit(t *testing.T) {
	segmenter, err := ForLanguage("cmn")
	require.NoError(t, err)

	result, err := segmenter.Segment("我喜欢猫。")
	require.NoError(t, err)
	assert.Equal(t, "我 喜 欢 猫 。", result)
}

func TestForLanguage_japanese(t *testing.T) {
	segmenter, err := ForLanguage("jpn")
	require.NoError(t, err)

	result, err := segmenter.Segment("猫が好きです。")
	require.NoError(t, err)

	// kagome splits into morphemes; exact boundaries are the
	// dictionary's business, but the text must be space-joined and
	// reassemble to the input
	assert.Contains(t, result, " ")
	assert.Equal(t, "猫が好きです。", removeSpaces(result))
}

func removeSpaces(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
