package translit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForLanguage_unknownLanguageIsNoop(t *testing.T) {
	transliterator, err := ForLanguage("spa")
	require.NoError(t, err)

	result, err := transliterator.Transliterate("Hola mundo")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestForLanguage_russian(t *testing.T) {
	transliterator, err := ForLanguage("rus")
	require.NoError(t, err)

	tests := []struct {
		text string
		want string
	}{
		{text: "привет", want: "privet"},
		{text: "Москва", want: "Moskva"},
		{text: "хорошо", want: "khorosho"},
		{text: "да, нет.", want: "da, net."},
	}
	for _, tt := range tests {
		result, err := transliterator.Transliterate(tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, result)
	}
}

func TestBestEffort(t *testing.T) {
	failing := TransliteratorFunc(func(string) (string, error) {
		return "partial", errors.New("dictionary unavailable")
	})
	assert.Empty(t, BestEffort(failing, "текст"))

	ok := TransliteratorFunc(func(string) (string, error) {
		return "tekst", nil
	})
	assert.Equal(t, "tekst", BestEffort(ok, "текст"))
}
