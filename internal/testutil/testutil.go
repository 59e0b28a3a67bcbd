// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencloze/opencloze/internal/corpus"
	"github.com/opencloze/opencloze/internal/ledger"
)

// SpanishRecords is a small Spanish corpus fixture with two sets.
func SpanishRecords() []corpus.SentenceRecord {
	return []corpus.SentenceRecord{
		{SentenceID: 1, English: "The cat drinks milk.", Translation: "El gato bebe leche.", Set: "100", Difficulty: 1.20},
		{SentenceID: 2, English: "The dog eats bread.", Translation: "El perro come pan.", Set: "100", Difficulty: 2.40},
		{SentenceID: 3, English: "The bird sings.", Translation: "El pájaro canta.", Set: "100", Difficulty: 3.10},
		{SentenceID: 4, English: "I want water.", Translation: "Quiero agua.", Set: "200", Difficulty: 1.75},
	}
}

// NewUserDir creates a temporary user data directory holding the given
// corpus and an empty progress ledger.
func NewUserDir(t *testing.T, languageCode string, records []corpus.SentenceRecord) (string, *corpus.Store, *ledger.Ledger) {
	t.Helper()

	userDir := t.TempDir()
	store, err := corpus.NewStore(userDir)
	require.NoError(t, err)
	require.NoError(t, store.Save(languageCode, records))

	progressLedger, err := ledger.New(userDir)
	require.NoError(t, err)
	return userDir, store, progressLedger
}
