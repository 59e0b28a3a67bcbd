package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)

	first := Entry{
		Date:        time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Language:    "Spanish",
		Set:         "Tatoeba",
		SetProgress: 0.25,
		NSentences:  10,
		NWrong:      2,
		Seconds:     93.5,
	}
	second := Entry{
		Date:        time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Language:    "Spanish",
		Set:         "Tatoeba",
		SetProgress: 0.3,
		NSentences:  5,
		NWrong:      0,
		Seconds:     41,
	}
	require.NoError(t, l.Append(first))
	require.NoError(t, l.Append(second))

	entries, err := l.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, second, entries[1])
}

func TestLedger_appendPreservesExistingRows(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, l.Append(Entry{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Language: "French", Set: "Tatoeba", SetProgress: 0.1, NSentences: 3, NWrong: 1, Seconds: 30}))

	// re-opening must not truncate
	l2, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, l2.Append(Entry{Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Language: "French", Set: "Tatoeba", SetProgress: 0.2, NSentences: 3, NWrong: 0, Seconds: 25}))

	entries, err := l2.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLedger_setProgressPrecision(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, l.Append(Entry{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Language: "Greek", Set: "Tatoeba", SetProgress: 1.0 / 3.0, NSentences: 1, NWrong: 0, Seconds: 1}))

	content, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "0.333333"), "set_progress must be stored with 6-decimal precision: %s", content)
}
