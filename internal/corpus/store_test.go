package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []SentenceRecord {
	return []SentenceRecord{
		{
			SentenceID:  1,
			English:     "Hello.",
			Translation: "Hola.",
			Set:         "Tatoeba",
			Difficulty:  1.25,
		},
		{
			SentenceID:     2,
			English:        "Good morning.",
			Translation:    "Buenos días.",
			MissingIndices: []int{2},
			Set:            "Tatoeba",
			LastPracticed:  "2026-08-30",
			NRight:         3,
			NWrong:         1,
			Difficulty:     2.50,
			Mnemonic:       "días like diary",
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	records := testRecords()
	require.NoError(t, store.Save("spa", records))

	loaded, err := store.Load("spa")
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestStore_Load_missingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("spa")
	assert.ErrorIs(t, err, ErrNoCorpus)
	assert.False(t, store.Exists("spa"))
}

func TestStore_Load_malformedHeader(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	content := "sentence_id,english\n1,Hello\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spa.csv"), []byte(content), 0644))

	_, err = store.Load("spa")
	assert.ErrorContains(t, err, "expected 11 columns")
}

func TestStore_Save_leavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save("spa", testRecords()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "spa.csv", entries[0].Name())
}

func TestStore_AppendSet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("spa", testRecords()))

	appended := []SentenceRecord{
		{English: "Thanks.", Translation: "Gracias.", Difficulty: 0.80},
		{English: "Please.", Translation: "Por favor.", Difficulty: 1.10},
	}
	require.NoError(t, store.AppendSet("spa", "travel", appended))

	loaded, err := store.Load("spa")
	require.NoError(t, err)
	require.Len(t, loaded, 4)

	// ids continue from max+1 and the set label is applied
	assert.Equal(t, int64(3), loaded[2].SentenceID)
	assert.Equal(t, int64(4), loaded[3].SentenceID)
	assert.Equal(t, "travel", loaded[2].Set)
	assert.Equal(t, []string{"Tatoeba", "travel"}, Sets(loaded))
}

func TestStore_AppendSet_duplicateSet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("spa", testRecords()))

	err = store.AppendSet("spa", "Tatoeba", []SentenceRecord{{English: "Hi", Translation: "Hola"}})
	assert.ErrorContains(t, err, "already exists")
}

func TestNextSentenceID(t *testing.T) {
	assert.Equal(t, int64(1), NextSentenceID(nil))
	assert.Equal(t, int64(3), NextSentenceID(testRecords()))
}

func TestParseUpload(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr string
	}{
		{
			name:    "minimal columns",
			content: "english,translation\nHello.,Hola.\n",
			want:    1,
		},
		{
			name:    "all columns",
			content: "english,translation,transliteration,missing_indices\nHello.,Привет.,Privet.,\"1\"\n",
			want:    1,
		},
		{
			name:    "missing translation column",
			content: "english\nHello.\n",
			wantErr: `missing required column "translation"`,
		},
		{
			name:    "unknown column",
			content: "english,translation,difficulty\nHello.,Hola.,3\n",
			wantErr: `unknown column "difficulty"`,
		},
		{
			name:    "empty translation cell",
			content: "english,translation\nHello.,\n",
			wantErr: "must not be empty",
		},
		{
			name:    "header only",
			content: "english,translation\n",
			wantErr: "at least one sentence",
		},
		{
			name:    "non-numeric missing_indices",
			content: "english,translation,missing_indices\nHello.,Hola.,abc\n",
			wantErr: "invalid missing_indices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload, err := ParseUpload(strings.NewReader(tt.content))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, upload.Records, tt.want)
		})
	}
}
