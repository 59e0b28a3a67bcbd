// Package corpus owns the per-user, per-language sentence datasets: the
// SentenceRecord model and the CSV-backed store that persists them.
package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// SentenceRecord is one row of a language's corpus file. The yaml tags
// are used when a round's working copy is persisted between interactions.
type SentenceRecord struct {
	SentenceID      int64  `yaml:"sentence_id"`
	English         string `yaml:"english"`
	Translation     string `yaml:"translation"`
	Transliteration string `yaml:"transliteration,omitempty"`

	// MissingIndices restricts cloze blanking to these 1-based token
	// positions when non-empty. Set by uploaders, never by the default
	// corpus build.
	MissingIndices []int `yaml:"missing_indices,omitempty"`

	Set           string  `yaml:"set"`
	LastPracticed string  `yaml:"last_practiced,omitempty"` // YYYY-MM-DD, empty if never practiced
	NRight        int64   `yaml:"n_right"`
	NWrong        int64   `yaml:"n_wrong"`
	Difficulty    float64 `yaml:"difficulty"`
	Mnemonic      string  `yaml:"mnemonic,omitempty"`
}

// columns is the exact on-disk column order of a corpus file.
var columns = []string{
	"sentence_id", "english", "translation", "transliteration",
	"missing_indices", "set", "last_practiced", "n_right", "n_wrong",
	"difficulty", "mnemonic",
}

func (r SentenceRecord) toRow() []string {
	return []string{
		strconv.FormatInt(r.SentenceID, 10),
		r.English,
		r.Translation,
		r.Transliteration,
		joinIndices(r.MissingIndices),
		r.Set,
		r.LastPracticed,
		strconv.FormatInt(r.NRight, 10),
		strconv.FormatInt(r.NWrong, 10),
		strconv.FormatFloat(r.Difficulty, 'f', 2, 64),
		r.Mnemonic,
	}
}

func recordFromRow(row []string) (SentenceRecord, error) {
	if len(row) != len(columns) {
		return SentenceRecord{}, fmt.Errorf("expected %d columns, got %d", len(columns), len(row))
	}

	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return SentenceRecord{}, fmt.Errorf("invalid sentence_id %q > %w", row[0], err)
	}
	indices, err := parseIndices(row[4])
	if err != nil {
		return SentenceRecord{}, fmt.Errorf("invalid missing_indices %q > %w", row[4], err)
	}
	nRight, err := parseCount(row[7])
	if err != nil {
		return SentenceRecord{}, fmt.Errorf("invalid n_right %q > %w", row[7], err)
	}
	nWrong, err := parseCount(row[8])
	if err != nil {
		return SentenceRecord{}, fmt.Errorf("invalid n_wrong %q > %w", row[8], err)
	}
	difficulty := 0.0
	if row[9] != "" {
		difficulty, err = strconv.ParseFloat(row[9], 64)
		if err != nil {
			return SentenceRecord{}, fmt.Errorf("invalid difficulty %q > %w", row[9], err)
		}
	}

	return SentenceRecord{
		SentenceID:      id,
		English:         row[1],
		Translation:     row[2],
		Transliteration: row[3],
		MissingIndices:  indices,
		Set:             row[5],
		LastPracticed:   row[6],
		NRight:          nRight,
		NWrong:          nWrong,
		Difficulty:      difficulty,
		Mnemonic:        row[10],
	}, nil
}

func parseCount(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative counter %d", n)
	}
	return n, nil
}

func joinIndices(indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	parts := make([]string, 0, len(indices))
	for _, index := range indices {
		parts = append(parts, strconv.Itoa(index))
	}
	return strings.Join(parts, ",")
}

func parseIndices(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		index, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if index < 1 {
			return nil, fmt.Errorf("index %d is not 1-based", index)
		}
		indices = append(indices, index)
	}
	return indices, nil
}
