package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Upload holds the validated contents of a user-provided sentence file
// before it is scored and appended as a set.
type Upload struct {
	Records []SentenceRecord
}

// uploadColumns are the columns accepted in an uploaded CSV. english and
// translation are required; the rest are optional.
var uploadRequired = []string{"english", "translation"}
var uploadOptional = []string{"transliteration", "missing_indices"}

// ParseUpload reads and validates an uploaded sentence CSV. It rejects
// files with missing required columns or unknown columns before any write
// happens. Sentence ids and the set label are assigned later by AppendSet.
func ParseUpload(r io.Reader) (*Upload, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv.ReadAll > %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("upload must contain a header and at least one sentence")
	}

	position := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(strings.ToLower(name))
		if !isUploadColumn(name) {
			return nil, fmt.Errorf("unknown column %q (accepted: %s)",
				name, strings.Join(append(uploadRequired, uploadOptional...), ", "))
		}
		if _, ok := position[name]; ok {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		position[name] = i
	}
	for _, name := range uploadRequired {
		if _, ok := position[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := position[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]SentenceRecord, 0, len(rows)-1)
	for lineNo, row := range rows[1:] {
		english := field(row, "english")
		translation := field(row, "translation")
		if english == "" || translation == "" {
			return nil, fmt.Errorf("line %d: english and translation must not be empty", lineNo+2)
		}
		indices, err := parseIndices(field(row, "missing_indices"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid missing_indices > %w", lineNo+2, err)
		}
		records = append(records, SentenceRecord{
			English:         english,
			Translation:     translation,
			Transliteration: field(row, "transliteration"),
			MissingIndices:  indices,
		})
	}

	return &Upload{Records: records}, nil
}

func isUploadColumn(name string) bool {
	for _, accepted := range uploadRequired {
		if name == accepted {
			return true
		}
	}
	for _, accepted := range uploadOptional {
		if name == accepted {
			return true
		}
	}
	return false
}
