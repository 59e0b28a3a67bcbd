package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCorpus is returned when a language has no corpus file yet.
var ErrNoCorpus = errors.New("corpus file does not exist")

// Store reads and writes one user's corpus files. Each language lives in
// its own CSV file named by the language code, e.g. "spa.csv".
type Store struct {
	userDir string
}

// NewStore creates a store rooted at the given user data directory,
// creating the directory if it doesn't exist.
func NewStore(userDir string) (*Store, error) {
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", userDir, err)
	}
	return &Store{userDir: userDir}, nil
}

// UserDir returns the user data directory this store is rooted at.
func (s *Store) UserDir() string {
	return s.userDir
}

func (s *Store) filePath(languageCode string) string {
	return filepath.Join(s.userDir, languageCode+".csv")
}

// Exists reports whether a corpus file exists for the language.
func (s *Store) Exists(languageCode string) bool {
	_, err := os.Stat(s.filePath(languageCode))
	return err == nil
}

// Load reads all sentence records of a language's corpus file.
func (s *Store) Load(languageCode string) ([]SentenceRecord, error) {
	path := s.filePath(languageCode)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCorpus, path)
		}
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv.ReadAll(%s) > %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("corpus file %s is empty", path)
	}
	if err := validateHeader(rows[0]); err != nil {
		return nil, fmt.Errorf("corpus file %s: %w", path, err)
	}

	records := make([]SentenceRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := recordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("corpus file %s line %d > %w", path, i+2, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Save writes the full set of records for a language. The write is an
// atomic replace: a temporary file is written and renamed over the target
// only on success, so a failed write never corrupts the corpus.
func (s *Store) Save(languageCode string, records []SentenceRecord) error {
	path := s.filePath(languageCode)
	tmp, err := os.CreateTemp(s.userDir, languageCode+"-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	writeErr := writer.Write(columns)
	if writeErr == nil {
		for _, record := range records {
			if writeErr = writer.Write(record.toRow()); writeErr != nil {
				break
			}
		}
	}
	writer.Flush()
	if writeErr == nil {
		writeErr = writer.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s > %w", tmpPath, writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("os.Rename(%s, %s) > %w", tmpPath, path, err)
	}
	return nil
}

// FilterBySet returns the records belonging to one set, preserving order.
func FilterBySet(records []SentenceRecord, set string) []SentenceRecord {
	var filtered []SentenceRecord
	for _, record := range records {
		if record.Set == set {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// Sets returns the distinct set labels of a record list in first-seen order.
func Sets(records []SentenceRecord) []string {
	seen := make(map[string]struct{})
	var sets []string
	for _, record := range records {
		if _, ok := seen[record.Set]; ok {
			continue
		}
		seen[record.Set] = struct{}{}
		sets = append(sets, record.Set)
	}
	return sets
}

// NextSentenceID returns the id to assign to the first record of an
// appended set. Ids always continue from the current maximum, never from
// user input, so appends can't introduce duplicates.
func NextSentenceID(records []SentenceRecord) int64 {
	var maxID int64
	for _, record := range records {
		if record.SentenceID > maxID {
			maxID = record.SentenceID
		}
	}
	return maxID + 1
}

// AppendSet appends new records as a named set, assigning sequential ids
// starting at NextSentenceID, and saves the merged corpus.
func (s *Store) AppendSet(languageCode, set string, records []SentenceRecord) error {
	if set == "" {
		return errors.New("set name must not be empty")
	}

	existing, err := s.Load(languageCode)
	if err != nil && !errors.Is(err, ErrNoCorpus) {
		return fmt.Errorf("Load(%s) > %w", languageCode, err)
	}
	for _, label := range Sets(existing) {
		if label == set {
			return fmt.Errorf("set %q already exists in the %s corpus", set, languageCode)
		}
	}

	nextID := NextSentenceID(existing)
	for i := range records {
		records[i].SentenceID = nextID
		records[i].Set = set
		nextID++
	}

	return s.Save(languageCode, append(existing, records...))
}

func validateHeader(header []string) error {
	if len(header) != len(columns) {
		return fmt.Errorf("expected %d columns, got %d", len(columns), len(header))
	}
	for i, name := range columns {
		if header[i] != name {
			return fmt.Errorf("expected column %d to be %q, got %q", i+1, name, header[i])
		}
	}
	return nil
}
