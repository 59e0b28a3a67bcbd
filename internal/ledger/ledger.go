// Package ledger maintains the append-only log of completed-round
// summaries that the statistics views aggregate.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileName is the ledger file name inside a user's data directory.
const FileName = "progress.csv"

// DateFormat is the on-disk date layout.
const DateFormat = "2006-01-02"

var columns = []string{"date", "language", "set", "set_progress", "n_sentences", "n_wrong", "seconds"}

// Entry is one completed-round summary row.
type Entry struct {
	Date        time.Time
	Language    string
	Set         string
	SetProgress float64 // fraction 0-1, stored with 6-decimal precision
	NSentences  int
	NWrong      int
	Seconds     float64
}

// Ledger appends and reads a user's progress file.
type Ledger struct {
	path string
}

// New creates a ledger over the progress file in the given user directory,
// writing the header if the file doesn't exist yet.
func New(userDir string) (*Ledger, error) {
	path := filepath.Join(userDir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("os.Create(%s) > %w", path, err)
		}
		writer := csv.NewWriter(file)
		if err := writer.Write(columns); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("write header > %w", err)
		}
		writer.Flush()
		if err := file.Close(); err != nil {
			return nil, fmt.Errorf("file.Close(%s) > %w", path, err)
		}
	}
	return &Ledger{path: path}, nil
}

// Append writes one entry at the end of the ledger. Entries are never
// updated or removed.
func (l *Ledger) Append(entry Entry) error {
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("os.OpenFile(%s) > %w", l.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := csv.NewWriter(file)
	row := []string{
		entry.Date.Format(DateFormat),
		entry.Language,
		entry.Set,
		strconv.FormatFloat(entry.SetProgress, 'f', 6, 64),
		strconv.Itoa(entry.NSentences),
		strconv.Itoa(entry.NWrong),
		strconv.FormatFloat(entry.Seconds, 'f', 6, 64),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("write entry > %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// ReadAll returns every ledger entry in append order.
func (l *Ledger) ReadAll() ([]Entry, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", l.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv.ReadAll(%s) > %w", l.path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ledger file %s is missing its header", l.path)
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		entry, err := entryFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("ledger file %s line %d > %w", l.path, i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromRow(row []string) (Entry, error) {
	if len(row) != len(columns) {
		return Entry{}, fmt.Errorf("expected %d columns, got %d", len(columns), len(row))
	}
	date, err := time.Parse(DateFormat, row[0])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid date %q > %w", row[0], err)
	}
	progress, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid set_progress %q > %w", row[3], err)
	}
	nSentences, err := strconv.Atoi(row[4])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid n_sentences %q > %w", row[4], err)
	}
	nWrong, err := strconv.Atoi(row[5])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid n_wrong %q > %w", row[5], err)
	}
	seconds, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid seconds %q > %w", row[6], err)
	}
	return Entry{
		Date:        date,
		Language:    row[1],
		Set:         row[2],
		SetProgress: progress,
		NSentences:  nSentences,
		NWrong:      nWrong,
		Seconds:     seconds,
	}, nil
}
