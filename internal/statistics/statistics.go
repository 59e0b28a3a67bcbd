// Package statistics aggregates the progress ledger and the corpus into
// the overview tables shown by the stats command.
package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/opencloze/opencloze/internal/corpus"
	"github.com/opencloze/opencloze/internal/ledger"
)

// Period is the bucketing granularity of the practice history.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Periods lists the supported granularities in display order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}

// Row is one aggregated bucket of practice history for one language and
// set.
type Row struct {
	Bucket   string
	Language string
	Set      string

	Rounds     int
	NSentences int
	NWrong     int
	Seconds    float64

	// MaxProgress is the highest set progress reached in the bucket.
	MaxProgress float64
}

// WrongRatio is the bucket's wrong answers per practiced sentence.
func (r Row) WrongRatio() float64 {
	if r.NSentences == 0 {
		return 0
	}
	return float64(r.NWrong) / float64(r.NSentences)
}

// Aggregate groups ledger entries into period buckets per language and
// set, summing counts and keeping the highest progress. Rows come back
// sorted by bucket, language, then set.
func Aggregate(entries []ledger.Entry, period Period) ([]Row, error) {
	type key struct {
		bucket   string
		language string
		set      string
	}

	grouped := make(map[key]*Row)
	for _, entry := range entries {
		bucket, err := bucketLabel(entry.Date, period)
		if err != nil {
			return nil, err
		}
		k := key{bucket: bucket, language: entry.Language, set: entry.Set}

		row, ok := grouped[k]
		if !ok {
			row = &Row{Bucket: bucket, Language: entry.Language, Set: entry.Set}
			grouped[k] = row
		}
		row.Rounds++
		row.NSentences += entry.NSentences
		row.NWrong += entry.NWrong
		row.Seconds += entry.Seconds
		if entry.SetProgress > row.MaxProgress {
			row.MaxProgress = entry.SetProgress
		}
	}

	rows := make([]Row, 0, len(grouped))
	for _, row := range grouped {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Bucket != rows[j].Bucket {
			return rows[i].Bucket < rows[j].Bucket
		}
		if rows[i].Language != rows[j].Language {
			return rows[i].Language < rows[j].Language
		}
		return rows[i].Set < rows[j].Set
	})
	return rows, nil
}

// EntryFilter restricts which ledger entries are aggregated. Zero
// values mean no restriction; From and To are inclusive dates.
type EntryFilter struct {
	Language string
	Set      string
	From     time.Time
	To       time.Time
}

// FilterEntries returns the entries matching the filter, in order.
func FilterEntries(entries []ledger.Entry, filter EntryFilter) []ledger.Entry {
	var filtered []ledger.Entry
	for _, entry := range entries {
		if filter.Language != "" && entry.Language != filter.Language {
			continue
		}
		if filter.Set != "" && entry.Set != filter.Set {
			continue
		}
		if !filter.From.IsZero() && entry.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && entry.Date.After(filter.To) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func bucketLabel(date time.Time, period Period) (string, error) {
	switch period {
	case PeriodDaily:
		return date.Format("2006-01-02"), nil
	case PeriodWeekly:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), nil
	case PeriodMonthly:
		return date.Format("2006-01"), nil
	case PeriodYearly:
		return date.Format("2006"), nil
	}
	return "", fmt.Errorf("unknown period %q", period)
}

// SetOverview summarizes one corpus set.
type SetOverview struct {
	Set   string
	Total int

	// Practiced counts sentences seen in at least one round.
	Practiced int

	// Mastered counts sentences answered right at least once.
	Mastered int

	AverageDifficulty float64

	// AverageTimesStudied is the mean of n_right + n_wrong over the set.
	AverageTimesStudied float64

	// WrongRate is the fraction of studies that were answered wrong.
	WrongRate float64

	// Minutes sums the time the ledger recorded for the set.
	Minutes float64

	// LastPracticed is the most recent last_practiced date in the set,
	// empty when the set was never practiced.
	LastPracticed string
}

// Overview summarizes every set of a corpus, in the corpus's first-seen
// set order. Ledger entries contribute the time studied per set.
func Overview(records []corpus.SentenceRecord, entries []ledger.Entry) []SetOverview {
	type counts struct {
		right int64
		wrong int64
	}

	bySets := make(map[string]*SetOverview)
	countsBySets := make(map[string]*counts)
	var overviews []*SetOverview
	for _, record := range records {
		overview, ok := bySets[record.Set]
		if !ok {
			overview = &SetOverview{Set: record.Set}
			bySets[record.Set] = overview
			countsBySets[record.Set] = &counts{}
			overviews = append(overviews, overview)
		}
		overview.Total++
		if record.LastPracticed != "" || record.NRight > 0 || record.NWrong > 0 {
			overview.Practiced++
		}
		if record.NRight >= 1 {
			overview.Mastered++
		}
		overview.AverageDifficulty += record.Difficulty
		countsBySets[record.Set].right += record.NRight
		countsBySets[record.Set].wrong += record.NWrong
		if record.LastPracticed > overview.LastPracticed {
			overview.LastPracticed = record.LastPracticed
		}
	}
	for _, entry := range entries {
		if overview, ok := bySets[entry.Set]; ok {
			overview.Minutes += entry.Seconds / 60
		}
	}

	result := make([]SetOverview, 0, len(overviews))
	for _, overview := range overviews {
		studies := countsBySets[overview.Set]
		if overview.Total > 0 {
			overview.AverageDifficulty /= float64(overview.Total)
			overview.AverageTimesStudied = float64(studies.right+studies.wrong) / float64(overview.Total)
		}
		if studies.right+studies.wrong > 0 {
			overview.WrongRate = float64(studies.wrong) / float64(studies.right+studies.wrong)
		}
		result = append(result, *overview)
	}
	return result
}
