package round

import (
	"fmt"

	"github.com/opencloze/opencloze/internal/audio"
	"github.com/opencloze/opencloze/internal/ledger"
)

// finish reconciles the round's working copy with the corpus file,
// appends the progress ledger entry, purges pronunciation audio, and
// discards the durable state. The corpus is reloaded first so that edits
// made outside the round to untouched sentences survive; for practiced
// sentences only the counters, mnemonic, and last-practiced date are
// overridden.
func (e *Engine) finish(state *RoundState) (*Summary, error) {
	cfg := state.Config

	records, err := e.store.Load(cfg.LanguageCode)
	if err != nil {
		return nil, fmt.Errorf("store.Load(%s) > %w", cfg.LanguageCode, err)
	}

	total := 0
	alreadyRight := 0
	for _, record := range records {
		if record.Set != cfg.Set {
			continue
		}
		total++
		if record.NRight >= 1 {
			alreadyRight++
		}
	}

	today := e.now().Format(ledger.DateFormat)
	for i := range records {
		item := state.item(records[i].SentenceID)
		if item == nil {
			continue
		}
		records[i].NRight = item.Record.NRight
		records[i].NWrong = item.Record.NWrong
		records[i].Mnemonic = item.Record.Mnemonic
		records[i].LastPracticed = today
	}
	if err := e.store.Save(cfg.LanguageCode, records); err != nil {
		return nil, fmt.Errorf("store.Save(%s) > %w", cfg.LanguageCode, err)
	}

	summary := &Summary{
		NSentences:  len(state.Sample),
		NWrong:      state.WrongCounter,
		SetProgress: setProgress(total, alreadyRight, len(state.Sample)),
		Elapsed:     e.now().Sub(state.StartTime),
	}
	entry := ledger.Entry{
		Date:        e.now(),
		Language:    cfg.Language,
		Set:         cfg.Set,
		SetProgress: summary.SetProgress,
		NSentences:  summary.NSentences,
		NWrong:      summary.NWrong,
		Seconds:     summary.Elapsed.Seconds(),
	}
	if err := e.ledger.Append(entry); err != nil {
		return nil, fmt.Errorf("ledger.Append() > %w", err)
	}

	if err := audio.Purge(e.store.UserDir()); err != nil {
		return nil, fmt.Errorf("audio.Purge() > %w", err)
	}

	state.State = StateRoundComplete
	if err := discardState(e.store.UserDir()); err != nil {
		return nil, fmt.Errorf("discardState() > %w", err)
	}
	return summary, nil
}

// setProgress estimates the fraction of the set mastered after this
// round. Sentences answered right before the round plus this round's
// sample size, capped at the set size. The estimate over-counts when the
// sample revisits already-mastered sentences; the cap keeps it in range.
func setProgress(total, alreadyRight, sampleSize int) float64 {
	if total == 0 {
		return 0
	}
	mastered := alreadyRight + sampleSize
	if mastered > total {
		mastered = total
	}
	return float64(mastered) / float64(total)
}
