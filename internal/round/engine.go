package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/opencloze/opencloze/internal/audio"
	"github.com/opencloze/opencloze/internal/cloze"
	"github.com/opencloze/opencloze/internal/corpus"
	"github.com/opencloze/opencloze/internal/distractor"
	"github.com/opencloze/opencloze/internal/ledger"
)

// Engine drives a round through its lifecycle. Every mutating call loads
// nothing implicitly: the caller passes the state it previously obtained
// from Start or Resume, and the engine persists the updated state before
// returning.
type Engine struct {
	store  *corpus.Store
	ledger *ledger.Ledger
	synth  audio.Synthesizer
	rng    *rand.Rand
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the random source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock replaces the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSynthesizer sets the pronunciation audio backend. Without one the
// pronunciation option is silently inert.
func WithSynthesizer(synth audio.Synthesizer) Option {
	return func(e *Engine) { e.synth = synth }
}

func NewEngine(store *corpus.Store, progressLedger *ledger.Ledger, options ...Option) *Engine {
	engine := &Engine{
		store:  store,
		ledger: progressLedger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

// Start begins a new round: any stale in-progress round is discarded, a
// sentence pool is selected, the sample is materialized with its cloze
// questions, and the first question is activated. The returned state has
// already been persisted.
func (e *Engine) Start(ctx context.Context, cfg Config) (*RoundState, error) {
	if err := discardState(e.store.UserDir()); err != nil {
		return nil, fmt.Errorf("discardState() > %w", err)
	}

	records, err := e.store.Load(cfg.LanguageCode)
	if err != nil {
		return nil, fmt.Errorf("store.Load(%s) > %w", cfg.LanguageCode, err)
	}

	pool, fullPool, err := selectPool(records, cfg)
	if err != nil {
		return nil, err
	}

	sample, err := e.materialize(ctx, pool, fullPool, cfg)
	if err != nil {
		return nil, err
	}

	state := &RoundState{
		Config:    cfg,
		State:     StateSampleMaterialized,
		Sample:    sample,
		Remaining: make([]int64, 0, len(sample)),
		StartTime: e.now(),
	}
	for _, item := range sample {
		state.Remaining = append(state.Remaining, item.Record.SentenceID)
	}

	e.activateNext(state)
	if err := saveState(e.store.UserDir(), state); err != nil {
		return nil, fmt.Errorf("saveState() > %w", err)
	}
	return state, nil
}

// Resume returns the persisted in-progress round, or ErrNoActiveRound.
func (e *Engine) Resume() (*RoundState, error) {
	return loadState(e.store.UserDir())
}

// Abandon discards an in-progress round without recording anything.
func (e *Engine) Abandon() error {
	if err := discardState(e.store.UserDir()); err != nil {
		return fmt.Errorf("discardState() > %w", err)
	}
	return audio.Purge(e.store.UserDir())
}

// AnswerResult reports the evaluation of one submitted answer.
type AnswerResult struct {
	Correct  bool
	Expected []string

	// Completed is true when this answer finished the round; Summary is
	// then populated and the round state has been torn down.
	Completed bool
	Summary   *Summary
}

// Summary describes a finished round, mirroring what is appended to the
// progress ledger.
type Summary struct {
	NSentences  int
	NWrong      int
	SetProgress float64
	Elapsed     time.Duration
}

// Answer evaluates the submitted guesses against the active question's
// blanks. Matching is exact and case-sensitive, one guess per blank in
// logical order. A correct answer retires the sentence; when the last
// sentence is retired the round completes, the corpus and ledger are
// updated, and the durable state is removed.
func (e *Engine) Answer(state *RoundState, guesses []string) (*AnswerResult, error) {
	item := state.CurrentItem()
	if item == nil {
		return nil, errors.New("no active question")
	}
	if item.Done {
		return nil, fmt.Errorf("sentence %d is already answered", item.Record.SentenceID)
	}
	if len(guesses) != len(item.Cloze.Blanks) {
		return nil, fmt.Errorf("expected %d answers, got %d", len(item.Cloze.Blanks), len(guesses))
	}

	result := &AnswerResult{Correct: true}
	for i, blank := range item.Cloze.Blanks {
		result.Expected = append(result.Expected, blank.Word)
		if guesses[i] != blank.Word {
			result.Correct = false
		}
	}

	if result.Correct {
		item.Record.NRight++
		item.Done = true
		state.removeRemaining(item.Record.SentenceID)
	} else {
		item.Record.NWrong++
		state.WrongCounter++
	}
	state.State = StateAnswerEvaluated

	if len(state.Remaining) == 0 {
		summary, err := e.finish(state)
		if err != nil {
			return nil, err
		}
		result.Completed = true
		result.Summary = summary
		return result, nil
	}

	if err := saveState(e.store.UserDir(), state); err != nil {
		return nil, fmt.Errorf("saveState() > %w", err)
	}
	return result, nil
}

// Next activates the next question among the remaining sentences and
// persists the state. In random mode any remaining sentence may come up,
// including the one just answered wrong. Sequential mode advances to the
// next higher sentence id, wrapping to the lowest remaining one.
func (e *Engine) Next(state *RoundState) (*Item, error) {
	if len(state.Remaining) == 0 {
		return nil, errors.New("round has no remaining sentences")
	}

	e.activateNext(state)
	if err := saveState(e.store.UserDir(), state); err != nil {
		return nil, fmt.Errorf("saveState() > %w", err)
	}
	return state.CurrentItem(), nil
}

// SetMnemonic updates the mnemonic of the active sentence in the round's
// working copy. The change reaches the corpus file when the round
// completes.
func (e *Engine) SetMnemonic(state *RoundState, mnemonic string) error {
	item := state.CurrentItem()
	if item == nil {
		return errors.New("no active question")
	}
	item.Record.Mnemonic = mnemonic
	if err := saveState(e.store.UserDir(), state); err != nil {
		return fmt.Errorf("saveState() > %w", err)
	}
	return nil
}

func (e *Engine) activateNext(state *RoundState) {
	if state.Config.Randomize {
		state.CurrentID = state.Remaining[e.rng.Intn(len(state.Remaining))]
	} else {
		state.CurrentID = nextSequentialID(state.Remaining, state.CurrentID)
	}
	state.State = StateQuestionActive
}

// nextSequentialID picks the smallest remaining id greater than the
// current one, wrapping around to the smallest remaining id.
func nextSequentialID(remaining []int64, currentID int64) int64 {
	var next, lowest int64
	for _, id := range remaining {
		if lowest == 0 || id < lowest {
			lowest = id
		}
		if id > currentID && (next == 0 || id < next) {
			next = id
		}
	}
	if next != 0 {
		return next
	}
	return lowest
}

// materialize draws the round's sample from the pool and builds each
// sentence's cloze question, multiple-choice options, transliteration
// mask, difficulty percentile, and pronunciation audio.
func (e *Engine) materialize(ctx context.Context, pool, fullPool []corpus.SentenceRecord, cfg Config) ([]Item, error) {
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	if cfg.Randomize {
		e.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	maxN := cfg.NumSentences
	if maxN > len(pool) {
		maxN = len(pool)
	}

	var translations []string
	if cfg.UseChoice {
		translations = make([]string, 0, len(fullPool))
		for _, record := range fullPool {
			translations = append(translations, record.Translation)
		}
	}

	sample := make([]Item, 0, maxN)
	for _, poolIndex := range order {
		if len(sample) == maxN {
			break
		}
		record := pool[poolIndex]

		generated, err := cloze.Generate(e.rng, record.Translation, cfg.BlankCount, cfg.RightToLeft, record.MissingIndices)
		if errors.Is(err, cloze.ErrNoEligibleToken) {
			slog.Warn("Skipping sentence without blankable token", "sentence_id", record.SentenceID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cloze.Generate(sentence %d) > %w", record.SentenceID, err)
		}

		if cfg.UseChoice {
			for i := range generated.Blanks {
				options, err := e.buildOptions(translations, generated.Blanks[i].Word, cfg.NumChoices)
				if err != nil {
					return nil, fmt.Errorf("buildOptions(sentence %d) > %w", record.SentenceID, err)
				}
				generated.Blanks[i].Options = options
			}
		}

		item := Item{
			Record:               record,
			Cloze:                generated,
			DifficultyPercentile: difficultyPercentile(fullPool, record.Difficulty),
		}
		if record.Transliteration != "" && (cfg.ShowTransliteration || cfg.ShowTransliterationAnswer) {
			// The answer flag reveals the blanked words in the
			// transliteration, so the question shows it unmasked.
			if cfg.ShowTransliterationAnswer {
				item.TransliterationMasked = record.Transliteration
			} else {
				item.TransliterationMasked = cloze.MaskTransliteration(record.Transliteration, generated.Blanks, cfg.RightToLeft)
			}
		}

		if cfg.Pronunciation && e.synth != nil {
			if _, err := e.synth.Synthesize(ctx, record.Translation, cfg.TTSCode, record.SentenceID); err != nil {
				slog.Warn("Failed to synthesize pronunciation", "sentence_id", record.SentenceID, "error", err)
			}
		}

		sample = append(sample, item)
	}

	if len(sample) == 0 {
		return nil, errors.New("no sentence in the pool can be turned into a question")
	}
	return sample, nil
}

// buildOptions samples numChoices-1 distractors and shuffles them in with
// the answer. When the default scan window holds too few distinct words,
// the full pool is scanned once before giving up.
func (e *Engine) buildOptions(translations []string, answer string, numChoices int) ([]string, error) {
	distractors, err := distractor.Sample(e.rng, translations, answer, numChoices-1,
		distractor.DefaultCandidateSampleSize, distractor.DefaultSampleCap)
	if errors.Is(err, distractor.ErrInsufficient) {
		distractors, err = distractor.Sample(e.rng, translations, answer, numChoices-1,
			distractor.DefaultCandidateSampleSize, len(translations))
	}
	if err != nil {
		return nil, fmt.Errorf("distractor.Sample(%s) > %w", answer, err)
	}

	options := append(distractors, answer)
	if startsUpper(answer) {
		for i, option := range options {
			options[i] = capitalize(option)
		}
	}
	e.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options, nil
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
