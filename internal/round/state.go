// Package round implements the round engine: pool selection, question
// materialization, turn-by-turn answer evaluation, and the completion
// reconciliation back into the corpus store and progress ledger.
//
// Every interaction runs in a fresh process, so the whole round state is
// flushed to a YAML file after each mutation and re-loaded on the next
// invocation. All derivation steps are idempotent re-computation from the
// durable records plus this file.
package round

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opencloze/opencloze/internal/cloze"
	"github.com/opencloze/opencloze/internal/corpus"
)

// State names the round engine's explicit states.
type State string

const (
	StateNotStarted         State = "not_started"
	StatePoolSelected       State = "pool_selected"
	StateSampleMaterialized State = "sample_materialized"
	StateQuestionActive     State = "question_active"
	StateAnswerEvaluated    State = "answer_evaluated"
	StateRoundComplete      State = "round_complete"
)

// stateFileName is the durable round state file inside a user directory.
const stateFileName = "round.yml"

// ErrNoActiveRound is returned when resuming without a round in progress.
var ErrNoActiveRound = errors.New("no round in progress")

// Config holds the user-chosen options of one round. It is fixed at round
// start and persisted with the state.
type Config struct {
	Language     string `yaml:"language"`      // display name, e.g. "Spanish"
	LanguageCode string `yaml:"language_code"` // corpus file code, e.g. "spa"
	Set          string `yaml:"set"`

	NumSentences int `yaml:"num_sentences"`
	BlankCount   int `yaml:"blank_count"`

	UseChoice  bool `yaml:"use_choice"`
	NumChoices int  `yaml:"num_choices"`

	// Randomize selects random mode (percentile band + uniform sampling).
	// When false the round walks an explicit sentence-id range in order.
	Randomize      bool    `yaml:"randomize"`
	PercentileLow  float64 `yaml:"percentile_low"`  // 0-100
	PercentileHigh float64 `yaml:"percentile_high"` // 0-100
	SequentialFrom int64   `yaml:"sequential_from"`
	SequentialTo   int64   `yaml:"sequential_to"`

	// GuessTransliteration swaps the translation and transliteration
	// columns, so the user identifies the transliteration instead of the
	// original script.
	GuessTransliteration      bool `yaml:"guess_transliteration"`
	ShowTransliteration       bool `yaml:"show_transliteration"`
	ShowTransliterationAnswer bool `yaml:"show_transliteration_answer"`

	RightToLeft   bool   `yaml:"right_to_left"`
	Pronunciation bool   `yaml:"pronunciation"`
	TTSCode       string `yaml:"tts_code,omitempty"`
}

// Item is one sampled sentence with its derived question fields.
type Item struct {
	Record corpus.SentenceRecord `yaml:"record"`

	Cloze cloze.Cloze `yaml:"cloze"`

	// TransliterationMasked is the transliteration with blanked token
	// positions masked, empty when transliteration display is off.
	TransliterationMasked string `yaml:"transliteration_masked,omitempty"`

	// DifficultyPercentile is the fraction of the full set pool with
	// strictly lower difficulty than this sentence.
	DifficultyPercentile float64 `yaml:"difficulty_percentile"`

	Done bool `yaml:"done"`
}

// RoundState is the full durable state of one round.
type RoundState struct {
	Config       Config    `yaml:"config"`
	State        State     `yaml:"state"`
	Sample       []Item    `yaml:"sample"`
	Remaining    []int64   `yaml:"remaining"`
	CurrentID    int64     `yaml:"current_id"`
	WrongCounter int       `yaml:"wrong_counter"`
	StartTime    time.Time `yaml:"start_time"`
}

// CurrentItem returns the active sample item, or nil when the round has
// no active question.
func (s *RoundState) CurrentItem() *Item {
	for i := range s.Sample {
		if s.Sample[i].Record.SentenceID == s.CurrentID {
			return &s.Sample[i]
		}
	}
	return nil
}

func (s *RoundState) item(sentenceID int64) *Item {
	for i := range s.Sample {
		if s.Sample[i].Record.SentenceID == sentenceID {
			return &s.Sample[i]
		}
	}
	return nil
}

// removeRemaining drops a sentence id from the remaining set.
func (s *RoundState) removeRemaining(sentenceID int64) {
	remaining := s.Remaining[:0]
	for _, id := range s.Remaining {
		if id != sentenceID {
			remaining = append(remaining, id)
		}
	}
	s.Remaining = remaining
}

func statePath(userDir string) string {
	return filepath.Join(userDir, stateFileName)
}

func loadState(userDir string) (*RoundState, error) {
	path := statePath(userDir)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoActiveRound
		}
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var state RoundState
	if err := yaml.NewDecoder(file).Decode(&state); err != nil {
		return nil, fmt.Errorf("yaml.NewDecoder().Decode(%s) > %w", path, err)
	}
	return &state, nil
}

func saveState(userDir string, state *RoundState) error {
	path := statePath(userDir)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewEncoder(file).Encode(state); err != nil {
		return fmt.Errorf("yaml.NewEncoder().Encode(%s) > %w", path, err)
	}
	return nil
}

func discardState(userDir string) error {
	err := os.Remove(statePath(userDir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove(%s) > %w", statePath(userDir), err)
	}
	return nil
}
