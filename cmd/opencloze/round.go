package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencloze/opencloze/internal/audio"
	"github.com/opencloze/opencloze/internal/cli"
	"github.com/opencloze/opencloze/internal/config"
	"github.com/opencloze/opencloze/internal/explain"
	"github.com/opencloze/opencloze/internal/language"
	"github.com/opencloze/opencloze/internal/round"
)

func newRoundCommand() *cobra.Command {
	roundCommand := &cobra.Command{
		Use:   "round",
		Short: "Practice rounds of cloze questions",
	}

	roundCommand.AddCommand(newRoundStartCommand())
	roundCommand.AddCommand(newRoundShowCommand())
	roundCommand.AddCommand(newRoundAnswerCommand())
	roundCommand.AddCommand(newRoundNextCommand())
	roundCommand.AddCommand(newRoundMnemonicCommand())
	roundCommand.AddCommand(newRoundAbandonCommand())
	roundCommand.AddCommand(newRoundPlayCommand())

	return roundCommand
}

type roundFlags struct {
	language string
	set      string

	sentences int
	blanks    int

	choice  bool
	choices int

	random         bool
	percentileLow  float64
	percentileHigh float64
	from           int64
	to             int64

	guessTransliteration      bool
	showTransliteration       bool
	showTransliterationAnswer bool
	pronunciation             bool
}

func (flags *roundFlags) register(command *cobra.Command) {
	command.Flags().StringVar(&flags.language, "language", "", "language to practice (default from config)")
	command.Flags().StringVar(&flags.set, "set", "", "corpus set to practice")
	command.Flags().IntVar(&flags.sentences, "sentences", 0, "number of sentences in the round (default from config)")
	command.Flags().IntVar(&flags.blanks, "blanks", 0, "blanks per sentence (default from config)")
	command.Flags().BoolVar(&flags.choice, "choice", false, "multiple-choice mode")
	command.Flags().IntVar(&flags.choices, "choices", 0, "options per blank in multiple-choice mode (default from config)")
	command.Flags().BoolVar(&flags.random, "random", false, "sample random sentences within a difficulty percentile band")
	command.Flags().Float64Var(&flags.percentileLow, "percentile-low", -1, "lower difficulty percentile bound, 0-100 (default from config)")
	command.Flags().Float64Var(&flags.percentileHigh, "percentile-high", -1, "upper difficulty percentile bound, 0-100 (default from config)")
	command.Flags().Int64Var(&flags.from, "from", 0, "first sentence id of a sequential round")
	command.Flags().Int64Var(&flags.to, "to", 0, "last sentence id of a sequential round")
	command.Flags().BoolVar(&flags.guessTransliteration, "guess-transliteration", false, "answer in the transliteration instead of the original script")
	command.Flags().BoolVar(&flags.showTransliteration, "show-transliteration", false, "show the masked transliteration with the question")
	command.Flags().BoolVar(&flags.showTransliterationAnswer, "show-transliteration-answer", false, "show the transliteration with the answer")
	command.Flags().BoolVar(&flags.pronunciation, "pronunciation", false, "synthesize pronunciation audio for each sentence")
	_ = command.MarkFlagRequired("set")
}

func (flags *roundFlags) toRoundConfig(cfg *config.Config, lang language.Language) round.Config {
	roundConfig := round.Config{
		Language:     lang.Name,
		LanguageCode: lang.Code,
		Set:          flags.set,

		NumSentences: cfg.Round.NumSentences,
		BlankCount:   cfg.Round.BlankCount,

		UseChoice:  flags.choice,
		NumChoices: cfg.Round.NumChoices,

		Randomize:      flags.random,
		PercentileLow:  cfg.Round.PercentileLow,
		PercentileHigh: cfg.Round.PercentileHigh,
		SequentialFrom: flags.from,
		SequentialTo:   flags.to,

		GuessTransliteration:      flags.guessTransliteration,
		ShowTransliteration:       flags.showTransliteration,
		ShowTransliterationAnswer: flags.showTransliterationAnswer,

		RightToLeft:   lang.RightToLeft,
		Pronunciation: flags.pronunciation,
		TTSCode:       lang.TTSCode,
	}
	if flags.sentences > 0 {
		roundConfig.NumSentences = flags.sentences
	}
	if flags.blanks > 0 {
		roundConfig.BlankCount = flags.blanks
	}
	if flags.choices > 0 {
		roundConfig.NumChoices = flags.choices
	}
	if flags.percentileLow >= 0 {
		roundConfig.PercentileLow = flags.percentileLow
	}
	if flags.percentileHigh >= 0 {
		roundConfig.PercentileHigh = flags.percentileHigh
	}
	if roundConfig.SequentialFrom <= 0 {
		roundConfig.SequentialFrom = 1
	}
	if roundConfig.SequentialTo <= 0 {
		roundConfig.SequentialTo = math.MaxInt64
	}
	return roundConfig
}

// newEngine builds the round engine with a speech synthesizer attached
// when pronunciation is wanted.
func newEngine(cfg *config.Config, pronunciation bool) (*round.Engine, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	progressLedger, err := newLedger(cfg)
	if err != nil {
		return nil, err
	}

	var options []round.Option
	if pronunciation {
		options = append(options, round.WithSynthesizer(audio.NewTTSClient(cfg.DataDirectory)))
	}
	return round.NewEngine(store, progressLedger, options...), nil
}

func newExplainClient(cfg *config.Config) explain.Client {
	if cfg.Gemini.APIKey == "" {
		return nil
	}
	return explain.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, explain.DefaultMaxRetryAttempts)
}

// resumeRound loads the configuration and the in-progress round for the
// single-interaction subcommands.
func resumeRound() (*config.Config, *round.Engine, *round.RoundState, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	engine, err := newEngine(cfg, false)
	if err != nil {
		return nil, nil, nil, err
	}
	state, err := engine.Resume()
	if errors.Is(err, round.ErrNoActiveRound) {
		return nil, nil, nil, errors.New("no round in progress, start one with `opencloze round start`")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("engine.Resume() > %w", err)
	}
	return cfg, engine, state, nil
}

func newRoundStartCommand() *cobra.Command {
	flags := &roundFlags{}
	command := &cobra.Command{
		Use:   "start",
		Short: "Start a new round, replacing any round in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			lang, err := resolveLanguage(cfg, flags.language)
			if err != nil {
				return err
			}

			engine, err := newEngine(cfg, flags.pronunciation)
			if err != nil {
				return err
			}
			state, err := engine.Start(cmd.Context(), flags.toRoundConfig(cfg, lang))
			if err != nil {
				return err
			}

			fmt.Printf("Started a %s round over set %q with %d sentences.\n",
				lang.Name, state.Config.Set, len(state.Sample))
			roundCLI := cli.NewRoundCLI(engine, nil, state, cfg.DataDirectory)
			roundCLI.PrintQuestion(state.CurrentItem())
			return nil
		},
	}
	flags.register(command)

	return command
}

func newRoundShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current question again",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, state, err := resumeRound()
			if err != nil {
				return err
			}

			roundCLI := cli.NewRoundCLI(engine, nil, state, cfg.DataDirectory)
			roundCLI.PrintQuestion(state.CurrentItem())
			return nil
		},
	}
}

func newRoundAnswerCommand() *cobra.Command {
	var explainWrong bool

	command := &cobra.Command{
		Use:   "answer <word>...",
		Short: "Answer the current question, one word per blank",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, state, err := resumeRound()
			if err != nil {
				return err
			}

			item := state.CurrentItem()
			result, err := engine.Answer(state, args)
			if err != nil {
				return err
			}

			explainClient := newExplainClient(cfg)
			if explainWrong && explainClient == nil {
				return fmt.Errorf("GEMINI_API_KEY environment variable is required")
			}

			roundCLI := cli.NewRoundCLI(engine, explainClient, state, cfg.DataDirectory)
			roundCLI.PrintAnswerResult(item, result)
			if explainWrong && !result.Correct {
				roundCLI.PrintExplanation(cmd.Context(), item, result)
			}
			if result.Completed {
				roundCLI.PrintSummary(result.Summary)
				return nil
			}
			if result.Correct {
				if _, err := engine.Next(state); err != nil {
					return err
				}
				roundCLI.PrintQuestion(state.CurrentItem())
			}
			return nil
		},
	}
	command.Flags().BoolVar(&explainWrong, "explain", false, "explain the expected words when the answer is wrong")

	return command
}

func newRoundNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Move on to another remaining sentence",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, state, err := resumeRound()
			if err != nil {
				return err
			}

			item, err := engine.Next(state)
			if err != nil {
				return err
			}
			roundCLI := cli.NewRoundCLI(engine, nil, state, cfg.DataDirectory)
			roundCLI.PrintQuestion(item)
			return nil
		},
	}
}

func newRoundMnemonicCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mnemonic <text>",
		Short: "Attach a mnemonic to the current sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, engine, state, err := resumeRound()
			if err != nil {
				return err
			}

			if err := engine.SetMnemonic(state, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Println("Mnemonic saved.")
			return nil
		},
	}
}

func newRoundAbandonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon",
		Short: "Discard the round in progress without recording anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			engine, err := newEngine(cfg, false)
			if err != nil {
				return err
			}
			if err := engine.Abandon(); err != nil {
				return err
			}
			fmt.Println("Round abandoned.")
			return nil
		},
	}
}

func newRoundPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the round in progress interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, state, err := resumeRound()
			if err != nil {
				return err
			}

			roundCLI := cli.NewRoundCLI(engine, newExplainClient(cfg), state, cfg.DataDirectory)
			fmt.Println("Interactive practice session started!")
			fmt.Println("Answer each blank, or type 'quit' to suspend the round.")
			fmt.Println()
			return roundCLI.Run(cmd.Context(), roundCLI)
		},
	}
}
