// Package cli holds the interactive terminal sessions and the shared
// question rendering used by the round commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/opencloze/opencloze/internal/audio"
	"github.com/opencloze/opencloze/internal/explain"
	"github.com/opencloze/opencloze/internal/language"
	"github.com/opencloze/opencloze/internal/round"
)

// RoundCLI runs a practice round as an interactive terminal session.
type RoundCLI struct {
	engine        *round.Engine
	explainClient explain.Client
	state         *round.RoundState
	userDir       string

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
}

func NewRoundCLI(engine *round.Engine, explainClient explain.Client, state *round.RoundState, userDir string) *RoundCLI {
	return &RoundCLI{
		engine:        engine,
		explainClient: explainClient,
		state:         state,
		userDir:       userDir,
		stdinReader:   bufio.NewReader(os.Stdin),
		stdoutWriter:  os.Stdout,
		bold:          color.New(color.Bold),
		italic:        color.New(color.Italic),
	}
}

type Session interface {
	Session(context context.Context) error
}

var (
	errEnd = errors.New("end")
)

func (cli *RoundCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Println("Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session asks one question, evaluates the answer, and advances the
// round. "quit" suspends the session; the round stays resumable.
// ":mnemonic <text>" records a mnemonic for the current sentence.
func (cli *RoundCLI) Session(ctx context.Context) error {
	item := cli.state.CurrentItem()
	if item == nil {
		fmt.Fprintln(cli.stdoutWriter, "No more sentences to practice!")
		return errEnd
	}

	cli.PrintQuestion(item)

	guesses := make([]string, 0, len(item.Cloze.Blanks))
	for i := range item.Cloze.Blanks {
		_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Blank %d: ", i+1)
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "quit" || line == "exit":
			fmt.Fprintln(cli.stdoutWriter, "Round suspended. Resume it with `opencloze round play`.")
			return errEnd
		case strings.HasPrefix(line, ":mnemonic "):
			if err := cli.engine.SetMnemonic(cli.state, strings.TrimPrefix(line, ":mnemonic ")); err != nil {
				return fmt.Errorf("engine.SetMnemonic() > %w", err)
			}
			fmt.Fprintln(cli.stdoutWriter, "Mnemonic saved.")
			return nil
		}
		guesses = append(guesses, line)
	}

	result, err := cli.engine.Answer(cli.state, guesses)
	if err != nil {
		return fmt.Errorf("engine.Answer() > %w", err)
	}
	cli.PrintAnswerResult(item, result)

	if !result.Correct && cli.explainClient != nil {
		fmt.Fprint(cli.stdoutWriter, "Explain? [y/N]: ")
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(line), "y") {
			cli.PrintExplanation(ctx, item, result)
		}
	}

	if result.Completed {
		cli.PrintSummary(result.Summary)
		return errEnd
	}
	if _, err := cli.engine.Next(cli.state); err != nil {
		return fmt.Errorf("engine.Next() > %w", err)
	}
	return nil
}

// PrintQuestion renders the masked sentence with its English prompt,
// transliteration, pronunciation hint, and multiple-choice options.
func (cli *RoundCLI) PrintQuestion(item *round.Item) {
	cfg := cli.state.Config

	fmt.Fprintln(cli.stdoutWriter)
	fmt.Fprintf(cli.stdoutWriter, "[%d sentences left, %s difficulty percentile]\n",
		len(cli.state.Remaining), ordinal(int(item.DifficultyPercentile*100)))
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, item.Cloze.Masked)
	if cfg.ShowTransliteration && item.TransliterationMasked != "" {
		_, _ = cli.italic.Fprintln(cli.stdoutWriter, item.TransliterationMasked)
	}
	fmt.Fprintf(cli.stdoutWriter, "English: %s\n", item.Record.English)
	if item.Record.Mnemonic != "" {
		fmt.Fprintf(cli.stdoutWriter, "Mnemonic: %s\n", cli.italic.Sprintf("%s", item.Record.Mnemonic))
	}
	if cfg.Pronunciation {
		fmt.Fprintf(cli.stdoutWriter, "Audio: %s\n", audio.ArtifactPath(cli.userDir, item.Record.SentenceID))
	}
	if cfg.UseChoice {
		for i, blank := range item.Cloze.Blanks {
			fmt.Fprintf(cli.stdoutWriter, "Options for blank %d: %s\n", i+1, strings.Join(blank.Options, " | "))
		}
	} else if lang, err := language.Lookup(cfg.Language); err == nil && len(lang.SpecialChars) > 0 {
		fmt.Fprintf(cli.stdoutWriter, "Characters to copy: %s\n", strings.Join(lang.SpecialChars, " "))
	}
}

// ordinal formats a number as its English ordinal, e.g. 73 to "73rd".
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// PrintAnswerResult renders the verdict and the full sentence.
func (cli *RoundCLI) PrintAnswerResult(item *round.Item, result *round.AnswerResult) {
	if result.Correct {
		fmt.Fprint(cli.stdoutWriter, "✅ ")
		_, _ = color.New(color.FgGreen).Fprintf(cli.stdoutWriter, "Correct: %s\n", cli.bold.Sprintf("%s", item.Record.Translation))
	} else {
		fmt.Fprint(cli.stdoutWriter, "❌ ")
		_, _ = color.New(color.FgRed).Fprintf(cli.stdoutWriter, "Wrong. Expected %s in %s\n",
			cli.italic.Sprintf("%s", strings.Join(result.Expected, ", ")),
			cli.bold.Sprintf("%s", item.Record.Translation),
		)
	}
	if cli.state.Config.ShowTransliterationAnswer && item.Record.Transliteration != "" {
		_, _ = cli.italic.Fprintln(cli.stdoutWriter, item.Record.Transliteration)
	}
}

// PrintExplanation fetches and renders an explanation of the expected
// words. Invoked only on request, never as part of the answer flow.
func (cli *RoundCLI) PrintExplanation(ctx context.Context, item *round.Item, result *round.AnswerResult) {
	explanation := explain.ExplainOrFallback(ctx, cli.explainClient, explain.ExplainRequest{
		Language:    cli.state.Config.Language,
		English:     item.Record.English,
		Translation: item.Record.Translation,
		Words:       result.Expected,
	})
	fmt.Fprintf(cli.stdoutWriter, "Explanation: %s\n", explanation)
}

func (cli *RoundCLI) PrintSummary(summary *round.Summary) {
	fmt.Fprintln(cli.stdoutWriter)
	_, _ = color.New(color.FgGreen).Fprintln(cli.stdoutWriter, "Round complete!")
	fmt.Fprintf(cli.stdoutWriter, "Sentences practiced: %d\n", summary.NSentences)
	fmt.Fprintf(cli.stdoutWriter, "Wrong answers: %d\n", summary.NWrong)
	fmt.Fprintf(cli.stdoutWriter, "Set progress: %.1f%%\n", summary.SetProgress*100)
	fmt.Fprintf(cli.stdoutWriter, "Time: %s\n", summary.Elapsed.Round(time.Second))
}
