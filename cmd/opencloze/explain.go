package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencloze/opencloze/internal/explain"
	"github.com/opencloze/opencloze/internal/language"
)

func newExplainCommand() *cobra.Command {
	var languageFlag string

	command := &cobra.Command{
		Use:   "explain <sentence-id>",
		Short: "Explain the grammar and vocabulary of a corpus sentence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			lang, err := resolveLanguage(cfg, languageFlag)
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			sentenceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid sentence id %q", args[0])
			}

			records, err := store.Load(lang.Code)
			if err != nil {
				return fmt.Errorf("store.Load(%s) > %w", lang.Code, err)
			}
			request := explain.ExplainRequest{Language: lang.Name}
			found := false
			for _, record := range records {
				if record.SentenceID == sentenceID {
					request.English = record.English
					request.Translation = record.Translation
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("no sentence %d in the %s corpus", sentenceID, lang.Name)
			}

			if cfg.Gemini.APIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY environment variable is required")
			}
			client := explain.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, explain.DefaultMaxRetryAttempts)
			defer func() {
				_ = client.Close()
			}()

			explanation, err := client.Explain(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("client.Explain() > %w", err)
			}
			fmt.Println(explanation)

			// Follow-up questions carry the previous answer as context.
			reader := bufio.NewReader(cmd.InOrStdin())
			for {
				fmt.Print("Follow-up question (empty to finish): ")
				line, err := reader.ReadString('\n')
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return fmt.Errorf("error reading input: %w", err)
				}
				line = strings.TrimSpace(line)
				if line == "" {
					return nil
				}

				request.FollowUp = line
				request.PriorAnswer = explanation
				explanation, err = client.Explain(cmd.Context(), request)
				if err != nil {
					return fmt.Errorf("client.Explain() > %w", err)
				}
				fmt.Println(explanation)
			}
		},
	}
	command.Flags().StringVar(&languageFlag, "language", "", "language of the sentence (default from config)")

	return command
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range language.Names() {
				lang, err := language.Lookup(name)
				if err != nil {
					return err
				}
				notes := make([]string, 0, 2)
				if lang.NeedsSegmentation {
					notes = append(notes, "segmented")
				}
				if lang.RightToLeft {
					notes = append(notes, "right-to-left")
				}
				suffix := ""
				if len(notes) > 0 {
					suffix = " (" + strings.Join(notes, ", ") + ")"
				}
				fmt.Printf("%-12s %s%s\n", lang.Code, lang.Name, suffix)
			}
			return nil
		},
	}
}
