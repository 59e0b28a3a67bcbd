package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencloze/opencloze/internal/corpus"
	"github.com/opencloze/opencloze/internal/difficulty"
	"github.com/opencloze/opencloze/internal/fetch"
	"github.com/opencloze/opencloze/internal/language"
	"github.com/opencloze/opencloze/internal/segment"
	"github.com/opencloze/opencloze/internal/statistics"
	"github.com/opencloze/opencloze/internal/translit"
)

const fetchedSetLabel = "Tatoeba"

func newCorpusCommand() *cobra.Command {
	corpusCommand := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the per-language sentence corpora",
	}

	corpusCommand.AddCommand(newCorpusFetchCommand())
	corpusCommand.AddCommand(newCorpusUploadCommand())
	corpusCommand.AddCommand(newCorpusSetsCommand())

	return corpusCommand
}

func newCorpusFetchCommand() *cobra.Command {
	var languageFlag string
	var force bool

	command := &cobra.Command{
		Use:   "fetch",
		Short: "Download the Tatoeba sentence pairs and build the corpus",
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

			if store.Exists(lang.Code) && !force {
				return fmt.Errorf("a %s corpus already exists, pass --force to rebuild it", lang.Name)
			}

			client := fetch.NewClient(cfg.Fetch.RetryAttempts)
			defer func() {
				_ = client.Close()
			}()

			fmt.Printf("Downloading %s sentence pairs...\n", lang.Name)
			pairs, err := client.FetchPairs(cmd.Context(), lang.Code)
			if err != nil {
				return fmt.Errorf("client.FetchPairs(%s) > %w", lang.Code, err)
			}
			fmt.Printf("Building the corpus from %d sentence pairs...\n", len(pairs))

			records, err := buildRecords(lang, pairs)
			if err != nil {
				return err
			}
			if err := store.Save(lang.Code, records); err != nil {
				return fmt.Errorf("store.Save(%s) > %w", lang.Code, err)
			}
			fmt.Printf("Wrote %d sentences to the %s corpus.\n", len(records), lang.Name)
			return nil
		},
	}
	command.Flags().StringVar(&languageFlag, "language", "", "language to fetch (default from config)")
	command.Flags().BoolVar(&force, "force", false, "rebuild an existing corpus")

	return command
}

// buildRecords segments, transliterates, and scores the fetched pairs
// into corpus records with sequential ids under a single set label.
func buildRecords(lang language.Language, pairs []fetch.Pair) ([]corpus.SentenceRecord, error) {
	translations := make([]string, 0, len(pairs))
	if lang.NeedsSegmentation {
		segmenter, err := segment.ForLanguage(lang.Code)
		if err != nil {
			return nil, fmt.Errorf("segment.ForLanguage(%s) > %w", lang.Code, err)
		}
		for _, pair := range pairs {
			segmented, err := segmenter.Segment(pair.Translation)
			if err != nil {
				return nil, fmt.Errorf("segmenter.Segment(%s) > %w", pair.Translation, err)
			}
			translations = append(translations, segmented)
		}
	} else {
		for _, pair := range pairs {
			translations = append(translations, pair.Translation)
		}
	}

	difficulties, err := difficulty.ScoreAll(translations, difficulty.DefaultRarityFloorPercentile)
	if err != nil {
		return nil, fmt.Errorf("difficulty.ScoreAll > %w", err)
	}

	transliterator, err := translit.ForLanguage(lang.Code)
	if err != nil {
		return nil, fmt.Errorf("translit.ForLanguage(%s) > %w", lang.Code, err)
	}

	records := make([]corpus.SentenceRecord, 0, len(pairs))
	for i, pair := range pairs {
		records = append(records, corpus.SentenceRecord{
			SentenceID:      int64(i + 1),
			English:         pair.English,
			Translation:     translations[i],
			Transliteration: translit.BestEffort(transliterator, translations[i]),
			Set:             fetchedSetLabel,
			Difficulty:      difficulties[i],
		})
	}
	return records, nil
}

func newCorpusUploadCommand() *cobra.Command {
	var languageFlag string
	var setLabel string

	command := &cobra.Command{
		Use:   "upload <file>",
		Short: "Append a user-provided sentence CSV as a new set",
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

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				_ = file.Close()
			}()

			upload, err := corpus.ParseUpload(file)
			if err != nil {
				return fmt.Errorf("corpus.ParseUpload(%s) > %w", args[0], err)
			}

			existing, err := store.Load(lang.Code)
			if err != nil && !errors.Is(err, corpus.ErrNoCorpus) {
				return fmt.Errorf("store.Load(%s) > %w", lang.Code, err)
			}

			// Uploaded sentences are scored against the vocabulary of
			// the existing corpus, so their difficulty is comparable.
			// The first upload of a language scores against itself.
			corpusTranslations := make([]string, 0, len(existing))
			for _, record := range existing {
				corpusTranslations = append(corpusTranslations, record.Translation)
			}
			if len(corpusTranslations) == 0 {
				for _, record := range upload.Records {
					corpusTranslations = append(corpusTranslations, record.Translation)
				}
			}
			scorer, err := difficulty.Fit(corpusTranslations, difficulty.DefaultRarityFloorPercentile)
			if err != nil {
				return fmt.Errorf("difficulty.Fit > %w", err)
			}
			for i := range upload.Records {
				upload.Records[i].Difficulty = scorer.Score(upload.Records[i].Translation)
			}

			if err := store.AppendSet(lang.Code, setLabel, upload.Records); err != nil {
				return fmt.Errorf("store.AppendSet(%s, %s) > %w", lang.Code, setLabel, err)
			}
			fmt.Printf("Appended %d sentences as set %q to the %s corpus.\n", len(upload.Records), setLabel, lang.Name)
			return nil
		},
	}
	command.Flags().StringVar(&languageFlag, "language", "", "language of the uploaded sentences (default from config)")
	command.Flags().StringVar(&setLabel, "set", "", "name of the new set")
	_ = command.MarkFlagRequired("set")

	return command
}

func newCorpusSetsCommand() *cobra.Command {
	var languageFlag string

	command := &cobra.Command{
		Use:   "sets",
		Short: "Show every set of a corpus with its practice counts",
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

			records, err := store.Load(lang.Code)
			if err != nil {
				return fmt.Errorf("store.Load(%s) > %w", lang.Code, err)
			}
			progressLedger, err := newLedger(cfg)
			if err != nil {
				return err
			}
			entries, err := progressLedger.ReadAll()
			if err != nil {
				return fmt.Errorf("progressLedger.ReadAll() > %w", err)
			}
			// Set names repeat across languages, so keep this
			// language's entries only.
			entries = statistics.FilterEntries(entries, statistics.EntryFilter{Language: lang.Name})

			fmt.Printf("%-12s %8s %10s %9s %11s %9s %7s %9s %14s\n",
				"SET", "TOTAL", "PRACTICED", "MASTERED", "DIFFICULTY", "STUDIES", "RATIO", "MINUTES", "LAST PRACTICED")
			for _, overview := range statistics.Overview(records, entries) {
				fmt.Printf("%-12s %8d %10d %9d %11.2f %9.1f %7.2f %9.1f %14s\n",
					overview.Set, overview.Total, overview.Practiced, overview.Mastered,
					overview.AverageDifficulty, overview.AverageTimesStudied,
					overview.WrongRate, overview.Minutes, overview.LastPracticed)
			}
			return nil
		},
	}
	command.Flags().StringVar(&languageFlag, "language", "", "language of the corpus (default from config)")

	return command
}
