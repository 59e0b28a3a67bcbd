package main

import (
	"fmt"

	"github.com/opencloze/opencloze/internal/config"
	"github.com/opencloze/opencloze/internal/corpus"
	"github.com/opencloze/opencloze/internal/language"
	"github.com/opencloze/opencloze/internal/ledger"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// resolveLanguage picks the language from the flag value, falling back to
// the configured default.
func resolveLanguage(cfg *config.Config, flagValue string) (language.Language, error) {
	name := flagValue
	if name == "" {
		name = cfg.Language
	}
	return language.Lookup(name)
}

func newStore(cfg *config.Config) (*corpus.Store, error) {
	store, err := corpus.NewStore(cfg.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("corpus.NewStore(%s) > %w", cfg.DataDirectory, err)
	}
	return store, nil
}

func newLedger(cfg *config.Config) (*ledger.Ledger, error) {
	progressLedger, err := ledger.New(cfg.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("ledger.New(%s) > %w", cfg.DataDirectory, err)
	}
	return progressLedger, nil
}
