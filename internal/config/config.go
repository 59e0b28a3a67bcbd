// Package config loads the application configuration from a YAML file,
// environment variables, and defaults, and validates it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// DataDirectory holds the per-user corpus files, the progress
	// ledger, and any in-progress round state.
	DataDirectory string `mapstructure:"data_directory" validate:"required"`

	Language string       `mapstructure:"language" validate:"omitempty,language"`
	Round    RoundConfig  `mapstructure:"round"`
	Fetch    FetchConfig  `mapstructure:"fetch"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

// RoundConfig holds the defaults a round starts with when the matching
// flag is not given.
type RoundConfig struct {
	NumSentences   int     `mapstructure:"num_sentences" validate:"min=1"`
	BlankCount     int     `mapstructure:"blank_count" validate:"min=1"`
	NumChoices     int     `mapstructure:"num_choices" validate:"min=2"`
	PercentileLow  float64 `mapstructure:"percentile_low" validate:"min=0,max=100"`
	PercentileHigh float64 `mapstructure:"percentile_high" validate:"min=0,max=100,gtefield=PercentileLow"`
}

type FetchConfig struct {
	RetryAttempts uint `mapstructure:"retry_attempts" validate:"max=10"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/opencloze")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("data_directory", defaultDataDirectory())
	v.SetDefault("language", "Spanish")
	v.SetDefault("round.num_sentences", 10)
	v.SetDefault("round.blank_count", 1)
	v.SetDefault("round.num_choices", 4)
	v.SetDefault("round.percentile_low", 0)
	v.SetDefault("round.percentile_high", 100)
	v.SetDefault("fetch.retry_attempts", 3)
	v.SetDefault("gemini.model", "gemini-2.0-flash")

	// The API key comes from the environment only, never the config file
	if err := v.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("gemini.model", "GEMINI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_MODEL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

func defaultDataDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".opencloze"
	}
	return filepath.Join(home, ".opencloze")
}
