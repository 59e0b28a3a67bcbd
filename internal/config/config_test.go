package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		env           map[string]string

		want              func(t *testing.T, cfg *Config)
		wantErrorContains []string
	}{
		{
			name: "custom values override defaults",
			configContent: `data_directory: custom/data
language: Japanese
round:
  num_sentences: 5
  num_choices: 3
fetch:
  retry_attempts: 2
`,
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "custom/data", cfg.DataDirectory)
				assert.Equal(t, "Japanese", cfg.Language)
				assert.Equal(t, 5, cfg.Round.NumSentences)
				assert.Equal(t, 3, cfg.Round.NumChoices)
				assert.Equal(t, 1, cfg.Round.BlankCount)
				assert.Equal(t, uint(2), cfg.Fetch.RetryAttempts)
				assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
			},
		},
		{
			name:          "missing file falls back to defaults",
			configContent: "",
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Spanish", cfg.Language)
				assert.Equal(t, 10, cfg.Round.NumSentences)
				assert.Equal(t, 4, cfg.Round.NumChoices)
				assert.InDelta(t, 0.0, cfg.Round.PercentileLow, 1e-9)
				assert.InDelta(t, 100.0, cfg.Round.PercentileHigh, 1e-9)
			},
		},
		{
			name:          "api key comes from the environment",
			configContent: "",
			env:           map[string]string{"GEMINI_API_KEY": "secret-key", "GEMINI_MODEL": "gemini-1.5-pro"},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "secret-key", cfg.Gemini.APIKey)
				assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
			},
		},
		{
			name: "invalid YAML format",
			configContent: `round:
  [invalid yaml here
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown language is rejected",
			configContent: `language: Klingon
`,
			wantErrorContains: []string{
				"invalid configuration",
				"language must be a supported language name",
			},
		},
		{
			name: "percentile order is validated",
			configContent: `round:
  percentile_low: 80
  percentile_high: 20
`,
			wantErrorContains: []string{"invalid configuration", "percentile_high"},
		},
		{
			name: "sentence count must be positive",
			configContent: `round:
  num_sentences: 0
`,
			wantErrorContains: []string{"invalid configuration", "num_sentences"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for key, value := range test.env {
				t.Setenv(key, value)
			}

			configFile := ""
			if test.configContent != "" {
				configFile = filepath.Join(t.TempDir(), "config.yml")
				require.NoError(t, os.WriteFile(configFile, []byte(test.configContent), 0o600))
			} else {
				// A path that does not exist exercises the tolerant
				// missing-file branch.
				configFile = ""
			}

			loader, err := NewConfigLoader(configFile)
			require.NoError(t, err)

			cfg, err := loader.Load()
			if len(test.wantErrorContains) > 0 {
				require.Error(t, err)
				for _, fragment := range test.wantErrorContains {
					assert.Contains(t, err.Error(), fragment)
				}
				return
			}
			require.NoError(t, err)
			test.want(t, cfg)
		})
	}
}
