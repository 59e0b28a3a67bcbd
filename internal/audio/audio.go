// Package audio synthesizes pronunciation clips for sampled sentences.
// Artifacts are named by sentence id and purged at round completion.
package audio

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"resty.dev/v3"
)

// Synthesizer produces an audio artifact for a sentence and returns its
// file path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, ttsCode string, sentenceID int64) (string, error)
}

// TTSClient fetches MP3 pronunciations from the Google Translate TTS
// endpoint and stores them in the user's data directory.
type TTSClient struct {
	httpClient *resty.Client
	outputDir  string
}

// NewTTSClient creates a synthesizer writing artifacts under outputDir.
func NewTTSClient(outputDir string) *TTSClient {
	client := resty.New()
	client.SetBaseURL("https://translate.google.com")
	client.SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	return &TTSClient{
		httpClient: client,
		outputDir:  outputDir,
	}
}

// Close releases the underlying HTTP client.
func (c *TTSClient) Close() error {
	return c.httpClient.Close()
}

// Synthesize fetches the spoken form of text and writes it to
// {sentence_id}.mp3 in the output directory.
func (c *TTSClient) Synthesize(ctx context.Context, text, ttsCode string, sentenceID int64) (string, error) {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":      "UTF-8",
			"client":  "tw-ob",
			"tl":      ttsCode,
			"q":       text,
			"total":   "1",
			"idx":     "0",
			"textlen": strconv.Itoa(len([]rune(text))),
		}).
		Get("/translate_tts")
	if err != nil {
		return "", fmt.Errorf("GET /translate_tts > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d from translate_tts for %s", response.StatusCode(), url.QueryEscape(text))
	}

	path := ArtifactPath(c.outputDir, sentenceID)
	if err := os.WriteFile(path, response.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return path, nil
}

// ArtifactPath returns the artifact file path for a sentence id.
func ArtifactPath(dir string, sentenceID int64) string {
	return filepath.Join(dir, strconv.FormatInt(sentenceID, 10)+".mp3")
}

// Purge removes every audio artifact in the directory. Called at round
// completion; missing files are not an error.
func Purge(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if err != nil {
		return fmt.Errorf("filepath.Glob > %w", err)
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("os.Remove(%s) > %w", match, err)
		}
	}
	return nil
}
