// Package fetch downloads Tatoeba sentence-pair archives from
// manythings.org and parses them into English/translation pairs.
package fetch

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const defaultBaseURL = "https://www.manythings.org/anki"

// Pair is one English sentence with its translation.
type Pair struct {
	English     string
	Translation string
}

type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

func NewClient(retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(defaultBaseURL)
	client.SetHeader("User-Agent", "opencloze")

	return &Client{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// SetBaseURL overrides the download host, for tests.
func (client *Client) SetBaseURL(baseURL string) {
	client.httpClient.SetBaseURL(baseURL)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

// FetchPairs downloads the <languageCode>-eng archive and returns its
// sentence pairs in file order.
func (client *Client) FetchPairs(ctx context.Context, languageCode string) ([]Pair, error) {
	var result []Pair
	if err := retry.Do(
		func() error {
			pairs, err := client.fetchPairs(ctx, languageCode)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = pairs
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return nil, err
	}
	return result, nil
}

func (client *Client) fetchPairs(ctx context.Context, languageCode string) ([]Pair, error) {
	archiveName := fmt.Sprintf("%s-eng.zip", languageCode)
	response, err := client.httpClient.R().
		SetContext(ctx).
		Get("/" + archiveName)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get(%s) > %w", archiveName, err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.Status())
	}

	body := response.Bytes()
	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("zip.NewReader(%s) > %w", archiveName, err)
	}

	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".txt") || strings.HasPrefix(file.Name, "_") {
			continue
		}
		entry, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("file.Open(%s) > %w", file.Name, err)
		}
		pairs, err := ParsePairs(entry)
		closeErr := entry.Close()
		if err != nil {
			return nil, fmt.Errorf("ParsePairs(%s) > %w", file.Name, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("entry.Close(%s) > %w", file.Name, closeErr)
		}
		return pairs, nil
	}
	return nil, fmt.Errorf("no sentence file in archive %s", archiveName)
}

// ParsePairs reads the tab-separated sentence file: English, translation,
// and an attribution column that is dropped. Blank lines are skipped.
func ParsePairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected at least 2 tab-separated fields, got %d", lineNumber, len(fields))
		}
		pairs = append(pairs, Pair{English: fields[0], Translation: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Err > %w", err)
	}
	return pairs, nil
}
