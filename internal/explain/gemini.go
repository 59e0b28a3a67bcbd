package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

type GeminiClient struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewGeminiClient(apiKey, model string, retryAttempts uint) *GeminiClient {
	client := resty.New()
	client.SetBaseURL("https://generativelanguage.googleapis.com/v1beta")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("x-goog-api-key", apiKey)

	return &GeminiClient{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *GeminiClient) Close() error {
	return client.httpClient.Close()
}

// SetBaseURL overrides the API host, for tests.
func (client *GeminiClient) SetBaseURL(baseURL string) {
	client.httpClient.SetBaseURL(baseURL)
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	// Temperature is pinned to zero so repeated requests for the same
	// sentence give the same explanation.
	Temperature float32 `json:"temperature"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
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

// Explain implements the Client interface.
func (client *GeminiClient) Explain(ctx context.Context, request ExplainRequest) (string, error) {
	var result string
	if err := retry.Do(
		func() error {
			explanation, err := client.explain(ctx, request)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = explanation
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	return result, nil
}

func (client *GeminiClient) explain(ctx context.Context, request ExplainRequest) (string, error) {
	prompt := buildPrompt(request)
	requestBody := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{Temperature: 0},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&generateContentResponse{}).
		Post(fmt.Sprintf("/models/%s:generateContent", client.model))
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*generateContentResponse)
	if responseBody == nil || len(responseBody.Candidates) == 0 || len(responseBody.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response body or candidates: %s", response.String())
	}

	text := strings.TrimSpace(responseBody.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}
	return text, nil
}

func buildPrompt(request ExplainRequest) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Explain briefly, in English, the grammar and vocabulary of this %s sentence for a learner.\n", request.Language)
	fmt.Fprintf(&builder, "English: %s\n", request.English)
	fmt.Fprintf(&builder, "%s: %s\n", request.Language, request.Translation)
	if len(request.Words) > 0 {
		fmt.Fprintf(&builder, "Focus on the use of: %s.\n", strings.Join(request.Words, ", "))
	}
	if request.FollowUp != "" {
		if request.PriorAnswer != "" {
			fmt.Fprintf(&builder, "You previously answered: %s\n", request.PriorAnswer)
		}
		fmt.Fprintf(&builder, "The learner asks: %s\n", request.FollowUp)
	}
	builder.WriteString("Answer in at most three sentences, without repeating the sentence pair.")
	return builder.String()
}
