// Package explain produces short natural-language explanations of why a
// translation means what it does, for the post-answer view.
package explain

import (
	"context"
	"log/slog"
)

//go:generate mockgen -source=interface.go -destination=../mocks/explain/mock_client.go -package=mock_explain

// Client generates an explanation of a sentence pair.
type Client interface {
	Explain(ctx context.Context, request ExplainRequest) (string, error)
}

// ExplainRequest identifies the sentence pair to explain.
type ExplainRequest struct {
	Language    string
	English     string
	Translation string

	// Words are the blanked words the user had to produce, so the
	// explanation can focus on them.
	Words []string

	// FollowUp is an optional learner question about the sentence.
	// PriorAnswer carries the previous explanation so follow-ups stay
	// in context.
	FollowUp    string
	PriorAnswer string
}

const (
	DefaultMaxRetryAttempts = 3

	// FallbackMessage is shown when explanation generation fails. The
	// round flow never fails on a missing explanation.
	FallbackMessage = "Error generating LLM explanation."
)

// ExplainOrFallback degrades a failed explanation to FallbackMessage. A
// nil client yields the fallback immediately.
func ExplainOrFallback(ctx context.Context, client Client, request ExplainRequest) string {
	if client == nil {
		return FallbackMessage
	}
	explanation, err := client.Explain(ctx, request)
	if err != nil {
		slog.Warn("Failed to generate explanation", "error", err)
		return FallbackMessage
	}
	return explanation
}
