package gemini

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the unavailable variant: the client could
// not be constructed at startup (missing credential). Callers treat it as a
// pre-emptive skip, not a per-event failure.
var ErrNotConfigured = errors.New("summarizer not configured")

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// SummaryRequest carries the pull request context to summarize. FilePath is
// set only for per-file summaries.
type SummaryRequest struct {
	Title       string
	Description string
	FilePath    string
}

// ISummarizer produces a short natural-language summary of a pull request.
// Implementations are safe for concurrent use.
type ISummarizer interface {
	SummarizePullRequest(ctx context.Context, req SummaryRequest) (string, error)
}
