package gemini

import (
	"context"
	"fmt"
)

type unavailable struct {
	reason string
}

// NewUnavailable returns a summarizer whose every call fails with
// ErrNotConfigured. Constructed once at startup when the credential is
// missing, so the degraded mode is explicit and substitutable in tests.
func NewUnavailable(reason string) ISummarizer {
	return &unavailable{reason: reason}
}

func (u *unavailable) SummarizePullRequest(ctx context.Context, req SummaryRequest) (string, error) {
	return "", fmt.Errorf("gemini: %s: %w", u.reason, ErrNotConfigured)
}
