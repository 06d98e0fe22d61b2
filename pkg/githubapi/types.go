package githubapi

import (
	"errors"
	"fmt"
)

// ChangedFile is a single file touched by a pull request.
type ChangedFile struct {
	Path   string // repository-relative path
	Status string // added, modified, removed, renamed
}

// APIError is a failed call to the GitHub API. Status 0 means the request
// never reached the provider (network failure).
type APIError struct {
	Status    int
	Message   string
	Retryable bool
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("github api: request failed: %s", e.Message)
	}
	return fmt.Sprintf("github api: %d: %s", e.Status, e.Message)
}

// IsRetryable reports whether err is an APIError the caller could retry
// (5xx or network failure). The processor itself never retries; the flag is
// surfaced for logging and for the webhook provider's re-delivery.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}
