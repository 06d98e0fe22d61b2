package repository

import (
	"context"
	"fmt"

	"dbt-change-tracker/internal/model"
)

type unavailable struct {
	reason string
}

// NewUnavailable returns a repository whose every call fails with
// ErrNotConfigured, constructed once at startup when credentials are missing.
func NewUnavailable(reason string) RecordRepository {
	return &unavailable{reason: reason}
}

func (u *unavailable) SaveMergeRecord(ctx context.Context, rec model.MergeRecord) error {
	return fmt.Errorf("record repository: %s: %w", u.reason, ErrNotConfigured)
}

func (u *unavailable) SaveModelChanges(ctx context.Context, recs []model.ModelChangeRecord) error {
	return fmt.Errorf("record repository: %s: %w", u.reason, ErrNotConfigured)
}
