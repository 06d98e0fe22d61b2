package repository

import (
	"context"
	"errors"

	"dbt-change-tracker/internal/model"
)

// ErrNotConfigured is returned by the unavailable variant: the data store
// client could not be constructed at startup (missing credentials). Writes
// are skipped pre-emptively rather than attempted and failed per event.
var ErrNotConfigured = errors.New("data store not configured")

// RecordRepository persists merge records and model change records. The two
// operations are independent: failure of one must not prevent an attempt at
// the other, and no transactional atomicity is promised across them.
type RecordRepository interface {
	SaveMergeRecord(ctx context.Context, rec model.MergeRecord) error
	SaveModelChanges(ctx context.Context, recs []model.ModelChangeRecord) error
}
