package supabase

import (
	"context"

	"dbt-change-tracker/internal/model"
	"dbt-change-tracker/internal/record/repository"
	pkgLog "dbt-change-tracker/pkg/log"
)

const (
	// TableMergeRecords holds one row per pull request merged to trunk.
	TableMergeRecords = "github_pr_merge"

	// TableModelChanges holds one row per (merged PR, tracked model file).
	TableModelChanges = "dbt_model_changes"

	// mergeConflictKey makes webhook re-delivery idempotent: one merge row
	// per (repo, pr_number).
	mergeConflictKey = "repo_owner,repo_name,pr_number"
)

type implRepository struct {
	client *Client
	l      pkgLog.Logger
}

// New creates a Supabase-backed record repository.
func New(client *Client, l pkgLog.Logger) repository.RecordRepository {
	return &implRepository{
		client: client,
		l:      l,
	}
}

func (r *implRepository) SaveMergeRecord(ctx context.Context, rec model.MergeRecord) error {
	if err := r.client.Upsert(ctx, TableMergeRecords, mergeConflictKey, rec); err != nil {
		r.l.Errorf(ctx, "record repository: failed to save merge record for PR #%d: %v", rec.PRNumber, err)
		return err
	}

	r.l.Infof(ctx, "record repository: saved merge record for %s/%s PR #%d", rec.RepoOwner, rec.RepoName, rec.PRNumber)
	return nil
}

func (r *implRepository) SaveModelChanges(ctx context.Context, recs []model.ModelChangeRecord) error {
	if len(recs) == 0 {
		return nil
	}

	// Single batch insert, matching the table's write pattern.
	if err := r.client.Insert(ctx, TableModelChanges, recs); err != nil {
		r.l.Errorf(ctx, "record repository: failed to save %d model change record(s): %v", len(recs), err)
		return err
	}

	r.l.Infof(ctx, "record repository: saved %d model change record(s)", len(recs))
	return nil
}
