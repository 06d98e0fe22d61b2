package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dbt-change-tracker/internal/model"
	"dbt-change-tracker/internal/record/repository"
	"dbt-change-tracker/pkg/gemini"
	"dbt-change-tracker/pkg/githubapi"
	pkgLog "dbt-change-tracker/pkg/log"
)

type usecase struct {
	lister     githubapi.IClient
	summarizer gemini.ISummarizer
	recordRepo repository.RecordRepository
	cfg        Config
	l          pkgLog.Logger
}

// ProcessEvent runs the per-event state machine. External failures degrade
// the output (empty file list, nil summary, skipped writes) but only a
// malformed event fails the whole invocation. Nothing is retried here;
// re-delivery is the webhook provider's job.
func (uc *usecase) ProcessEvent(ctx context.Context, input ProcessEventInput) (ProcessEventOutput, error) {
	event := input.Event

	decision, err := ValidateEvent(event)
	if err != nil {
		uc.l.Errorf(ctx, "processor: rejecting event for %s/%s: %v", event.RepoOwner, event.RepoName, err)
		return ProcessEventOutput{Outcome: OutcomeFailed, Message: err.Error()}, err
	}
	if !decision.Proceed {
		uc.l.Infof(ctx, "processor: ignoring event (%s): action=%s merged=%v base=%s",
			decision.Reason, event.Action, event.Merged, event.BaseRef)
		return ProcessEventOutput{
			Outcome: OutcomeIgnored,
			Reason:  decision.Reason,
			Message: fmt.Sprintf("event ignored: %s", decision.Reason),
		}, nil
	}

	// Validated above; normalize to UTC regardless of the delivered offset.
	createdAt, _ := time.Parse(time.RFC3339, event.CreatedAt)
	createdAt = createdAt.UTC()

	out := ProcessEventOutput{Outcome: OutcomeProcessed}

	tracked := uc.listTrackedFiles(ctx, event, &out)
	summary := uc.summarize(ctx, event, "", &out)

	mergeRec := model.MergeRecord{
		PRNumber:  event.Number,
		Title:     event.Title,
		Creator:   event.Creator,
		CreatedAt: createdAt,
		HTMLURL:   event.HTMLURL,
		RepoOwner: event.RepoOwner,
		RepoName:  event.RepoName,
		Summary:   summary,
	}
	if event.PayloadPath != "" {
		mergeRec.FilePath = &event.PayloadPath
	}

	changes := make([]model.ModelChangeRecord, 0, len(tracked))
	for _, f := range tracked {
		fileSummary := summary
		if uc.cfg.PerFileSummaries {
			fileSummary = uc.summarize(ctx, event, f.Path, &out)
		}
		changes = append(changes, model.ModelChangeRecord{
			ModelName:   f.Path,
			PRHTMLURL:   event.HTMLURL,
			AISummary:   fileSummary,
			PRCreatedAt: createdAt,
			PRCreator:   event.Creator,
		})
	}

	out.MergeRecord = &mergeRec
	out.ModelChanges = changes

	uc.persist(ctx, mergeRec, changes, &out)

	out.Message = fmt.Sprintf("PR #%d merged to %s: %d tracked model change(s)",
		event.Number, event.BaseRef, len(changes))
	return out, nil
}

// listTrackedFiles fetches the PR file list and filters it to tracked models.
// A lister failure degrades to an empty list and is never fatal.
func (uc *usecase) listTrackedFiles(ctx context.Context, event model.PullRequestEvent, out *ProcessEventOutput) []githubapi.ChangedFile {
	files, err := uc.lister.ListPullRequestFiles(ctx, event.RepoOwner, event.RepoName, event.Number)
	if err != nil {
		uc.l.Warnf(ctx, "processor: file listing failed for PR #%d (retryable=%v): %v",
			event.Number, githubapi.IsRetryable(err), err)
		out.Warnings = append(out.Warnings, WarnFileListUnavailable)
		return nil
	}

	uc.l.Infof(ctx, "processor: PR #%d changed %d file(s)", event.Number, len(files))
	return FilterModelFiles(files, uc.cfg.ModelDir, uc.cfg.ModelExt)
}

// summarize requests one summary, PR-level or per-file. Any failure yields
// nil; processing never aborts because a summary could not be produced.
func (uc *usecase) summarize(ctx context.Context, event model.PullRequestEvent, filePath string, out *ProcessEventOutput) *string {
	text, err := uc.summarizer.SummarizePullRequest(ctx, gemini.SummaryRequest{
		Title:       event.Title,
		Description: event.Description,
		FilePath:    filePath,
	})
	if err != nil {
		if errors.Is(err, gemini.ErrNotConfigured) {
			uc.l.Warnf(ctx, "processor: summarizer unavailable, recording PR #%d without summary", event.Number)
		} else {
			uc.l.Warnf(ctx, "processor: summary generation failed for PR #%d: %v", event.Number, err)
		}
		if !containsWarning(out.Warnings, WarnSummaryUnavailable) {
			out.Warnings = append(out.Warnings, WarnSummaryUnavailable)
		}
		return nil
	}
	return &text
}

// persist attempts the two store writes independently. An unavailable store
// skips both; any failure degrades the outcome without rolling back.
func (uc *usecase) persist(ctx context.Context, mergeRec model.MergeRecord, changes []model.ModelChangeRecord, out *ProcessEventOutput) {
	err := uc.recordRepo.SaveMergeRecord(ctx, mergeRec)
	if errors.Is(err, repository.ErrNotConfigured) {
		uc.l.Warnf(ctx, "processor: data store unavailable, PR #%d processed but not persisted", mergeRec.PRNumber)
		out.Warnings = append(out.Warnings, WarnNotPersisted)
		return
	}

	persisted := true
	if err != nil {
		uc.l.Errorf(ctx, "processor: merge record write failed for PR #%d: %v", mergeRec.PRNumber, err)
		persisted = false
	}

	if err := uc.recordRepo.SaveModelChanges(ctx, changes); err != nil {
		uc.l.Errorf(ctx, "processor: model change write failed for PR #%d: %v", mergeRec.PRNumber, err)
		persisted = false
	}

	out.Persisted = persisted
	if !persisted {
		out.Warnings = append(out.Warnings, WarnNotPersisted)
	}
}

func containsWarning(warnings []string, code string) bool {
	for _, w := range warnings {
		if w == code {
			return true
		}
	}
	return false
}
