package processor_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dbt-change-tracker/internal/model"
	"dbt-change-tracker/internal/processor"
	"dbt-change-tracker/internal/record/repository"
	"dbt-change-tracker/pkg/gemini"
	"dbt-change-tracker/pkg/githubapi"
	pkgLog "dbt-change-tracker/pkg/log"
)

type fakeLister struct {
	files []githubapi.ChangedFile
	err   error
	calls int
}

func (f *fakeLister) ListPullRequestFiles(_ context.Context, _, _ string, _ int) ([]githubapi.ChangedFile, error) {
	f.calls++
	return f.files, f.err
}

type fakeSummarizer struct {
	text  string
	err   error
	calls int
	paths []string
}

func (f *fakeSummarizer) SummarizePullRequest(_ context.Context, req gemini.SummaryRequest) (string, error) {
	f.calls++
	f.paths = append(f.paths, req.FilePath)
	if f.err != nil {
		return "", f.err
	}
	if req.FilePath != "" {
		return fmt.Sprintf("%s: %s", f.text, req.FilePath), nil
	}
	return f.text, nil
}

type fakeRepo struct {
	mergeErr   error
	changesErr error

	savedMerge   []model.MergeRecord
	savedChanges [][]model.ModelChangeRecord
}

func (f *fakeRepo) SaveMergeRecord(_ context.Context, rec model.MergeRecord) error {
	f.savedMerge = append(f.savedMerge, rec)
	return f.mergeErr
}

func (f *fakeRepo) SaveModelChanges(_ context.Context, recs []model.ModelChangeRecord) error {
	f.savedChanges = append(f.savedChanges, recs)
	return f.changesErr
}

func defaultConfig() processor.Config {
	return processor.Config{ModelDir: "models/", ModelExt: ".sql"}
}

func newUseCase(lister *fakeLister, summarizer *fakeSummarizer, repo *fakeRepo, cfg processor.Config) processor.UseCase {
	return processor.New(lister, summarizer, repo, cfg, pkgLog.NewNop())
}

func hasWarning(out processor.ProcessEventOutput, code string) bool {
	for _, w := range out.Warnings {
		if w == code {
			return true
		}
	}
	return false
}

func TestProcessEvent_MergedPRWithModelChanges(t *testing.T) {
	lister := &fakeLister{files: []githubapi.ChangedFile{
		{Path: "models/marts/fact_sales.sql", Status: "modified"},
		{Path: "README.md", Status: "modified"},
	}}
	summarizer := &fakeSummarizer{text: "Refactored sales aggregation"}
	repo := &fakeRepo{}
	uc := newUseCase(lister, summarizer, repo, defaultConfig())

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: validEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome != processor.OutcomeProcessed {
		t.Fatalf("expected processed, got %s (%s)", out.Outcome, out.Message)
	}
	if !out.Persisted {
		t.Error("expected Persisted")
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}

	if out.MergeRecord == nil {
		t.Fatal("expected merge record")
	}
	if out.MergeRecord.PRNumber != 42 || out.MergeRecord.Creator != "octocat" {
		t.Errorf("unexpected merge record: %+v", out.MergeRecord)
	}
	if out.MergeRecord.Summary == nil || *out.MergeRecord.Summary != "Refactored sales aggregation" {
		t.Errorf("unexpected summary: %v", out.MergeRecord.Summary)
	}
	if loc := out.MergeRecord.CreatedAt.Location(); loc != nil && loc.String() != "UTC" {
		t.Errorf("created_at not normalized to UTC: %v", out.MergeRecord.CreatedAt)
	}

	if len(out.ModelChanges) != 1 {
		t.Fatalf("expected 1 model change, got %d", len(out.ModelChanges))
	}
	change := out.ModelChanges[0]
	if change.ModelName != "models/marts/fact_sales.sql" {
		t.Errorf("unexpected model name %q", change.ModelName)
	}
	if change.PRHTMLURL != out.MergeRecord.HTMLURL || change.PRCreator != "octocat" {
		t.Errorf("model change not linked to PR: %+v", change)
	}
	if change.AISummary == nil || *change.AISummary != "Refactored sales aggregation" {
		t.Errorf("unexpected change summary: %v", change.AISummary)
	}

	if len(repo.savedMerge) != 1 || len(repo.savedChanges) != 1 {
		t.Errorf("expected one write to each table, got %d/%d", len(repo.savedMerge), len(repo.savedChanges))
	}
	if summarizer.calls != 1 {
		t.Errorf("expected a single PR-level summary call, got %d", summarizer.calls)
	}
}

func TestProcessEvent_NonTrunkIgnoredWithoutSideEffects(t *testing.T) {
	lister := &fakeLister{}
	summarizer := &fakeSummarizer{text: "x"}
	repo := &fakeRepo{}
	uc := newUseCase(lister, summarizer, repo, defaultConfig())

	event := validEvent()
	event.BaseRef = "develop"

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: event})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome != processor.OutcomeIgnored || out.Reason != processor.ReasonNonTrunkBranch {
		t.Fatalf("expected ignored/non-trunk-branch, got %s/%s", out.Outcome, out.Reason)
	}
	if lister.calls != 0 || summarizer.calls != 0 {
		t.Errorf("ignored event must not call external services: lister=%d summarizer=%d", lister.calls, summarizer.calls)
	}
	if len(repo.savedMerge) != 0 || len(repo.savedChanges) != 0 {
		t.Error("ignored event must not write records")
	}
}

func TestProcessEvent_MalformedFails(t *testing.T) {
	repo := &fakeRepo{}
	uc := newUseCase(&fakeLister{}, &fakeSummarizer{}, repo, defaultConfig())

	event := validEvent()
	event.Creator = ""

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: event})
	var malformed *processor.MalformedEventError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedEventError, got %v", err)
	}
	if out.Outcome != processor.OutcomeFailed {
		t.Errorf("expected failed, got %s", out.Outcome)
	}
	if len(repo.savedMerge) != 0 {
		t.Error("failed event must not write records")
	}
}

func TestProcessEvent_FileListUnavailableDegrades(t *testing.T) {
	lister := &fakeLister{err: &githubapi.APIError{Status: 500, Message: "boom", Retryable: true}}
	summarizer := &fakeSummarizer{text: "summary"}
	repo := &fakeRepo{}
	uc := newUseCase(lister, summarizer, repo, defaultConfig())

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: validEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome != processor.OutcomeProcessed {
		t.Fatalf("expected processed, got %s", out.Outcome)
	}
	if !hasWarning(out, processor.WarnFileListUnavailable) {
		t.Errorf("expected %s warning, got %v", processor.WarnFileListUnavailable, out.Warnings)
	}
	if len(out.ModelChanges) != 0 {
		t.Errorf("expected no model changes, got %d", len(out.ModelChanges))
	}
	if len(repo.savedMerge) != 1 {
		t.Error("merge record must still be written")
	}
}

func TestProcessEvent_SummaryUnavailableDegrades(t *testing.T) {
	lister := &fakeLister{files: []githubapi.ChangedFile{{Path: "models/a.sql"}}}
	summarizer := &fakeSummarizer{err: errors.New("model overloaded")}
	repo := &fakeRepo{}
	uc := newUseCase(lister, summarizer, repo, defaultConfig())

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: validEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(out, processor.WarnSummaryUnavailable) {
		t.Errorf("expected %s warning, got %v", processor.WarnSummaryUnavailable, out.Warnings)
	}
	if out.MergeRecord.Summary != nil {
		t.Errorf("expected nil summary, got %q", *out.MergeRecord.Summary)
	}
	if out.ModelChanges[0].AISummary != nil {
		t.Error("expected nil change summary")
	}
	if !out.Persisted {
		t.Error("records must persist without a summary")
	}
}

func TestProcessEvent_SummarizerNotConfigured(t *testing.T) {
	lister := &fakeLister{files: []githubapi.ChangedFile{{Path: "models/a.sql"}}}
	summarizer := &fakeSummarizer{err: gemini.ErrNotConfigured}
	repo := &fakeRepo{}
	uc := newUseCase(lister, summarizer, repo, defaultConfig())

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: validEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(out, processor.WarnSummaryUnavailable) {
		t.Errorf("expected %s warning, got %v", processor.WarnSummaryUnavailable, out.Warnings)
	}
	if len(repo.savedMerge) != 1 {
		t.Error("records must still be written when the summarizer is not configured")
	}
}

func TestProcessEvent_StoreNotConfiguredSkipsBothWrites(t *testing.T) {
	lister := &fakeLister{files: []githubapi.ChangedFile{{Path: "models/a.sql"}}}
	summarizer := &fakeSummarizer{text: "summary"}
	uc := processor.New(lister, summarizer, repository.NewUnavailable("missing supabase_url"), defaultConfig(), pkgLog.NewNop())

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: validEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome != processor.OutcomeProcessed {
		t.Fatalf("expected processed, got %s", out.Outcome)
	}
	if out.Persisted {
		t.Error("expected Persisted false")
	}
	if !hasWarning(out, processor.WarnNotPersisted) {
		t.Errorf("expected %s warning, got %v", processor.WarnNotPersisted, out.Warnings)
	}
	if out.MergeRecord == nil || len(out.ModelChanges) != 1 {
		t.Error("records must still be built for the response")
	}
}

func TestProcessEvent_PartialWriteFailure(t *testing.T) {
	lister := &fakeLister{files: []githubapi.ChangedFile{{Path: "models/a.sql"}}}
	summarizer := &fakeSummarizer{text: "summary"}
	repo := &fakeRepo{mergeErr: errors.New("duplicate key")}
	uc := newUseCase(lister, summarizer, repo, defaultConfig())

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: validEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Persisted {
		t.Error("expected Persisted false after a failed merge write")
	}
	if !hasWarning(out, processor.WarnNotPersisted) {
		t.Errorf("expected %s warning, got %v", processor.WarnNotPersisted, out.Warnings)
	}
	if len(repo.savedChanges) != 1 {
		t.Error("model change write must still be attempted after the merge write fails")
	}
}

func TestProcessEvent_PerFileSummaries(t *testing.T) {
	lister := &fakeLister{files: []githubapi.ChangedFile{
		{Path: "models/a.sql"},
		{Path: "models/b.sql"},
	}}
	summarizer := &fakeSummarizer{text: "changed"}
	repo := &fakeRepo{}
	cfg := defaultConfig()
	cfg.PerFileSummaries = true
	uc := newUseCase(lister, summarizer, repo, cfg)

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: validEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One PR-level call plus one per tracked file.
	if summarizer.calls != 3 {
		t.Fatalf("expected 3 summarizer calls, got %d", summarizer.calls)
	}
	if got := *out.ModelChanges[0].AISummary; got != "changed: models/a.sql" {
		t.Errorf("unexpected per-file summary: %q", got)
	}
	if got := *out.ModelChanges[1].AISummary; got != "changed: models/b.sql" {
		t.Errorf("unexpected per-file summary: %q", got)
	}
}

func TestProcessEvent_ReplayPayloadPathRecorded(t *testing.T) {
	lister := &fakeLister{}
	repo := &fakeRepo{}
	uc := newUseCase(lister, &fakeSummarizer{text: "s"}, repo, defaultConfig())

	event := validEvent()
	event.Source = model.SourceReplay
	event.PayloadPath = "webhooks/webhook_payload_20250301T120000Z.json"

	out, err := uc.ProcessEvent(context.Background(), processor.ProcessEventInput{Event: event})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.MergeRecord.FilePath == nil || *out.MergeRecord.FilePath != event.PayloadPath {
		t.Errorf("expected payload path on the merge record, got %v", out.MergeRecord.FilePath)
	}
}
