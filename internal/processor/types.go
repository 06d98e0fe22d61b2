package processor

import (
	"dbt-change-tracker/internal/model"
)

// Outcome is the terminal state of one processed event.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeFailed    Outcome = "failed"
)

// Reason codes for ignored events.
const (
	ReasonNotAMerge      = "not-a-merge"
	ReasonNonTrunkBranch = "non-trunk-branch"
)

// Warning codes for degraded enrichments on a Processed outcome.
const (
	WarnFileListUnavailable = "file-list-unavailable"
	WarnSummaryUnavailable  = "summary-unavailable"
	WarnNotPersisted        = "not-persisted"
)

// ProcessEventInput is input for event processing.
type ProcessEventInput struct {
	Event model.PullRequestEvent
}

// ProcessEventOutput is the result of event processing.
type ProcessEventOutput struct {
	Outcome Outcome
	Reason  string // set when Outcome is Ignored

	MergeRecord  *model.MergeRecord
	ModelChanges []model.ModelChangeRecord

	Persisted bool     // both store writes were attempted and succeeded
	Warnings  []string // degraded enrichments (warning codes above)
	Message   string   // human-readable summary
}
