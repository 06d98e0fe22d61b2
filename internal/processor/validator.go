package processor

import (
	"time"

	"dbt-change-tracker/internal/model"
)

// Decision is the validator verdict for one event.
type Decision struct {
	Proceed bool
	Reason  string // reason code when Proceed is false
}

// trunkBranches are the integration branches that qualify a merge for
// recording. Comparison is case-sensitive.
var trunkBranches = map[string]bool{
	"main":   true,
	"master": true,
}

// ValidateEvent classifies an event as actionable merge or ignored.
// Pure function of the payload; rules are evaluated in order:
// merged-closed check, trunk-branch check, required-field check.
func ValidateEvent(event model.PullRequestEvent) (Decision, error) {
	if event.Action != "closed" || !event.Merged {
		return Decision{Proceed: false, Reason: ReasonNotAMerge}, nil
	}

	if !trunkBranches[event.BaseRef] {
		return Decision{Proceed: false, Reason: ReasonNonTrunkBranch}, nil
	}

	if event.Number <= 0 {
		return Decision{}, &MalformedEventError{Field: "pull_request.number"}
	}
	if event.RepoOwner == "" {
		return Decision{}, &MalformedEventError{Field: "repository.owner.login"}
	}
	if event.RepoName == "" {
		return Decision{}, &MalformedEventError{Field: "repository.name"}
	}
	if event.Creator == "" {
		return Decision{}, &MalformedEventError{Field: "pull_request.user.login"}
	}
	if _, err := time.Parse(time.RFC3339, event.CreatedAt); err != nil {
		return Decision{}, &MalformedEventError{Field: "pull_request.created_at"}
	}

	return Decision{Proceed: true}, nil
}
