package model

// EventSource represents the source platform of a webhook event.
type EventSource string

const (
	SourceGitHub EventSource = "github"
	SourceReplay EventSource = "replay"
)

// PullRequestEvent is a parsed pull_request webhook payload. It is ephemeral:
// consumed by the processor and discarded after the event is handled.
type PullRequestEvent struct {
	Source      EventSource
	Action      string // opened, closed, reopened, ...
	Number      int
	Title       string
	Description string
	Creator     string // author handle (user.login)
	CreatedAt   string // RFC3339 as delivered by the provider, any offset
	HTMLURL     string
	BaseRef     string // target branch name
	HeadSHA     string
	Merged      bool
	RepoOwner   string
	RepoName    string

	// PayloadPath is set when the raw payload was archived to disk; it feeds
	// the legacy file_path column of the merge record.
	PayloadPath string
}
