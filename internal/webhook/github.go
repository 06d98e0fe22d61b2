package webhook

import (
	"encoding/json"
	"fmt"

	"dbt-change-tracker/internal/model"
)

// GitHubWebhookParser parses GitHub webhook payloads
type GitHubWebhookParser struct{}

func NewGitHubParser() *GitHubWebhookParser {
	return &GitHubWebhookParser{}
}

// ParsePullRequestEvent parses a GitHub pull_request event into the internal
// event shape. Only structural JSON errors are reported here; field-level
// validation (merged flag, branch, required fields) happens downstream.
func (p *GitHubWebhookParser) ParsePullRequestEvent(payload []byte) (*model.PullRequestEvent, error) {
	var event struct {
		Action      string `json:"action"` // opened, closed, synchronize, etc.
		Number      int    `json:"number"`
		PullRequest struct {
			Number    int    `json:"number"`
			Title     string `json:"title"`
			Body      string `json:"body"`
			CreatedAt string `json:"created_at"`
			HTMLURL   string `json:"html_url"`
			Merged    bool   `json:"merged"`
			User      struct {
				Login string `json:"login"`
			} `json:"user"`
			Base struct {
				Ref string `json:"ref"`
			} `json:"base"`
			Head struct {
				SHA string `json:"sha"`
			} `json:"head"`
		} `json:"pull_request"`
		Repository struct {
			Name  string `json:"name"`
			Owner struct {
				Login string `json:"login"`
			} `json:"owner"`
		} `json:"repository"`
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse pull request event: %w", err)
	}

	// Top-level number and pull_request.number carry the same value;
	// take whichever is present.
	number := event.Number
	if number == 0 {
		number = event.PullRequest.Number
	}

	return &model.PullRequestEvent{
		Source:      model.SourceGitHub,
		Action:      event.Action,
		Number:      number,
		Title:       event.PullRequest.Title,
		Description: event.PullRequest.Body,
		Creator:     event.PullRequest.User.Login,
		CreatedAt:   event.PullRequest.CreatedAt,
		HTMLURL:     event.PullRequest.HTMLURL,
		BaseRef:     event.PullRequest.Base.Ref,
		HeadSHA:     event.PullRequest.Head.SHA,
		Merged:      event.PullRequest.Merged,
		RepoOwner:   event.Repository.Owner.Login,
		RepoName:    event.Repository.Name,
	}, nil
}
