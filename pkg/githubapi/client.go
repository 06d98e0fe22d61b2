package githubapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// pullRequestsService is the slice of go-github's PullRequestsService the
// client depends on, so tests can substitute it.
type pullRequestsService interface {
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

// Client wraps the go-github client for pull request file listing.
type Client struct {
	gh        *github.Client
	prService pullRequestsService
	perPage   int
}

// NewClient creates a new GitHub API client. An empty token yields an
// unauthenticated client, which works against public repositories only.
func NewClient(token string) *Client {
	var gh *github.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		gh = github.NewClient(oauth2.NewClient(context.Background(), ts))
	} else {
		gh = github.NewClient(nil)
	}

	return &Client{
		gh:        gh,
		prService: gh.PullRequests,
		perPage:   100,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(raw string) error {
	u, err := url.Parse(raw + "/")
	if err != nil {
		return fmt.Errorf("githubapi: invalid base URL: %w", err)
	}
	c.gh.BaseURL = u
	return nil
}

// ListPullRequestFiles fetches every changed file of the pull request,
// concatenating all pages in provider order.
func (c *Client) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	opts := &github.ListOptions{PerPage: c.perPage}

	var changed []ChangedFile
	for {
		files, resp, err := c.prService.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, toAPIError(err, resp)
		}

		for _, f := range files {
			changed = append(changed, ChangedFile{
				Path:   f.GetFilename(),
				Status: f.GetStatus(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return changed, nil
}

// toAPIError maps go-github errors to the service error taxonomy: 4xx is
// non-retryable, 5xx and network failures are retryable.
func toAPIError(err error, resp *github.Response) *APIError {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	if errResp, ok := err.(*github.ErrorResponse); ok {
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
		return &APIError{
			Status:    status,
			Message:   errResp.Message,
			Retryable: status >= 500,
		}
	}

	return &APIError{
		Status:    status,
		Message:   err.Error(),
		Retryable: status == 0 || status >= 500,
	}
}
