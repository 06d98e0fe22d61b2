package githubapi

import "context"

// IClient is the interface for the GitHub REST API operations the service
// needs. Implementations are safe for concurrent use.
type IClient interface {
	// ListPullRequestFiles returns every file changed by the pull request,
	// following all pages and preserving provider order.
	ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error)
}
