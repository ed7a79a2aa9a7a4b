package collector

import (
	"context"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
)

// Collector defines the interface for fetching contribution data from the
// upstream platform
type Collector interface {
	// GetOrgRepositories retrieves the full names of an organization's public repositories
	GetOrgRepositories(ctx context.Context, org string) ([]string, error)

	// GetPullRequests retrieves pull requests in all states for a repository
	GetPullRequests(ctx context.Context, owner, repo string) ([]*domain.PullRequest, error)

	// GetIssues retrieves issues in all states for a repository. The listing
	// includes records that are actually pull requests; those are flagged.
	GetIssues(ctx context.Context, owner, repo string) ([]*domain.Issue, error)

	// GetDefaultBranch resolves the repository's default branch
	GetDefaultBranch(ctx context.Context, owner, repo string) (string, error)

	// GetCommits retrieves commits on the named branch
	GetCommits(ctx context.Context, owner, repo, branch string) ([]*domain.Commit, error)
}
