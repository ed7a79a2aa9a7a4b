package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

// githubCollector implements Collector using the GitHub API
type githubCollector struct {
	client      *github.Client
	rateLimiter RateLimiter
}

// Option configures the collector
type Option func(*githubCollector)

// WithBaseURL points the collector at a different API endpoint, used to
// target GitHub Enterprise or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *githubCollector) {
		if u, err := c.client.BaseURL.Parse(baseURL); err == nil {
			c.client.BaseURL = u
		}
	}
}

// WithRateLimiter replaces the default rate limiter
func WithRateLimiter(rl RateLimiter) Option {
	return func(c *githubCollector) {
		c.rateLimiter = rl
	}
}

// NewGitHubCollector creates a new GitHub collector authenticated with the
// supplied bearer token
func NewGitHubCollector(token string, timeout time.Duration, opts ...Option) Collector {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout
	client := github.NewClient(tc)

	c := &githubCollector{
		client:      client,
		rateLimiter: NewRateLimiter(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrgRepositories retrieves the full names of an organization's public repositories
func (c *githubCollector) GetOrgRepositories(ctx context.Context, org string) ([]string, error) {
	return FetchAllPages(ctx, func(ctx context.Context, cursor Cursor) ([]string, Cursor, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, NoMorePages, err
		}

		opts := &github.RepositoryListByOrgOptions{
			Type:        "public",
			ListOptions: github.ListOptions{Page: int(cursor), PerPage: 100},
		}
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, NoMorePages, upstreamErr(resp, err, fmt.Sprintf("failed to list repositories for %s", org))
		}
		c.updateRateLimitFromResponse(resp)

		names := make([]string, 0, len(repos))
		for _, repo := range repos {
			names = append(names, repo.GetFullName())
		}
		return names, Cursor(resp.NextPage), nil
	})
}

// GetPullRequests retrieves pull requests in all states for a repository
func (c *githubCollector) GetPullRequests(ctx context.Context, owner, repo string) ([]*domain.PullRequest, error) {
	return FetchAllPages(ctx, func(ctx context.Context, cursor Cursor) ([]*domain.PullRequest, Cursor, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, NoMorePages, err
		}

		opts := &github.PullRequestListOptions{
			State:       "all",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: github.ListOptions{Page: int(cursor), PerPage: 100},
		}
		prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, NoMorePages, upstreamErr(resp, err, fmt.Sprintf("failed to list pull requests for %s/%s", owner, repo))
		}
		c.updateRateLimitFromResponse(resp)

		out := make([]*domain.PullRequest, 0, len(prs))
		for _, pr := range prs {
			var mergedAt *time.Time
			if pr.MergedAt != nil {
				t := pr.MergedAt.Time
				mergedAt = &t
			}
			out = append(out, &domain.PullRequest{
				Number:          pr.GetNumber(),
				State:           pr.GetState(),
				Title:           pr.GetTitle(),
				URL:             pr.GetHTMLURL(),
				Author:          pr.GetUser().GetLogin(),
				AuthorAvatarURL: pr.GetUser().GetAvatarURL(),
				MergedAt:        mergedAt,
			})
		}
		return out, Cursor(resp.NextPage), nil
	})
}

// GetIssues retrieves issues in all states for a repository
func (c *githubCollector) GetIssues(ctx context.Context, owner, repo string) ([]*domain.Issue, error) {
	return FetchAllPages(ctx, func(ctx context.Context, cursor Cursor) ([]*domain.Issue, Cursor, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, NoMorePages, err
		}

		opts := &github.IssueListByRepoOptions{
			State:       "all",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: github.ListOptions{Page: int(cursor), PerPage: 100},
		}
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, NoMorePages, upstreamErr(resp, err, fmt.Sprintf("failed to list issues for %s/%s", owner, repo))
		}
		c.updateRateLimitFromResponse(resp)

		out := make([]*domain.Issue, 0, len(issues))
		for _, issue := range issues {
			out = append(out, &domain.Issue{
				Number:          issue.GetNumber(),
				State:           issue.GetState(),
				Title:           issue.GetTitle(),
				URL:             issue.GetHTMLURL(),
				Author:          issue.GetUser().GetLogin(),
				AuthorAvatarURL: issue.GetUser().GetAvatarURL(),
				IsPullRequest:   issue.IsPullRequest(),
			})
		}
		return out, Cursor(resp.NextPage), nil
	})
}

// GetDefaultBranch resolves the repository's default branch
func (c *githubCollector) GetDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	repository, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", upstreamErr(resp, err, fmt.Sprintf("failed to get repository %s/%s", owner, repo))
	}
	c.updateRateLimitFromResponse(resp)

	branch := repository.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}
	return branch, nil
}

// GetCommits retrieves commits on the named branch
func (c *githubCollector) GetCommits(ctx context.Context, owner, repo, branch string) ([]*domain.Commit, error) {
	return FetchAllPages(ctx, func(ctx context.Context, cursor Cursor) ([]*domain.Commit, Cursor, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, NoMorePages, err
		}

		opts := &github.CommitsListOptions{
			SHA:         branch,
			ListOptions: github.ListOptions{Page: int(cursor), PerPage: 100},
		}
		commits, resp, err := c.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			// Empty repositories report 409; treat as no commits
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return nil, NoMorePages, nil
			}
			return nil, NoMorePages, upstreamErr(resp, err, fmt.Sprintf("failed to list commits for %s/%s", owner, repo))
		}
		c.updateRateLimitFromResponse(resp)

		out := make([]*domain.Commit, 0, len(commits))
		for _, commit := range commits {
			out = append(out, &domain.Commit{
				SHA:             commit.GetSHA(),
				Message:         commit.GetCommit().GetMessage(),
				URL:             commit.GetHTMLURL(),
				AuthorLogin:     commit.GetAuthor().GetLogin(),
				AuthorAvatarURL: commit.GetAuthor().GetAvatarURL(),
			})
		}
		return out, Cursor(resp.NextPage), nil
	})
}

// updateRateLimitFromResponse updates the rate limiter from API response
func (c *githubCollector) updateRateLimitFromResponse(resp *github.Response) {
	if resp != nil && resp.Rate.Remaining >= 0 {
		c.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}

// upstreamErr wraps a GitHub API failure, carrying the HTTP status when the
// response reached us. Rate-limit rejections get their own code so callers
// don't retry into an exhausted quota.
func upstreamErr(resp *github.Response, err error, message string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.NewRateLimitedError(message)
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return apperrors.NewUpstreamError(status, message, err)
}
