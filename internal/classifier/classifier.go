// Package classifier derives achievement candidates from raw contribution
// events. Classification is pure: no I/O, one candidate at most per event.
package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
)

// Classifier turns raw pull request, issue, and commit records from one
// repository into typed achievement candidates
type Classifier struct {
	now func() time.Time
}

// New creates a new classifier
func New() *Classifier {
	return &Classifier{now: time.Now}
}

// NewWithClock creates a classifier with a fixed clock, used in tests
func NewWithClock(now func() time.Time) *Classifier {
	return &Classifier{now: now}
}

// ClassifyPullRequests classifies pull requests by merge status and state.
// Exactly one candidate is produced per PR with a known state, none for a
// PR without a resolvable author.
func (c *Classifier) ClassifyPullRequests(repo string, prs []*domain.PullRequest) []*domain.AchievementCandidate {
	var candidates []*domain.AchievementCandidate
	for _, pr := range prs {
		if pr.Author == "" {
			continue
		}

		switch {
		case pr.MergedAt != nil:
			candidates = append(candidates, &domain.AchievementCandidate{
				Username:    pr.Author,
				AvatarURL:   pr.AuthorAvatarURL,
				Kind:        domain.KindPRMerged,
				Title:       fmt.Sprintf("PR Merged in %s", repo),
				Description: fmt.Sprintf("Successfully merged PR: %s", pr.Title),
				SourceURL:   pr.URL,
				AwardedAt:   *pr.MergedAt,
			})
		case pr.State == "closed":
			candidates = append(candidates, &domain.AchievementCandidate{
				Username:    pr.Author,
				AvatarURL:   pr.AuthorAvatarURL,
				Kind:        domain.KindPRClosedUnmerged,
				Title:       fmt.Sprintf("PR Closed (Unmerged) in %s", repo),
				Description: fmt.Sprintf("Closed PR: %s", pr.Title),
				SourceURL:   pr.URL,
				AwardedAt:   c.now(),
			})
		case pr.State == "open":
			candidates = append(candidates, &domain.AchievementCandidate{
				Username:    pr.Author,
				AvatarURL:   pr.AuthorAvatarURL,
				Kind:        domain.KindPROpened,
				Title:       fmt.Sprintf("PR Opened in %s", repo),
				Description: fmt.Sprintf("Opened PR: %s", pr.Title),
				SourceURL:   pr.URL,
				AwardedAt:   c.now(),
			})
		}
	}
	return candidates
}

// ClassifyIssues classifies issues by state. Records flagged as pull
// requests are screened out before classification; the GitHub issue
// listing includes them.
func (c *Classifier) ClassifyIssues(repo string, issues []*domain.Issue) []*domain.AchievementCandidate {
	var candidates []*domain.AchievementCandidate
	for _, issue := range issues {
		if issue.IsPullRequest || issue.Author == "" {
			continue
		}

		switch issue.State {
		case "closed":
			candidates = append(candidates, &domain.AchievementCandidate{
				Username:    issue.Author,
				AvatarURL:   issue.AuthorAvatarURL,
				Kind:        domain.KindIssueClosed,
				Title:       fmt.Sprintf("Issue Closed in %s", repo),
				Description: fmt.Sprintf("Closed Issue: %s", issue.Title),
				SourceURL:   issue.URL,
				AwardedAt:   c.now(),
			})
		case "open":
			candidates = append(candidates, &domain.AchievementCandidate{
				Username:    issue.Author,
				AvatarURL:   issue.AuthorAvatarURL,
				Kind:        domain.KindIssueOpened,
				Title:       fmt.Sprintf("Issue Opened in %s", repo),
				Description: fmt.Sprintf("Opened Issue: %s", issue.Title),
				SourceURL:   issue.URL,
				AwardedAt:   c.now(),
			})
		}
	}
	return candidates
}

// ClassifyCommits classifies direct commits to the default branch. Commits
// without a resolvable author login are skipped silently.
func (c *Classifier) ClassifyCommits(repo string, commits []*domain.Commit) []*domain.AchievementCandidate {
	var candidates []*domain.AchievementCandidate
	for _, commit := range commits {
		if commit.AuthorLogin == "" {
			continue
		}

		candidates = append(candidates, &domain.AchievementCandidate{
			Username:    commit.AuthorLogin,
			AvatarURL:   commit.AuthorAvatarURL,
			Kind:        domain.KindDirectCommit,
			Title:       fmt.Sprintf("Direct Commit to %s", repo),
			Description: fmt.Sprintf("Committed: %s", summaryLine(commit.Message)),
			SourceURL:   commit.URL,
			AwardedAt:   c.now(),
		})
	}
	return candidates
}

// summaryLine truncates a multi-line commit message to its first line
func summaryLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimRight(message, "\r")
}
