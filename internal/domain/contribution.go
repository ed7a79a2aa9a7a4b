package domain

import (
	"sort"
	"time"
)

// AchievementKind represents the category of a classified contribution
type AchievementKind string

const (
	KindPRMerged         AchievementKind = "pr_merged"
	KindPRClosedUnmerged AchievementKind = "pr_closed_unmerged"
	KindPROpened         AchievementKind = "pr_opened"
	KindIssueClosed      AchievementKind = "issue_closed"
	KindIssueOpened      AchievementKind = "issue_opened"
	KindDirectCommit     AchievementKind = "direct_commit"
)

// AchievementCandidate is a derived, not-yet-persisted achievement produced
// by classification. SourceURL is the natural deduplication key.
type AchievementCandidate struct {
	Username    string
	AvatarURL   string
	Kind        AchievementKind
	Title       string
	Description string
	SourceURL   string
	AwardedAt   time.Time
}

// PullRequest is a raw pull request record from the upstream platform
type PullRequest struct {
	Number          int
	State           string // open, closed
	Title           string
	URL             string
	Author          string
	AuthorAvatarURL string
	MergedAt        *time.Time
}

// Issue is a raw issue record from the upstream platform. GitHub issue
// listings include pull requests; IsPullRequest flags those records.
type Issue struct {
	Number          int
	State           string // open, closed
	Title           string
	URL             string
	Author          string
	AuthorAvatarURL string
	IsPullRequest   bool
}

// Commit is a raw commit record from a repository's default branch
type Commit struct {
	SHA             string
	Message         string
	URL             string
	AuthorLogin     string
	AuthorAvatarURL string
}

// DedupeRepositories returns the set union of repository full names,
// deduplicated case-sensitively and sorted for deterministic processing order
func DedupeRepositories(repos []string) []string {
	seen := make(map[string]struct{}, len(repos))
	out := make([]string, 0, len(repos))
	for _, r := range repos {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
