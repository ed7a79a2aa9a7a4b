package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestClassifier() *Classifier {
	return NewWithClock(func() time.Time { return fixedNow })
}

func TestClassifyPullRequests(t *testing.T) {
	c := newTestClassifier()
	mergedAt := time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pr       *domain.PullRequest
		wantKind domain.AchievementKind
		wantNone bool
	}{
		{
			name: "merged PR wins over closed state",
			pr: &domain.PullRequest{
				State: "closed", Title: "Add feature", URL: "https://github.com/acme/widgets/pull/1",
				Author: "alice", MergedAt: &mergedAt,
			},
			wantKind: domain.KindPRMerged,
		},
		{
			name: "closed unmerged PR",
			pr: &domain.PullRequest{
				State: "closed", Title: "Abandoned", URL: "https://github.com/acme/widgets/pull/2",
				Author: "bob",
			},
			wantKind: domain.KindPRClosedUnmerged,
		},
		{
			name: "open PR",
			pr: &domain.PullRequest{
				State: "open", Title: "WIP", URL: "https://github.com/acme/widgets/pull/3",
				Author: "carol",
			},
			wantKind: domain.KindPROpened,
		},
		{
			name: "unknown state yields nothing",
			pr: &domain.PullRequest{
				State: "draft", Title: "Odd", URL: "https://github.com/acme/widgets/pull/4",
				Author: "dave",
			},
			wantNone: true,
		},
		{
			name: "no resolvable author is skipped silently",
			pr: &domain.PullRequest{
				State: "open", Title: "Ghost", URL: "https://github.com/acme/widgets/pull/5",
			},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifyPullRequests("acme/widgets", []*domain.PullRequest{tt.pr})
			if tt.wantNone {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantKind, got[0].Kind)
			assert.Equal(t, tt.pr.URL, got[0].SourceURL)
			assert.Equal(t, tt.pr.Author, got[0].Username)
		})
	}
}

func TestClassifyPullRequestsExactlyOneKind(t *testing.T) {
	c := newTestClassifier()
	mergedAt := fixedNow

	// For every known (state, merged_at) combination exactly one candidate
	// kind is produced
	combos := []*domain.PullRequest{
		{State: "open", Author: "a", URL: "u1"},
		{State: "closed", Author: "a", URL: "u2"},
		{State: "open", Author: "a", URL: "u3", MergedAt: &mergedAt},
		{State: "closed", Author: "a", URL: "u4", MergedAt: &mergedAt},
	}
	got := c.ClassifyPullRequests("acme/widgets", combos)
	require.Len(t, got, len(combos))

	kinds := map[string]domain.AchievementKind{}
	for _, cand := range got {
		kinds[cand.SourceURL] = cand.Kind
	}
	assert.Equal(t, domain.KindPROpened, kinds["u1"])
	assert.Equal(t, domain.KindPRClosedUnmerged, kinds["u2"])
	assert.Equal(t, domain.KindPRMerged, kinds["u3"])
	assert.Equal(t, domain.KindPRMerged, kinds["u4"])
}

func TestClassifyPullRequestTitles(t *testing.T) {
	c := newTestClassifier()
	mergedAt := fixedNow

	got := c.ClassifyPullRequests("acme/widgets", []*domain.PullRequest{
		{State: "closed", Title: "Add feature", URL: "u", Author: "alice", MergedAt: &mergedAt},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "PR Merged in acme/widgets", got[0].Title)
	assert.Equal(t, "Successfully merged PR: Add feature", got[0].Description)
	assert.Equal(t, mergedAt, got[0].AwardedAt)
}

func TestClassifyIssuesScreensOutPullRequests(t *testing.T) {
	c := newTestClassifier()

	got := c.ClassifyIssues("acme/widgets", []*domain.Issue{
		{State: "closed", Title: "Crash on start", URL: "i1", Author: "alice", IsPullRequest: true},
		{State: "closed", Title: "Crash on exit", URL: "i2", Author: "alice"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "i2", got[0].SourceURL)
	assert.Equal(t, domain.KindIssueClosed, got[0].Kind)
	assert.Equal(t, "Issue Closed in acme/widgets", got[0].Title)
	assert.Equal(t, "Closed Issue: Crash on exit", got[0].Description)
}

func TestClassifyIssuesByState(t *testing.T) {
	c := newTestClassifier()

	got := c.ClassifyIssues("acme/widgets", []*domain.Issue{
		{State: "open", Title: "Question", URL: "i1", Author: "bob"},
		{State: "closed", Title: "Done", URL: "i2", Author: "bob"},
		{State: "open", Title: "Anonymous", URL: "i3"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, domain.KindIssueOpened, got[0].Kind)
	assert.Equal(t, "Opened Issue: Question", got[0].Description)
	assert.Equal(t, domain.KindIssueClosed, got[1].Kind)
}

func TestClassifyCommitsTruncatesMessage(t *testing.T) {
	c := newTestClassifier()

	got := c.ClassifyCommits("acme/widgets", []*domain.Commit{
		{SHA: "abc", Message: "Fix bug\n\nLonger explanation of the fix", URL: "c1", AuthorLogin: "alice"},
		{SHA: "def", Message: "Single line\r\nWindows style", URL: "c2", AuthorLogin: "alice"},
		{SHA: "ghi", Message: "No newline at all", URL: "c3", AuthorLogin: "alice"},
	})
	require.Len(t, got, 3)
	assert.Equal(t, "Committed: Fix bug", got[0].Description)
	assert.Equal(t, "Committed: Single line", got[1].Description)
	assert.Equal(t, "Committed: No newline at all", got[2].Description)
	assert.Equal(t, "Direct Commit to acme/widgets", got[0].Title)
}

func TestClassifyCommitsSkipsUnresolvableAuthors(t *testing.T) {
	c := newTestClassifier()

	got := c.ClassifyCommits("acme/widgets", []*domain.Commit{
		{SHA: "abc", Message: "Imported history", URL: "c1"},
	})
	assert.Empty(t, got)
}
