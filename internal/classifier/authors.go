package classifier

import "github.com/fer-correa/OSPO-ColabAchievements/internal/domain"

// Identity is the author observed on a contribution event. Authors are
// registered as contributors independently of whether their event classifies
// to an achievement.
type Identity struct {
	Username  string
	AvatarURL string
}

// PullRequestAuthors extracts the authors of pull requests with a
// resolvable author login
func PullRequestAuthors(prs []*domain.PullRequest) []Identity {
	var authors []Identity
	for _, pr := range prs {
		if pr.Author == "" {
			continue
		}
		authors = append(authors, Identity{Username: pr.Author, AvatarURL: pr.AuthorAvatarURL})
	}
	return authors
}

// IssueAuthors extracts the authors of issues with a resolvable author
// login. Records flagged as pull requests are excluded; their authors are
// already covered by the pull request listing.
func IssueAuthors(issues []*domain.Issue) []Identity {
	var authors []Identity
	for _, issue := range issues {
		if issue.IsPullRequest || issue.Author == "" {
			continue
		}
		authors = append(authors, Identity{Username: issue.Author, AvatarURL: issue.AuthorAvatarURL})
	}
	return authors
}

// CommitAuthors extracts the authors of commits with a resolvable login
func CommitAuthors(commits []*domain.Commit) []Identity {
	var authors []Identity
	for _, commit := range commits {
		if commit.AuthorLogin == "" {
			continue
		}
		authors = append(authors, Identity{Username: commit.AuthorLogin, AvatarURL: commit.AuthorAvatarURL})
	}
	return authors
}
