package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

// memStore is an in-memory store with the same uniqueness guarantees as the
// record API: at most one contributor per username, one achievement per
// source URL.
type memStore struct {
	mu           sync.Mutex
	contributors map[string]*domain.Contributor
	achievements map[string]*domain.Achievement
	nextID       int

	// createContributorErr, when set, fails every contributor creation
	createContributorErr error
}

func newMemStore() *memStore {
	return &memStore{
		contributors: make(map[string]*domain.Contributor),
		achievements: make(map[string]*domain.Achievement),
	}
}

func (s *memStore) FindContributor(ctx context.Context, username string) (*domain.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.contributors[username]; ok {
		return c, nil
	}
	return nil, apperrors.NewNotFoundError("contributor")
}

func (s *memStore) CreateContributor(ctx context.Context, username, avatarURL string) (*domain.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createContributorErr != nil {
		return nil, s.createContributorErr
	}
	if _, ok := s.contributors[username]; ok {
		return nil, apperrors.NewConflictError("contributor")
	}
	s.nextID++
	c := &domain.Contributor{
		ID:        fmt.Sprintf("c-%d", s.nextID),
		Username:  username,
		AvatarURL: avatarURL,
	}
	s.contributors[username] = c
	return c, nil
}

func (s *memStore) FindAchievementBySourceURL(ctx context.Context, sourceURL string) (*domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.achievements[sourceURL]; ok {
		return a, nil
	}
	return nil, apperrors.NewNotFoundError("achievement")
}

func (s *memStore) CreateAchievement(ctx context.Context, contributor *domain.Contributor, candidate *domain.AchievementCandidate) (*domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.achievements[candidate.SourceURL]; ok {
		return nil, apperrors.NewConflictError("achievement")
	}
	s.nextID++
	a := &domain.Achievement{
		ID:            fmt.Sprintf("a-%d", s.nextID),
		ContributorID: contributor.ID,
		Title:         candidate.Title,
		Description:   candidate.Description,
		SourceURL:     candidate.SourceURL,
		AwardedAt:     candidate.AwardedAt,
	}
	s.achievements[candidate.SourceURL] = a
	return a, nil
}

// repoData is the scripted upstream state for one repository
type repoData struct {
	prs     []*domain.PullRequest
	issues  []*domain.Issue
	commits []*domain.Commit
	branch  string

	prErr     error
	issueErr  error
	branchErr error
	commitErr error
}

// fakeCollector serves scripted upstream data
type fakeCollector struct {
	orgRepos map[string][]string
	orgErr   map[string]error
	repos    map[string]*repoData
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{
		orgRepos: make(map[string][]string),
		orgErr:   make(map[string]error),
		repos:    make(map[string]*repoData),
	}
}

func (f *fakeCollector) GetOrgRepositories(ctx context.Context, org string) ([]string, error) {
	if err := f.orgErr[org]; err != nil {
		return nil, err
	}
	return f.orgRepos[org], nil
}

func (f *fakeCollector) data(owner, repo string) *repoData {
	if d, ok := f.repos[owner+"/"+repo]; ok {
		return d
	}
	return &repoData{branch: "main"}
}

func (f *fakeCollector) GetPullRequests(ctx context.Context, owner, repo string) ([]*domain.PullRequest, error) {
	d := f.data(owner, repo)
	return d.prs, d.prErr
}

func (f *fakeCollector) GetIssues(ctx context.Context, owner, repo string) ([]*domain.Issue, error) {
	d := f.data(owner, repo)
	return d.issues, d.issueErr
}

func (f *fakeCollector) GetDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	d := f.data(owner, repo)
	if d.branchErr != nil {
		return "", d.branchErr
	}
	if d.branch == "" {
		return "main", nil
	}
	return d.branch, nil
}

func (f *fakeCollector) GetCommits(ctx context.Context, owner, repo, branch string) ([]*domain.Commit, error) {
	d := f.data(owner, repo)
	return d.commits, d.commitErr
}
