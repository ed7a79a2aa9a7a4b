// Package ingest drives the contribution-ingestion pipeline: it resolves
// the repository set, classifies each repository's activity into
// achievement candidates, and records them idempotently in the store.
// Repeated runs against the same upstream state are no-ops.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/classifier"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/collector"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/store"
)

// Orchestrator runs the full ingestion pipeline
type Orchestrator struct {
	collector  collector.Collector
	classifier *classifier.Classifier
	registrar  *Registrar
	recorder   *Recorder
	resolver   *Resolver
	logger     *slog.Logger

	workers       int
	retryAttempts int
	retryDelay    time.Duration
}

// Option configures the orchestrator
type Option func(*Orchestrator)

// WithWorkers bounds the number of repositories processed concurrently.
// The default is 1: strictly sequential processing.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger replaces the default logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithRetry sets the attempt count and initial delay for transient
// upstream failures
func WithRetry(attempts int, delay time.Duration) Option {
	return func(o *Orchestrator) {
		if attempts > 0 {
			o.retryAttempts = attempts
		}
		if delay > 0 {
			o.retryDelay = delay
		}
	}
}

// NewOrchestrator creates a new ingestion orchestrator
func NewOrchestrator(coll collector.Collector, st store.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		collector:     coll,
		classifier:    classifier.New(),
		registrar:     NewRegistrar(st),
		recorder:      NewRecorder(st),
		logger:        slog.Default(),
		workers:       1,
		retryAttempts: 3,
		retryDelay:    time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.resolver = NewResolver(coll, o.logger)
	return o
}

// Run executes one full ingestion run over the configured targets. A
// failure in one repository never aborts the run; it is recorded in the
// summary and processing continues with the next repository. Cancellation
// is honored between repositories and between events, never in the middle
// of a classify-then-record step.
func (o *Orchestrator) Run(ctx context.Context, explicitRepos, organizations []string) (*Summary, error) {
	started := time.Now()

	repos, err := o.resolver.Resolve(ctx, explicitRepos, organizations)
	if err != nil {
		return nil, err
	}
	o.logger.Info("resolved repository set", slog.Int("count", len(repos)))

	summary := &Summary{
		ReposDiscovered: len(repos),
		Results:         make([]*RepoResult, len(repos)),
		StartedAt:       started,
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, o.workers)

	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			// Cooperative cancellation point: repositories not yet started
			// are reported as failed with the cancellation cause
			for j := i; j < len(repos); j++ {
				summary.Results[j] = &RepoResult{Repo: repos[j], Status: StatusFailed, Reason: err.Error()}
			}
			break
		}

		wg.Add(1)
		go func(index int, repo string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			summary.Results[index] = o.processRepository(ctx, repo)
		}(i, repo)
	}

	wg.Wait()
	summary.Duration = time.Since(started)

	o.logger.Info("ingestion run finished",
		slog.Int("discovered", summary.ReposDiscovered),
		slog.Int("succeeded", summary.Succeeded()),
		slog.Int("partial", summary.Partial()),
		slog.Int("failed", summary.Failed()),
		slog.Int("achievements_created", summary.AchievementsCreated()),
		slog.Duration("duration", summary.Duration))
	return summary, nil
}

// processRepository runs the per-repository sequence: pull requests, then
// issues, then commits on the default branch. Phase failures degrade the
// result instead of aborting the run.
func (o *Orchestrator) processRepository(ctx context.Context, repo string) *RepoResult {
	result := &RepoResult{Repo: repo, Status: StatusSucceeded}
	logger := o.logger.With(slog.String("repo", repo))

	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		result.Status = StatusFailed
		result.Reason = "invalid repository identifier, want owner/name"
		logger.Error("skipping repository", slog.String("reason", result.Reason))
		return result
	}

	logger.Info("processing repository")

	// Pull requests
	prs, err := withRetry(ctx, o.retryAttempts, o.retryDelay, func() ([]*domain.PullRequest, error) {
		return o.collector.GetPullRequests(ctx, owner, name)
	})
	if err != nil {
		result.Status = StatusFailed
		result.Reason = fmt.Sprintf("pull request listing failed: %v", err)
		logger.Error("repository processing aborted", slog.Any("error", err))
		return result
	}
	o.ensureAuthors(ctx, classifier.PullRequestAuthors(prs), result, logger)
	o.applyCandidates(ctx, o.classifier.ClassifyPullRequests(repo, prs), result, logger)

	// Issues
	issues, err := withRetry(ctx, o.retryAttempts, o.retryDelay, func() ([]*domain.Issue, error) {
		return o.collector.GetIssues(ctx, owner, name)
	})
	if err != nil {
		o.degrade(result, fmt.Sprintf("issue listing failed: %v", err))
		logger.Error("issue processing aborted", slog.Any("error", err))
		return result
	}
	o.ensureAuthors(ctx, classifier.IssueAuthors(issues), result, logger)
	o.applyCandidates(ctx, o.classifier.ClassifyIssues(repo, issues), result, logger)

	// Commits need the default branch first; if that lookup fails, commit
	// classification is skipped but the PR/issue work above stands
	branch, err := withRetry(ctx, o.retryAttempts, o.retryDelay, func() (string, error) {
		return o.collector.GetDefaultBranch(ctx, owner, name)
	})
	if err != nil {
		o.degrade(result, fmt.Sprintf("default branch lookup failed: %v", err))
		logger.Warn("skipping commit classification", slog.Any("error", err))
		return result
	}

	commits, err := withRetry(ctx, o.retryAttempts, o.retryDelay, func() ([]*domain.Commit, error) {
		return o.collector.GetCommits(ctx, owner, name, branch)
	})
	if err != nil {
		o.degrade(result, fmt.Sprintf("commit listing failed: %v", err))
		logger.Warn("skipping commit classification", slog.Any("error", err))
		return result
	}
	o.ensureAuthors(ctx, classifier.CommitAuthors(commits), result, logger)
	o.applyCandidates(ctx, o.classifier.ClassifyCommits(repo, commits), result, logger)

	logger.Info("repository done",
		slog.Int("candidates", result.Candidates),
		slog.Int("created", result.AchievementsCreated),
		slog.Int("existing", result.AchievementsExisting))
	return result
}

// ensureAuthors registers every author observed on the phase's events.
// Contributor presence does not depend on an achievement being produced:
// an authored event that classifies to nothing still registers its author.
func (o *Orchestrator) ensureAuthors(ctx context.Context, authors []classifier.Identity, result *RepoResult, logger *slog.Logger) {
	for _, author := range authors {
		if ctx.Err() != nil {
			return
		}
		if _, err := o.registrar.Ensure(ctx, author.Username, author.AvatarURL); err != nil {
			o.degrade(result, fmt.Sprintf("contributor %s: %v", author.Username, err))
			logger.Warn("failed to ensure contributor",
				slog.String("username", author.Username),
				slog.Any("error", err))
		}
	}
}

// applyCandidates registers each candidate's contributor and records the
// achievement. A failure affects only that event; the rest of the batch
// still lands.
func (o *Orchestrator) applyCandidates(ctx context.Context, candidates []*domain.AchievementCandidate, result *RepoResult, logger *slog.Logger) {
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			o.degrade(result, err.Error())
			return
		}
		result.Candidates++

		contributor, err := o.registrar.Ensure(ctx, candidate.Username, candidate.AvatarURL)
		if err != nil {
			result.EventsFailed++
			o.degrade(result, fmt.Sprintf("contributor %s: %v", candidate.Username, err))
			logger.Warn("failed to ensure contributor",
				slog.String("username", candidate.Username),
				slog.Any("error", err))
			continue
		}

		achievement, created, err := o.recorder.Record(ctx, contributor, candidate)
		if err != nil {
			result.EventsFailed++
			o.degrade(result, fmt.Sprintf("achievement %s: %v", candidate.SourceURL, err))
			logger.Warn("failed to record achievement",
				slog.String("source_url", candidate.SourceURL),
				slog.Any("error", err))
			continue
		}

		if created {
			result.AchievementsCreated++
			logger.Info("achievement recorded",
				slog.String("username", candidate.Username),
				slog.String("kind", string(candidate.Kind)),
				slog.String("source_url", achievement.SourceURL))
		} else {
			result.AchievementsExisting++
		}
	}
}

// degrade downgrades a repository result to partial, keeping the first
// reason. A repository that produced nothing stays failed.
func (o *Orchestrator) degrade(result *RepoResult, reason string) {
	if result.Status == StatusSucceeded {
		result.Status = StatusPartial
	}
	if result.Reason == "" {
		result.Reason = reason
	}
}
