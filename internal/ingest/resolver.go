package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/collector"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
)

// Resolver expands the configured repositories and organizations into the
// deduplicated, sorted set of repositories to ingest
type Resolver struct {
	collector collector.Collector
	logger    *slog.Logger
}

// NewResolver creates a new repository set resolver
func NewResolver(coll collector.Collector, logger *slog.Logger) *Resolver {
	return &Resolver{
		collector: coll,
		logger:    logger,
	}
}

// Resolve unions the explicit repositories with each organization's public
// repositories. A failure expanding one organization is logged and skipped;
// the remaining organizations still contribute. The result is deduplicated
// and sorted so processing order is deterministic.
func (r *Resolver) Resolve(ctx context.Context, explicit, organizations []string) ([]string, error) {
	repos := make([]string, 0, len(explicit))
	repos = append(repos, explicit...)

	for _, org := range organizations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		orgRepos, err := r.collector.GetOrgRepositories(ctx, org)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			r.logger.Warn("failed to fetch repositories for organization, skipping",
				slog.String("org", org),
				slog.Any("error", err))
			continue
		}

		r.logger.Info("resolved organization repositories",
			slog.String("org", org),
			slog.Int("count", len(orgRepos)))
		repos = append(repos, orgRepos...)
	}

	return domain.DedupeRepositories(repos), nil
}
