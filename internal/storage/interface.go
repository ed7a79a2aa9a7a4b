package storage

import (
	"context"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
)

// Storage is the abstract interface for the persistence layer behind the
// record API. Implementations must guarantee at-most-one record per unique
// key (contributor username, achievement source URL) under concurrent
// creation attempts.
type Storage interface {
	// Contributor operations
	CreateContributor(ctx context.Context, contributor *domain.Contributor) error
	GetContributorByUsername(ctx context.Context, username string) (*domain.Contributor, error)
	ListContributors(ctx context.Context) ([]*domain.ContributorSummary, error)

	// Achievement operations
	CreateAchievement(ctx context.Context, achievement *domain.Achievement) error
	GetAchievementBySourceURL(ctx context.Context, sourceURL string) (*domain.Achievement, error)
	GetAchievementsByContributor(ctx context.Context, contributorID string) ([]*domain.Achievement, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
