// Package store defines the abstract record-store interface consumed by the
// ingestion pipeline. The canonical backing implementation is the HTTP
// record API client in pkg/client.
package store

import (
	"context"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
)

// Store is the persistence boundary for contributors and achievements.
// Uniqueness of contributor usernames and achievement source URLs is
// guaranteed by the store itself, which makes concurrent creation attempts
// safe: the loser of a race observes a conflict and re-fetches.
type Store interface {
	// FindContributor looks up a contributor by username. Absence is
	// reported as a not-found error.
	FindContributor(ctx context.Context, username string) (*domain.Contributor, error)

	// CreateContributor creates a contributor. A duplicate username is
	// reported as a conflict error; the caller treats that as "already
	// exists" and re-fetches.
	CreateContributor(ctx context.Context, username, avatarURL string) (*domain.Contributor, error)

	// FindAchievementBySourceURL looks up an achievement by its source
	// contribution URL. Absence is reported as a not-found error.
	FindAchievementBySourceURL(ctx context.Context, sourceURL string) (*domain.Achievement, error)

	// CreateAchievement records an achievement for the contributor. When an
	// achievement with the same source URL already exists, the existing
	// record is returned unchanged.
	CreateAchievement(ctx context.Context, contributor *domain.Contributor, candidate *domain.AchievementCandidate) (*domain.Achievement, error)
}
