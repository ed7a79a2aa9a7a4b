package ingest

import (
	"context"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/store"
)

// Recorder idempotently records achievement candidates. The source
// contribution URL is the sole deduplication key: an achievement already
// recorded for a URL is returned unchanged, whatever upstream says now.
type Recorder struct {
	store store.Store
}

// NewRecorder creates a new achievement recorder
func NewRecorder(st store.Store) *Recorder {
	return &Recorder{store: st}
}

// Record persists the candidate for the contributor. It reports whether a
// new achievement was created; false means the candidate was already
// recorded and the run is a no-op for it.
func (r *Recorder) Record(ctx context.Context, contributor *domain.Contributor, candidate *domain.AchievementCandidate) (*domain.Achievement, bool, error) {
	existing, err := r.store.FindAchievementBySourceURL(ctx, candidate.SourceURL)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, false, err
	}

	achievement, err := r.store.CreateAchievement(ctx, contributor, candidate)
	if apperrors.IsConflict(err) {
		// Another writer recorded the same URL first
		existing, ferr := r.store.FindAchievementBySourceURL(ctx, candidate.SourceURL)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return achievement, true, nil
}
