package ingest

import (
	"context"
	"sync"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/store"
)

// Registrar idempotently ensures a contributor exists in the store before
// any achievement referencing them is recorded. Contributors are never
// updated after creation; an already-registered username is returned as is,
// avatar drift included.
type Registrar struct {
	store store.Store

	mu    sync.Mutex
	cache map[string]*domain.Contributor
}

// NewRegistrar creates a new contributor registrar
func NewRegistrar(st store.Store) *Registrar {
	return &Registrar{
		store: st,
		cache: make(map[string]*domain.Contributor),
	}
}

// Ensure returns the contributor for username, creating the record if it
// does not exist. A creation conflict means another writer got there first;
// the existing record is fetched and returned.
func (r *Registrar) Ensure(ctx context.Context, username, avatarURL string) (*domain.Contributor, error) {
	r.mu.Lock()
	if c, ok := r.cache[username]; ok {
		r.mu.Unlock()
		return c, nil
	}
	r.mu.Unlock()

	contributor, err := r.store.FindContributor(ctx, username)
	if apperrors.IsNotFound(err) {
		contributor, err = r.store.CreateContributor(ctx, username, avatarURL)
		if apperrors.IsConflict(err) {
			contributor, err = r.store.FindContributor(ctx, username)
		}
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[username] = contributor
	r.mu.Unlock()
	return contributor, nil
}
