package memory

import (
	"context"
	"sync"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/profile"
)

type profileRepo struct {
	mu     sync.RWMutex
	byUser map[string]profile.Profile
}

func NewProfilesRepo() profile.Repository {
	return &profileRepo{
		byUser: make(map[string]profile.Profile),
	}
}

func (r *profileRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return profile.Profile{}, apperr.NotFound("profile", userID)
	}
	return p, nil
}

func (r *profileRepo) Upsert(ctx context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[p.UserID] = p
	return nil
}
