package profile

import "context"

type Repository interface {
	// Get devuelve apperr.NotFound si el usuario nunca guardó su perfil.
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, p Profile) error
}
