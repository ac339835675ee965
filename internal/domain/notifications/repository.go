package notifications

import "context"

type Repository interface {
	Add(ctx context.Context, n Notification) error
	List(ctx context.Context, userID string) ([]Notification, error)

	// Update y Delete devuelven apperr.NotFound si no existe o es de otro usuario.
	Update(ctx context.Context, n Notification) error
	Delete(ctx context.Context, userID, id string) error
}
