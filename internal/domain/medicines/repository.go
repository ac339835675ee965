package medicines

import "context"

// Repository es dueño de la colección; los repos devuelven copias.
// Si la medicina no existe o es de otro usuario => apperr.NotFound.
type Repository interface {
	Create(ctx context.Context, m Medicine) error
	Update(ctx context.Context, m Medicine) error
	Delete(ctx context.Context, ownerUserID, id string) error
	GetByID(ctx context.Context, ownerUserID, id string) (Medicine, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medicine, error)

	// ListOwners lo usa el job de recordatorios.
	ListOwners(ctx context.Context) ([]string, error)
}
