package schedule

import "context"

// TakenRepository guarda el log de tomas por usuario.
type TakenRepository interface {
	List(ctx context.Context, ownerUserID string, r DateRange) ([]TakenRecord, error)

	// Set es upsert idempotente: si ya existe la clave devuelve el registro original.
	Set(ctx context.Context, ownerUserID string, rec TakenRecord) (TakenRecord, error)

	// Delete no falla si la clave no existe.
	Delete(ctx context.Context, ownerUserID string, key DoseKey) error
}
