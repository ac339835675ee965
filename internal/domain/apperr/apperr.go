// Package apperr clasifica los errores de dominio que ven los callers
// (handlers HTTP, reminders). Cada tipo matchea su sentinel con errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInconsistentState = errors.New("inconsistent state")
)

// ValidationError: campos de entrada mal formados (days vacío, end_date < start_date, ...).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError: la operación referencia una entidad que no existe (o no es del usuario).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InconsistentStateError: un registro de toma apunta a un horario que la medicina no tiene.
type InconsistentStateError struct {
	MedicineID string
	TimeSlot   string
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("time slot %s is not scheduled for medicine %s", e.TimeSlot, e.MedicineID)
}

func (e *InconsistentStateError) Is(target error) bool { return target == ErrInconsistentState }

func InconsistentState(medicineID, timeSlot string) error {
	return &InconsistentStateError{MedicineID: medicineID, TimeSlot: timeSlot}
}

// HTTPStatus traduce el tipo de error a status HTTP.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInconsistentState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage evita filtrar errores internos (driver, red) al cliente.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
