package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/medicines"
)

type medicineRepo struct {
	mu   sync.RWMutex
	byID map[string]medicines.Medicine
}

func NewMedicinesRepo() medicines.Repository {
	return &medicineRepo{
		byID: make(map[string]medicines.Medicine),
	}
}

func (r *medicineRepo) Create(ctx context.Context, m medicines.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("medicine id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medicine already exists")
	}
	r.byID[m.ID] = cloneMedicine(m)
	return nil
}

func (r *medicineRepo) Update(ctx context.Context, m medicines.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[m.ID]
	if !ok || cur.OwnerUserID != m.OwnerUserID {
		return apperr.NotFound("medicine", m.ID)
	}
	r.byID[m.ID] = cloneMedicine(m)
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok || cur.OwnerUserID != ownerUserID {
		return apperr.NotFound("medicine", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *medicineRepo) GetByID(ctx context.Context, ownerUserID, id string) (medicines.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok || m.OwnerUserID != ownerUserID {
		return medicines.Medicine{}, apperr.NotFound("medicine", id)
	}
	return cloneMedicine(m), nil
}

// ListByOwner ordena por CreatedAt para que el snapshot sea determinista.
func (r *medicineRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medicines.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medicines.Medicine, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, cloneMedicine(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *medicineRepo) ListOwners(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, m := range r.byID {
		if _, ok := seen[m.OwnerUserID]; ok {
			continue
		}
		seen[m.OwnerUserID] = struct{}{}
		out = append(out, m.OwnerUserID)
	}
	sort.Strings(out)
	return out, nil
}

// cloneMedicine copia los slices: el caller no debe poder mutar el store.
func cloneMedicine(m medicines.Medicine) medicines.Medicine {
	m.TimeSlots = append([]string(nil), m.TimeSlots...)
	m.Days = append([]medicines.Weekday(nil), m.Days...)
	return m
}
