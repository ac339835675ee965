package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/medicines"
)

type medicineDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	Dosage    string    `json:"dosage"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	TimeSlots []string  `json:"timeSlots"`
	Days      []string  `json:"days"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MedicinesRepo struct {
	c      *client
	owners []string
}

func NewMedicinesRepo(cfg Config) (*MedicinesRepo, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &MedicinesRepo{c: c, owners: append([]string(nil), cfg.Owners...)}, nil
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	return r.c.do(ctx, http.MethodPost, "/medicines", m.OwnerUserID, toDTO(m), nil)
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	err := r.c.do(ctx, http.MethodPut, "/medicines/"+url.PathEscape(m.ID), m.OwnerUserID, toDTO(m), nil)
	return notFound(err, "medicine", m.ID)
}

func (r *MedicinesRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	err := r.c.do(ctx, http.MethodDelete, "/medicines/"+url.PathEscape(id), ownerUserID, nil, nil)
	return notFound(err, "medicine", id)
}

func (r *MedicinesRepo) GetByID(ctx context.Context, ownerUserID, id string) (medicines.Medicine, error) {
	if strings.TrimSpace(id) == "" {
		return medicines.Medicine{}, apperr.NotFound("medicine", id)
	}
	var dto medicineDTO
	if err := r.c.do(ctx, http.MethodGet, "/medicines/"+url.PathEscape(id), ownerUserID, nil, &dto); err != nil {
		return medicines.Medicine{}, notFound(err, "medicine", id)
	}
	return fromDTO(dto, ownerUserID), nil
}

func (r *MedicinesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medicines.Medicine, error) {
	var dtos []medicineDTO
	if err := r.c.do(ctx, http.MethodGet, "/medicines", ownerUserID, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]medicines.Medicine, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, fromDTO(d, ownerUserID))
	}
	return out, nil
}

func (r *MedicinesRepo) ListOwners(ctx context.Context) ([]string, error) {
	return append([]string(nil), r.owners...), nil
}

func toDTO(m medicines.Medicine) medicineDTO {
	days := make([]string, 0, len(m.Days))
	for _, d := range m.Days {
		days = append(days, strings.ToLower(string(d)))
	}
	slots := m.TimeSlots
	if slots == nil {
		slots = []string{}
	}
	return medicineDTO{
		ID:        m.ID,
		Name:      m.Name,
		Type:      string(m.Type),
		Color:     m.Color,
		Dosage:    m.Dosage,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		TimeSlots: slots,
		Days:      days,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// fromDTO normaliza lo que se puede; lo inválido queda tal cual y el engine lo descarta.
func fromDTO(d medicineDTO, ownerUserID string) medicines.Medicine {
	days := make([]medicines.Weekday, 0, len(d.Days))
	for _, raw := range d.Days {
		if w, ok := medicines.ParseWeekday(raw); ok {
			days = append(days, w)
			continue
		}
		days = append(days, medicines.Weekday(raw))
	}
	slots := make([]string, 0, len(d.TimeSlots))
	for _, raw := range d.TimeSlots {
		if s, err := medicines.NormalizeTimeSlot(raw); err == nil {
			slots = append(slots, s)
			continue
		}
		slots = append(slots, raw)
	}
	return medicines.Medicine{
		ID:          d.ID,
		OwnerUserID: ownerUserID,
		Name:        d.Name,
		Type:        medicines.ParseType(d.Type),
		Color:       d.Color,
		Dosage:      d.Dosage,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		TimeSlots:   slots,
		Days:        days,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
