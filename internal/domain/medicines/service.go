package medicines

import (
	"context"
	"sort"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Type      string
	Color     string
	Dosage    string
	StartDate string
	EndDate   string
	TimeSlots []string
	Days      []string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medicine, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Medicine{}, apperr.Validation("owner_user_id", "required")
	}

	slots, err := normalizeTimeSlots(in.TimeSlots)
	if err != nil {
		return Medicine{}, err
	}
	days, err := normalizeDays(in.Days)
	if err != nil {
		return Medicine{}, err
	}

	now := s.now()
	m := Medicine{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Type:        ParseType(in.Type),
		Color:       strings.TrimSpace(in.Color),
		Dosage:      strings.TrimSpace(in.Dosage),
		StartDate:   strings.TrimSpace(in.StartDate),
		EndDate:     strings.TrimSpace(in.EndDate),
		TimeSlots:   slots,
		Days:        days,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.Validate(); err != nil {
		return Medicine{}, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
// EndDate con "" limpia la fecha fin (medicina sin fin).
type UpdateInput struct {
	Name      *string
	Type      *string
	Color     *string
	Dosage    *string
	StartDate *string
	EndDate   *string
	TimeSlots *[]string
	Days      *[]string
	Notes     *string
}

func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (Medicine, error) {
	m, err := s.GetByID(ctx, ownerUserID, id)
	if err != nil {
		return Medicine{}, err
	}

	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		m.Type = ParseType(*in.Type)
	}
	if in.Color != nil {
		m.Color = strings.TrimSpace(*in.Color)
	}
	if in.Dosage != nil {
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.StartDate != nil {
		m.StartDate = strings.TrimSpace(*in.StartDate)
	}
	if in.EndDate != nil {
		m.EndDate = strings.TrimSpace(*in.EndDate)
	}
	if in.TimeSlots != nil {
		if m.TimeSlots, err = normalizeTimeSlots(*in.TimeSlots); err != nil {
			return Medicine{}, err
		}
	}
	if in.Days != nil {
		if m.Days, err = normalizeDays(*in.Days); err != nil {
			return Medicine{}, err
		}
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := m.Validate(); err != nil {
		return Medicine{}, err
	}
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

// Delete no borra los registros de toma: quedan huérfanos y los cálculos los ignoran.
func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	ownerUserID, id = strings.TrimSpace(ownerUserID), strings.TrimSpace(id)
	if ownerUserID == "" || id == "" {
		return apperr.NotFound("medicine", id)
	}
	return s.repo.Delete(ctx, ownerUserID, id)
}

func (s *Service) GetByID(ctx context.Context, ownerUserID, id string) (Medicine, error) {
	ownerUserID, id = strings.TrimSpace(ownerUserID), strings.TrimSpace(id)
	if ownerUserID == "" || id == "" {
		return Medicine{}, apperr.NotFound("medicine", id)
	}
	return s.repo.GetByID(ctx, ownerUserID, id)
}

type ListFilter struct {
	Query     string    // substring en nombre o tipo
	Frequency Frequency // vacío = todas
}

// List ordena por nombre (case-insensitive) para que el listado sea estable.
func (s *Service) List(ctx context.Context, ownerUserID string, filter ListFilter) ([]Medicine, error) {
	items, err := s.repo.ListByOwner(ctx, strings.TrimSpace(ownerUserID))
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]Medicine, 0, len(items))
	for _, m := range items {
		if q != "" &&
			!strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(string(m.Type)), q) {
			continue
		}
		if filter.Frequency != "" && m.Frequency() != filter.Frequency {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Snapshot devuelve la colección tal cual está guardada (sin filtros).
func (s *Service) Snapshot(ctx context.Context, ownerUserID string) ([]Medicine, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerUserID))
}

// TypeSummary cuenta medicinas por tipo (resumen del perfil).
func (s *Service) TypeSummary(ctx context.Context, ownerUserID string) (map[Type]int, error) {
	items, err := s.Snapshot(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	out := map[Type]int{}
	for _, m := range items {
		out[ParseType(string(m.Type))]++
	}
	return out, nil
}

func normalizeTimeSlots(in []string) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, raw := range in {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		slot, err := NormalizeTimeSlot(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	sort.Strings(out)
	return out, nil
}

func normalizeDays(in []string) ([]Weekday, error) {
	seen := map[Weekday]struct{}{}
	for _, raw := range in {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		w, ok := ParseWeekday(raw)
		if !ok {
			return nil, apperr.Validation("days", "unknown weekday "+strings.TrimSpace(raw))
		}
		seen[w] = struct{}{}
	}

	out := make([]Weekday, 0, len(seen))
	for _, w := range weekdays {
		if _, ok := seen[w]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}
