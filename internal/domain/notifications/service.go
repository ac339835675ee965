package notifications

import (
	"context"
	"sort"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/schedule"

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

type AddInput struct {
	Type    Type
	Title   string
	Message string
	Dose    *schedule.DoseKey
}

func (s *Service) Add(ctx context.Context, userID string, in AddInput) (Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Notification{}, apperr.Validation("user_id", "required")
	}
	if !in.Type.Valid() {
		return Notification{}, apperr.Validation("type", "must be reminder, appointment or refill")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Notification{}, apperr.Validation("title", "required")
	}

	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      in.Type,
		Title:     title,
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: s.now(),
	}
	if in.Dose != nil {
		d := *in.Dose
		n.Dose = &d
	}

	if err := s.repo.Add(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// List: más nuevas primero.
func (s *Service) List(ctx context.Context, userID string) ([]Notification, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) (Notification, error) {
	n, err := s.find(ctx, userID, id)
	if err != nil {
		return Notification{}, err
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.repo.Update(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// MarkAllRead devuelve cuántas pasaron a leídas.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(userID))
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, n := range items {
		if n.Read {
			continue
		}
		n.Read = true
		if err := s.repo.Update(ctx, n); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func (s *Service) Dismiss(ctx context.Context, userID, id string) error {
	userID, id = strings.TrimSpace(userID), strings.TrimSpace(id)
	if userID == "" || id == "" {
		return apperr.NotFound("notification", id)
	}
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(userID))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n, nil
}

// HasReminder indica si ya existe un recordatorio para esa toma.
func (s *Service) HasReminder(ctx context.Context, userID string, key schedule.DoseKey) (bool, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(userID))
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.Type == TypeReminder && it.Dose != nil && *it.Dose == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) find(ctx context.Context, userID, id string) (Notification, error) {
	userID, id = strings.TrimSpace(userID), strings.TrimSpace(id)
	if userID == "" || id == "" {
		return Notification{}, apperr.NotFound("notification", id)
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Notification{}, err
	}
	for _, n := range items {
		if n.ID == id {
			return n, nil
		}
	}
	return Notification{}, apperr.NotFound("notification", id)
}
