package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
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

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, apperr.Validation("user_id", "required")
	}

	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return Default(userID, s.now()), nil
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Name       *string
	Email      *string
	Age        *int
	HeightCM   *float64
	WeightKG   *float64
	BloodGroup *string

	ReminderEnabled *bool
	DarkMode        *bool
}

func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.HeightCM != nil {
		p.HeightCM = *in.HeightCM
	}
	if in.WeightKG != nil {
		p.WeightKG = *in.WeightKG
	}
	if in.BloodGroup != nil {
		p.BloodGroup = strings.ToUpper(strings.TrimSpace(*in.BloodGroup))
	}
	if in.ReminderEnabled != nil {
		p.Preferences.ReminderEnabled = *in.ReminderEnabled
	}
	if in.DarkMode != nil {
		p.Preferences.DarkMode = *in.DarkMode
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// RemindersEnabled lo consulta el job de recordatorios.
func (s *Service) RemindersEnabled(ctx context.Context, userID string) (bool, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.Preferences.ReminderEnabled, nil
}
