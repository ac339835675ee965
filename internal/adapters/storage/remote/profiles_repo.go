package remote

import (
	"context"
	"net/http"
	"time"

	"meditrack/internal/domain/profile"
)

type profileDTO struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Age        int     `json:"age"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
	BloodGroup string  `json:"bloodGroup"`
	JoinDate   string  `json:"joinDate"`

	Preferences struct {
		ReminderEnabled bool `json:"reminderEnabled"`
		DarkMode        bool `json:"darkMode"`
	} `json:"preferences"`

	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfilesRepo struct {
	c *client
}

func NewProfilesRepo(cfg Config) (*ProfilesRepo, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ProfilesRepo{c: c}, nil
}

func (r *ProfilesRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	var dto profileDTO
	if err := r.c.do(ctx, http.MethodGet, "/users/profile", userID, nil, &dto); err != nil {
		return profile.Profile{}, notFound(err, "profile", userID)
	}
	return profile.Profile{
		UserID:     userID,
		Name:       dto.Name,
		Email:      dto.Email,
		Age:        dto.Age,
		HeightCM:   dto.Height,
		WeightKG:   dto.Weight,
		BloodGroup: dto.BloodGroup,
		JoinDate:   dto.JoinDate,
		Preferences: profile.Preferences{
			ReminderEnabled: dto.Preferences.ReminderEnabled,
			DarkMode:        dto.Preferences.DarkMode,
		},
		UpdatedAt: dto.UpdatedAt,
	}, nil
}

func (r *ProfilesRepo) Upsert(ctx context.Context, p profile.Profile) error {
	dto := profileDTO{
		Name:       p.Name,
		Email:      p.Email,
		Age:        p.Age,
		Height:     p.HeightCM,
		Weight:     p.WeightKG,
		BloodGroup: p.BloodGroup,
		JoinDate:   p.JoinDate,
		UpdatedAt:  p.UpdatedAt,
	}
	dto.Preferences.ReminderEnabled = p.Preferences.ReminderEnabled
	dto.Preferences.DarkMode = p.Preferences.DarkMode
	return r.c.do(ctx, http.MethodPut, "/users/profile", p.UserID, dto, nil)
}
