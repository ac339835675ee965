package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/profile"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			user_id, name, email, age, height_cm, weight_kg,
			blood_group, join_date, reminder_enabled, dark_mode, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)

	var p profile.Profile
	if err := row.Scan(
		&p.UserID,
		&p.Name,
		&p.Email,
		&p.Age,
		&p.HeightCM,
		&p.WeightKG,
		&p.BloodGroup,
		&p.JoinDate,
		&p.Preferences.ReminderEnabled,
		&p.Preferences.DarkMode,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profile.Profile{}, apperr.NotFound("profile", userID)
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *ProfilesRepo) Upsert(ctx context.Context, p profile.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, name, email, age, height_cm, weight_kg,
			blood_group, join_date, reminder_enabled, dark_mode, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			blood_group = EXCLUDED.blood_group,
			join_date = EXCLUDED.join_date,
			reminder_enabled = EXCLUDED.reminder_enabled,
			dark_mode = EXCLUDED.dark_mode,
			updated_at = EXCLUDED.updated_at
	`,
		p.UserID,
		p.Name,
		p.Email,
		p.Age,
		p.HeightCM,
		p.WeightKG,
		p.BloodGroup,
		p.JoinDate,
		p.Preferences.ReminderEnabled,
		p.Preferences.DarkMode,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
