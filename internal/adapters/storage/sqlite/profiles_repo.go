package sqlite

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
	var (
		p         profile.Profile
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, name, email, age, height_cm, weight_kg, blood_group, join_date, reminder_enabled, dark_mode, updated_at
		 FROM profiles WHERE user_id=?`, userID,
	).Scan(&p.UserID, &p.Name, &p.Email, &p.Age, &p.HeightCM, &p.WeightKG, &p.BloodGroup, &p.JoinDate,
		&p.Preferences.ReminderEnabled, &p.Preferences.DarkMode, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, apperr.NotFound("profile", userID)
	}
	if err != nil {
		return profile.Profile{}, err
	}
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func (r *ProfilesRepo) Upsert(ctx context.Context, p profile.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles(user_id, name, email, age, height_cm, weight_kg, blood_group, join_date, reminder_enabled, dark_mode, updated_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, age=excluded.age,
		   height_cm=excluded.height_cm, weight_kg=excluded.weight_kg,
		   blood_group=excluded.blood_group, join_date=excluded.join_date,
		   reminder_enabled=excluded.reminder_enabled, dark_mode=excluded.dark_mode,
		   updated_at=excluded.updated_at`,
		p.UserID, p.Name, p.Email, p.Age, p.HeightCM, p.WeightKG, p.BloodGroup, p.JoinDate,
		p.Preferences.ReminderEnabled, p.Preferences.DarkMode, formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
