package profile

import (
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
)

type Preferences struct {
	ReminderEnabled bool
	DarkMode        bool
}

// Profile es 1:1 con el usuario. Campos numéricos en 0 = no informado.
type Profile struct {
	UserID string

	Name       string
	Email      string
	Age        int
	HeightCM   float64
	WeightKG   float64
	BloodGroup string
	JoinDate   string // YYYY-MM-DD

	Preferences Preferences

	UpdatedAt time.Time
}

var bloodGroups = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {}, "AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

// Default es el perfil que se devuelve antes del primer guardado.
func Default(userID string, now time.Time) Profile {
	return Profile{
		UserID:      userID,
		JoinDate:    now.Format("2006-01-02"),
		Preferences: Preferences{ReminderEnabled: true},
	}
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return apperr.Validation("user_id", "required")
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return apperr.Validation("email", "must contain @")
	}
	if p.Age < 0 || p.Age > 150 {
		return apperr.Validation("age", "must be between 0 and 150")
	}
	if p.HeightCM < 0 {
		return apperr.Validation("height_cm", "must not be negative")
	}
	if p.WeightKG < 0 {
		return apperr.Validation("weight_kg", "must not be negative")
	}
	if p.BloodGroup != "" {
		if _, ok := bloodGroups[p.BloodGroup]; !ok {
			return apperr.Validation("blood_group", "unknown blood group "+p.BloodGroup)
		}
	}
	return nil
}
