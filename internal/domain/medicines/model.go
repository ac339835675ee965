package medicines

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/platform/civil"
)

// Type define las presentaciones soportadas.
// @Enum tablet, capsule, liquid, injection, topical, other
type Type string

const (
	TypeTablet    Type = "tablet"
	TypeCapsule   Type = "capsule"
	TypeLiquid    Type = "liquid"
	TypeInjection Type = "injection"
	TypeTopical   Type = "topical"
	TypeOther     Type = "other"
)

// ParseType normaliza a minúsculas; cualquier valor desconocido cae en "other".
func ParseType(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeTablet, TypeCapsule, TypeLiquid, TypeInjection, TypeTopical:
		return t
	case "syrup":
		return TypeLiquid
	default:
		return TypeOther
	}
}

// Weekday usa la abreviatura de 3 letras ("Mon").
type Weekday string

const (
	Sun Weekday = "Sun"
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
	Sat Weekday = "Sat"
)

var weekdays = [7]Weekday{Sun, Mon, Tue, Wed, Thu, Fri, Sat}

func WeekdayOf(d time.Weekday) Weekday { return weekdays[d] }

// ParseWeekday acepta "mon", "Mon", "MONDAY"...
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return "", false
	}
	for i, w := range weekdays {
		full := strings.ToLower(time.Weekday(i).String())
		if s == strings.ToLower(string(w)) || s == full {
			return w, true
		}
	}
	return "", false
}

// Frequency es la categoría que usa el filtro del listado.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyOther  Frequency = "other"
)

// Medicine es una medicación con horario recurrente.
// StartDate/EndDate se guardan como YYYY-MM-DD; EndDate vacío = sin fin.
type Medicine struct {
	ID          string
	OwnerUserID string

	Name   string
	Type   Type
	Color  string
	Dosage string

	StartDate string
	EndDate   string

	TimeSlots []string  // "HH:MM", únicos
	Days      []Weekday // subconjunto de Sun..Sat

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Medicine) HasTimeSlot(slot string) bool {
	for _, s := range m.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// HasDay compara sin distinguir mayúsculas (datos viejos traen "mon").
func (m Medicine) HasDay(w Weekday) bool {
	for _, d := range m.Days {
		if strings.EqualFold(string(d), string(w)) {
			return true
		}
	}
	return false
}

func (m Medicine) Frequency() Frequency {
	seen := map[Weekday]struct{}{}
	for _, d := range m.Days {
		if w, ok := ParseWeekday(string(d)); ok {
			seen[w] = struct{}{}
		}
	}
	switch n := len(seen); {
	case n == 7:
		return FrequencyDaily
	case n > 0:
		return FrequencyWeekly
	default:
		return FrequencyOther
	}
}

// ActiveRange parsea el rango; end es cero si la medicina no tiene fin.
func (m Medicine) ActiveRange() (start, end civil.Date, err error) {
	start, err = civil.Parse(m.StartDate)
	if err != nil {
		return civil.Date{}, civil.Date{}, apperr.Validation("start_date", "must be YYYY-MM-DD")
	}
	if strings.TrimSpace(m.EndDate) == "" {
		return start, civil.Date{}, nil
	}
	end, err = civil.Parse(m.EndDate)
	if err != nil {
		return civil.Date{}, civil.Date{}, apperr.Validation("end_date", "must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return civil.Date{}, civil.Date{}, apperr.Validation("end_date", "must not be before start_date")
	}
	return start, end, nil
}

// Validate revisa los invariantes de Medicine. Devuelve *apperr.ValidationError.
func (m Medicine) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return apperr.Validation("id", "required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return apperr.Validation("name", "required")
	}
	return m.ValidateSchedule()
}

// ValidateSchedule revisa solo lo que define cuándo toca una dosis:
// horarios, días y rango de fechas.
func (m Medicine) ValidateSchedule() error {
	if len(m.TimeSlots) == 0 {
		return apperr.Validation("time_slots", "at least one time slot required")
	}
	seen := map[string]struct{}{}
	for _, s := range m.TimeSlots {
		if !reTimeSlot.MatchString(s) {
			return apperr.Validation("time_slots", fmt.Sprintf("%q must be HH:MM", s))
		}
		if _, dup := seen[s]; dup {
			return apperr.Validation("time_slots", fmt.Sprintf("%q is duplicated", s))
		}
		seen[s] = struct{}{}
	}
	if len(m.Days) == 0 {
		return apperr.Validation("days", "at least one day required")
	}
	for _, d := range m.Days {
		if _, ok := ParseWeekday(string(d)); !ok {
			return apperr.Validation("days", fmt.Sprintf("%q is not a weekday", d))
		}
	}
	_, _, err := m.ActiveRange()
	return err
}

var (
	reTimeSlot  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	reLooseSlot = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// NormalizeTimeSlot acepta "8:00" y devuelve "08:00".
func NormalizeTimeSlot(s string) (string, error) {
	s = strings.TrimSpace(s)
	m := reLooseSlot.FindStringSubmatch(s)
	if m == nil {
		return "", apperr.Validation("time_slots", fmt.Sprintf("%q must be HH:MM", s))
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return "", apperr.Validation("time_slots", fmt.Sprintf("%q is not a valid time", s))
	}
	return fmt.Sprintf("%02d:%02d", h, mm), nil
}
