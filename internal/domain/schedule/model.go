package schedule

import (
	"time"

	"meditrack/internal/domain/medicines"
	"meditrack/internal/platform/civil"
)

// DoseKey identifica una toma programada; hay como máximo un TakenRecord por clave.
type DoseKey struct {
	MedicineID string
	Date       civil.Date
	TimeSlot   string
}

type TakenRecord struct {
	MedicineID string
	Date       civil.Date
	TimeSlot   string
	TakenAt    time.Time
}

func (r TakenRecord) Key() DoseKey {
	return DoseKey{MedicineID: r.MedicineID, Date: r.Date, TimeSlot: r.TimeSlot}
}

// DateRange es inclusivo en ambos extremos; un extremo cero = sin límite.
type DateRange struct {
	From civil.Date
	To   civil.Date
}

func (r DateRange) Contains(d civil.Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

type Entry struct {
	Medicine medicines.Medicine
	TimeSlot string
	Taken    bool
	TakenAt  *time.Time
}

type SlotGroup struct {
	TimeSlot string
	Entries  []Entry
}

// DailySchedule se deriva, no se guarda. Grupos ordenados por TimeSlot ascendente.
type DailySchedule struct {
	Date   civil.Date
	Groups []SlotGroup
}

// Entries aplana los grupos manteniendo el orden.
func (ds DailySchedule) Entries() []Entry {
	out := make([]Entry, 0)
	for _, g := range ds.Groups {
		out = append(out, g.Entries...)
	}
	return out
}

type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs_improvement"
)

func RatingFor(rate int) Rating {
	switch {
	case rate >= 90:
		return RatingExcellent
	case rate >= 70:
		return RatingGood
	default:
		return RatingNeedsImprovement
	}
}

type AdherenceSummary struct {
	WindowStart   civil.Date
	WindowEnd     civil.Date
	ReferenceDate civil.Date

	AdherenceRate   int
	ActiveMedicines int

	ScheduledDoses int
	CompletedDoses int
	MissedDoses    int // no tomadas en días anteriores a ReferenceDate
	PerfectDays    int // días con dosis programadas y todas tomadas

	Rating Rating
}

type IndicatorLevel string

const (
	LevelNone   IndicatorLevel = "none"
	LevelSingle IndicatorLevel = "single"
	LevelMedium IndicatorLevel = "medium"
	LevelMany   IndicatorLevel = "many"
)

func LevelFor(count int) IndicatorLevel {
	switch {
	case count >= 3:
		return LevelMany
	case count == 2:
		return LevelMedium
	case count == 1:
		return LevelSingle
	default:
		return LevelNone
	}
}

// DayIndicator alimenta los puntitos del calendario mensual.
type DayIndicator struct {
	Date  civil.Date
	Count int
	Level IndicatorLevel
}
