package schedule

import (
	"math"
	"sort"
	"time"

	"meditrack/internal/domain/medicines"
	"meditrack/internal/platform/civil"
	"meditrack/internal/platform/logger"
)

// Engine calcula agendas y adherencia sobre snapshots; no guarda estado ni hace I/O.
// El logger solo se usa para avisar de medicinas descartadas.
type Engine struct {
	log logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log}
}

// IsMedicineActiveOnDate: start <= date <= end (end vacío = sin fin) y el día
// de la semana está en Days. Fechas ausentes o mal formadas => false.
func IsMedicineActiveOnDate(m medicines.Medicine, date civil.Date) bool {
	if m.ValidateSchedule() != nil {
		return false
	}
	return inRangeAndDay(m, date)
}

// inRangeAndDay asume que la medicina ya pasó ValidateSchedule.
func inRangeAndDay(m medicines.Medicine, date civil.Date) bool {
	start, end, _ := m.ActiveRange()
	if date.Before(start) {
		return false
	}
	if !end.IsZero() && date.After(end) {
		return false
	}
	return m.HasDay(medicines.WeekdayOf(date.Weekday()))
}

// BuildDailySchedule agrupa por horario las tomas de la fecha. Una medicina
// inválida se descarta con warning; nunca corta el armado del día.
func (e *Engine) BuildDailySchedule(meds []medicines.Medicine, records []TakenRecord, date civil.Date) DailySchedule {
	taken := indexTaken(records)
	bySlot := map[string][]Entry{}

	for _, m := range e.usable(meds) {
		if !inRangeAndDay(m, date) {
			continue
		}
		for _, slot := range m.TimeSlots {
			en := Entry{Medicine: m, TimeSlot: slot}
			if r, ok := taken[DoseKey{MedicineID: m.ID, Date: date, TimeSlot: slot}]; ok {
				at := r.TakenAt
				en.Taken = true
				en.TakenAt = &at
			}
			bySlot[slot] = append(bySlot[slot], en)
		}
	}

	slots := make([]string, 0, len(bySlot))
	for s := range bySlot {
		slots = append(slots, s)
	}
	// "HH:MM" en 24h ordena bien lexicográficamente.
	sort.Strings(slots)

	ds := DailySchedule{Date: date, Groups: make([]SlotGroup, 0, len(slots))}
	for _, s := range slots {
		ds.Groups = append(ds.Groups, SlotGroup{TimeSlot: s, Entries: bySlot[s]})
	}
	return ds
}

// ComputeAdherence cuenta una dosis programada por horario y día activo dentro
// de [windowStart, windowEnd]; completada si hay TakenRecord para la clave.
// Sin dosis programadas la tasa es 100.
func (e *Engine) ComputeAdherence(meds []medicines.Medicine, records []TakenRecord, windowStart, windowEnd, ref civil.Date) AdherenceSummary {
	if windowEnd.Before(windowStart) {
		windowStart, windowEnd = windowEnd, windowStart
	}

	valid := e.usable(meds)
	taken := indexTaken(records)

	sum := AdherenceSummary{WindowStart: windowStart, WindowEnd: windowEnd, ReferenceDate: ref}

	for d := windowStart; !d.After(windowEnd); d = d.AddDays(1) {
		dayScheduled, dayDone := 0, 0
		for _, m := range valid {
			if !inRangeAndDay(m, d) {
				continue
			}
			for _, slot := range m.TimeSlots {
				dayScheduled++
				if _, ok := taken[DoseKey{MedicineID: m.ID, Date: d, TimeSlot: slot}]; ok {
					dayDone++
				} else if d.Before(ref) {
					sum.MissedDoses++
				}
			}
		}
		sum.ScheduledDoses += dayScheduled
		sum.CompletedDoses += dayDone
		if dayScheduled > 0 && dayDone == dayScheduled {
			sum.PerfectDays++
		}
	}

	sum.AdherenceRate = 100
	if sum.ScheduledDoses > 0 {
		sum.AdherenceRate = int(math.Round(100 * float64(sum.CompletedDoses) / float64(sum.ScheduledDoses)))
	}
	sum.Rating = RatingFor(sum.AdherenceRate)

	for _, m := range valid {
		if inRangeAndDay(m, ref) {
			sum.ActiveMedicines++
		}
	}
	return sum
}

// MonthIndicators cuenta medicinas programadas por día del mes.
func (e *Engine) MonthIndicators(meds []medicines.Medicine, year int, month time.Month) []DayIndicator {
	valid := e.usable(meds)
	days := civil.DaysInMonth(year, month)

	out := make([]DayIndicator, 0, len(days))
	for _, d := range days {
		n := 0
		for _, m := range valid {
			if inRangeAndDay(m, d) {
				n++
			}
		}
		out = append(out, DayIndicator{Date: d, Count: n, Level: LevelFor(n)})
	}
	return out
}

// NextDoses devuelve las tomas pendientes desde clock ("HH:MM"), en orden.
// limit <= 0 => sin límite.
func NextDoses(ds DailySchedule, clock string, limit int) []Entry {
	out := make([]Entry, 0)
	for _, g := range ds.Groups {
		if g.TimeSlot < clock {
			continue
		}
		for _, en := range g.Entries {
			if en.Taken {
				continue
			}
			out = append(out, en)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}

// usable filtra (sin mutar) las medicinas válidas, con un warning por cada descartada.
func (e *Engine) usable(meds []medicines.Medicine) []medicines.Medicine {
	out := make([]medicines.Medicine, 0, len(meds))
	for _, m := range meds {
		if err := m.Validate(); err != nil {
			e.log.Warn("medicine excluded from schedule", map[string]any{
				"medicine_id": m.ID,
				"reason":      err.Error(),
			})
			continue
		}
		out = append(out, m)
	}
	return out
}

func indexTaken(records []TakenRecord) map[DoseKey]TakenRecord {
	out := make(map[DoseKey]TakenRecord, len(records))
	for _, r := range records {
		k := r.Key()
		if _, dup := out[k]; dup {
			continue
		}
		out[k] = r
	}
	return out
}
