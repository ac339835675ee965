package schedule

import (
	"context"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/medicines"
	"meditrack/internal/platform/civil"
	"meditrack/internal/platform/logger"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 366
)

type Options struct {
	WindowDays int            // ventana default de adherencia, terminando hoy
	Location   *time.Location // define qué día es "hoy"
	Now        func() time.Time
}

// Service lee snapshots de los repos y delega los cálculos en Engine.
type Service struct {
	meds   medicines.Repository
	taken  TakenRepository
	engine *Engine

	windowDays int
	loc        *time.Location
	now        func() time.Time
}

func NewService(meds medicines.Repository, taken TakenRepository, log logger.Logger, opts Options) *Service {
	if opts.WindowDays <= 0 {
		opts.WindowDays = DefaultWindowDays
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		meds:       meds,
		taken:      taken,
		engine:     NewEngine(log),
		windowDays: opts.WindowDays,
		loc:        opts.Location,
		now:        opts.Now,
	}
}

// clock lee "now" una sola vez y devuelve día y hora local.
func (s *Service) clock() (civil.Date, string, time.Time) {
	now := s.now().In(s.loc)
	return civil.DateOf(now), now.Format("15:04"), now
}

func (s *Service) DailySchedule(ctx context.Context, ownerUserID string, date civil.Date) (DailySchedule, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return DailySchedule{}, apperr.Validation("owner_user_id", "required")
	}
	if date.IsZero() {
		return DailySchedule{}, apperr.Validation("date", "required")
	}

	meds, err := s.meds.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return DailySchedule{}, err
	}
	records, err := s.taken.List(ctx, ownerUserID, DateRange{From: date, To: date})
	if err != nil {
		return DailySchedule{}, err
	}
	return s.engine.BuildDailySchedule(meds, records, date), nil
}

func (s *Service) Today(ctx context.Context, ownerUserID string) (DailySchedule, error) {
	today, _, _ := s.clock()
	return s.DailySchedule(ctx, ownerUserID, today)
}

// Upcoming: tomas de hoy aún no tomadas, desde la hora actual.
func (s *Service) Upcoming(ctx context.Context, ownerUserID string, limit int) ([]Entry, error) {
	today, hhmm, _ := s.clock()
	ds, err := s.DailySchedule(ctx, ownerUserID, today)
	if err != nil {
		return nil, err
	}
	return NextDoses(ds, hhmm, limit), nil
}

// Adherence con from/to cero usa la ventana configurada terminando hoy.
// La fecha de referencia (para activas y perdidas) es siempre hoy.
func (s *Service) Adherence(ctx context.Context, ownerUserID string, from, to civil.Date) (AdherenceSummary, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return AdherenceSummary{}, apperr.Validation("owner_user_id", "required")
	}

	today, _, _ := s.clock()
	if to.IsZero() {
		to = today
	}
	if from.IsZero() {
		from = to.AddDays(-(s.windowDays - 1))
	}
	if to.Before(from) {
		from, to = to, from
	}
	if from.DaysUntil(to)+1 > MaxWindowDays {
		return AdherenceSummary{}, apperr.Validation("from", "window must not exceed 366 days")
	}

	meds, err := s.meds.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return AdherenceSummary{}, err
	}
	records, err := s.taken.List(ctx, ownerUserID, DateRange{From: from, To: to})
	if err != nil {
		return AdherenceSummary{}, err
	}
	return s.engine.ComputeAdherence(meds, records, from, to, today), nil
}

func (s *Service) Calendar(ctx context.Context, ownerUserID string, year int, month time.Month) ([]DayIndicator, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, apperr.Validation("owner_user_id", "required")
	}
	if month < time.January || month > time.December || year < 1 || year > 9999 {
		return nil, apperr.Validation("month", "must be YYYY-MM")
	}

	meds, err := s.meds.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.engine.MonthIndicators(meds, year, month), nil
}

func (s *Service) ListTaken(ctx context.Context, ownerUserID string, r DateRange) ([]TakenRecord, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, apperr.Validation("owner_user_id", "required")
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return nil, apperr.Validation("to", "must not be before from")
	}
	return s.taken.List(ctx, ownerUserID, r)
}

// SetTaken marca o desmarca una toma. Devuelve el registro vigente
// (zero value si quedó desmarcada).
func (s *Service) SetTaken(ctx context.Context, ownerUserID string, key DoseKey, taken bool) (TakenRecord, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return TakenRecord{}, apperr.Validation("owner_user_id", "required")
	}
	if key.Date.IsZero() {
		return TakenRecord{}, apperr.Validation("date", "required")
	}
	slot, err := medicines.NormalizeTimeSlot(key.TimeSlot)
	if err != nil {
		return TakenRecord{}, err
	}
	key.TimeSlot = slot
	key.MedicineID = strings.TrimSpace(key.MedicineID)

	m, err := s.meds.GetByID(ctx, ownerUserID, key.MedicineID)
	if err != nil {
		return TakenRecord{}, err
	}
	if !m.HasTimeSlot(key.TimeSlot) {
		return TakenRecord{}, apperr.InconsistentState(m.ID, key.TimeSlot)
	}

	if !taken {
		return TakenRecord{}, s.taken.Delete(ctx, ownerUserID, key)
	}

	_, _, now := s.clock()
	return s.taken.Set(ctx, ownerUserID, TakenRecord{
		MedicineID: key.MedicineID,
		Date:       key.Date,
		TimeSlot:   key.TimeSlot,
		TakenAt:    now.UTC(),
	})
}
