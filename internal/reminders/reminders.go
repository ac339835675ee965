package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"meditrack/internal/domain/notifications"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/civil"
	"meditrack/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

const DefaultSpec = "* * * * *"

type OwnerLister interface {
	ListOwners(ctx context.Context) ([]string, error)
}

type ScheduleSource interface {
	DailySchedule(ctx context.Context, ownerUserID string, date civil.Date) (schedule.DailySchedule, error)
}

type PreferenceSource interface {
	RemindersEnabled(ctx context.Context, userID string) (bool, error)
}

type Notifier interface {
	HasReminder(ctx context.Context, userID string, key schedule.DoseKey) (bool, error)
	Add(ctx context.Context, userID string, in notifications.AddInput) (notifications.Notification, error)
}

type Config struct {
	Spec     string // cron de 5 campos; default cada minuto
	Location *time.Location
	Timeout  time.Duration // por tick
}

type Deps struct {
	Owners    OwnerLister
	Schedules ScheduleSource
	Prefs     PreferenceSource
	Notifier  Notifier
}

// Service convierte las tomas pendientes del minuto actual en notificaciones.
type Service struct {
	mu sync.Mutex

	log  logger.Logger
	cfg  Config
	deps Deps

	parser cron.Parser
	c      *cron.Cron

	// recordatorios ya enviados en sentDay (se resetea al cambiar de día)
	sentDay civil.Date
	sent    map[string]struct{}
}

func New(cfg Config, deps Deps, log logger.Logger) *Service {
	if strings.TrimSpace(cfg.Spec) == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		log:    log.With(map[string]any{"component": "reminders"}),
		cfg:    cfg,
		deps:   deps,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		sent:   map[string]struct{}{},
	}
}

// ValidateSpec sirve para rechazar la config antes de arrancar.
func ValidateSpec(spec string) error {
	p := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := p.Parse(spec); err != nil {
		return fmt.Errorf("invalid reminders spec %q: %w", spec, err)
	}
	return nil
}

func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	c := cron.New(cron.WithParser(s.parser), cron.WithLocation(s.cfg.Location))
	if _, err := c.AddFunc(s.cfg.Spec, s.run); err != nil {
		return fmt.Errorf("add reminders job: %w", err)
	}
	s.c = c
	c.Start()

	s.log.Info("reminders started", map[string]any{"spec": s.cfg.Spec, "tz": s.cfg.Location.String()})
	return nil
}

// Stop espera al tick en curso o a que venza ctx.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		s.log.Info("reminders stopped", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	n, err := s.Tick(ctx, time.Now())
	if err != nil {
		s.log.Error("reminders tick failed", map[string]any{"err": err})
		return
	}
	if n > 0 {
		s.log.Debug("reminders sent", map[string]any{"count": n})
	}
}

// Tick revisa todos los usuarios con recordatorios activos y crea una
// notificación por cada toma no tomada cuyo horario es el HH:MM de now.
// Devuelve cuántas creó. Un usuario con error no corta el resto.
func (s *Service) Tick(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.cfg.Location)
	today := civil.DateOf(now)
	hhmm := now.Format("15:04")

	owners, err := s.deps.Owners.ListOwners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list owners: %w", err)
	}

	s.mu.Lock()
	if s.sentDay != today {
		s.sentDay = today
		s.sent = map[string]struct{}{}
	}
	s.mu.Unlock()

	created := 0
	var errs []error
	for _, owner := range owners {
		n, err := s.tickOwner(ctx, owner, today, hhmm)
		created += n
		if err != nil {
			s.log.Warn("reminders skipped user", map[string]any{"user_id": owner, "err": err})
			errs = append(errs, err)
		}
	}
	// solo falla el tick si fallaron todos
	if len(owners) > 0 && len(errs) == len(owners) {
		return created, errors.Join(errs...)
	}
	return created, nil
}

func (s *Service) tickOwner(ctx context.Context, owner string, today civil.Date, hhmm string) (int, error) {
	enabled, err := s.deps.Prefs.RemindersEnabled(ctx, owner)
	if err != nil {
		return 0, err
	}
	if !enabled {
		return 0, nil
	}

	ds, err := s.deps.Schedules.DailySchedule(ctx, owner, today)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, g := range ds.Groups {
		if g.TimeSlot != hhmm {
			continue
		}
		for _, en := range g.Entries {
			if en.Taken {
				continue
			}
			key := schedule.DoseKey{MedicineID: en.Medicine.ID, Date: today, TimeSlot: en.TimeSlot}
			if s.alreadySent(owner, key) {
				continue
			}
			exists, err := s.deps.Notifier.HasReminder(ctx, owner, key)
			if err != nil {
				return created, err
			}
			if !exists {
				if _, err := s.deps.Notifier.Add(ctx, owner, notifications.AddInput{
					Type:    notifications.TypeReminder,
					Title:   "Time to take " + en.Medicine.Name,
					Message: reminderMessage(en),
					Dose:    &key,
				}); err != nil {
					return created, err
				}
				created++
			}
			s.markSent(owner, key)
		}
	}
	return created, nil
}

func reminderMessage(en schedule.Entry) string {
	if d := strings.TrimSpace(en.Medicine.Dosage); d != "" {
		return fmt.Sprintf("%s at %s", d, en.TimeSlot)
	}
	return "Scheduled at " + en.TimeSlot
}

func sentKey(owner string, key schedule.DoseKey) string {
	return owner + "|" + key.MedicineID + "|" + key.Date.String() + "|" + key.TimeSlot
}

func (s *Service) alreadySent(owner string, key schedule.DoseKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sent[sentKey(owner, key)]
	return ok
}

func (s *Service) markSent(owner string, key schedule.DoseKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[sentKey(owner, key)] = struct{}{}
}
