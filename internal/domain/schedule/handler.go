package schedule

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/medicines"
	"meditrack/internal/middleware"
	"meditrack/internal/platform/civil"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/schedule", func(sr chi.Router) {
		sr.Get("/", dailyScheduleHandler(svc))
		sr.Get("/next", nextDosesHandler(svc))
	})

	r.Get("/calendar", calendarHandler(svc))
	r.Get("/adherence", adherenceHandler(svc))

	// Log de tomas. Convive con /medicines/{medicineID}: la ruta estática gana.
	r.Route("/medicines/taken", func(tr chi.Router) {
		tr.Get("/", listTakenHandler(svc))
		tr.Post("/", markTakenHandler(svc))
		tr.Delete("/", unmarkTakenHandler(svc))
	})
}

type entryResponse struct {
	Medicine medicines.MedicineResponse `json:"medicine"`
	TimeSlot string                     `json:"time_slot"`
	Taken    bool                       `json:"taken"`
	TakenAt  *time.Time                 `json:"taken_at,omitempty"`
}

type slotGroupResponse struct {
	TimeSlot string          `json:"time_slot"`
	Entries  []entryResponse `json:"entries"`
}

type dailyScheduleResponse struct {
	Date       civil.Date          `json:"date"`
	Groups     []slotGroupResponse `json:"groups"`
	TotalDoses int                 `json:"total_doses"`
	TakenDoses int                 `json:"taken_doses"`
}

type adherenceResponse struct {
	WindowStart     civil.Date `json:"window_start"`
	WindowEnd       civil.Date `json:"window_end"`
	ReferenceDate   civil.Date `json:"reference_date"`
	AdherenceRate   int        `json:"adherence_rate"`
	ActiveMedicines int        `json:"active_medicines"`
	ScheduledDoses  int        `json:"scheduled_doses"`
	CompletedDoses  int        `json:"completed_doses"`
	MissedDoses     int        `json:"missed_doses"`
	PerfectDays     int        `json:"perfect_days"`
	Rating          Rating     `json:"rating"`
}

type dayIndicatorResponse struct {
	Date  civil.Date     `json:"date"`
	Count int            `json:"count"`
	Level IndicatorLevel `json:"level"`
}

type calendarResponse struct {
	Month string                 `json:"month"`
	Days  []dayIndicatorResponse `json:"days"`
}

type takenRequest struct {
	MedicineID string `json:"medicine_id"`
	Date       string `json:"date"`      // YYYY-MM-DD
	TimeSlot   string `json:"time_slot"` // HH:MM
}

type takenRecordResponse struct {
	MedicineID string     `json:"medicine_id"`
	Date       civil.Date `json:"date"`
	TimeSlot   string     `json:"time_slot"`
	TakenAt    time.Time  `json:"taken_at"`
}

// dailyScheduleHandler godoc
// @Summary Agenda del día
// @Description Tomas programadas para la fecha, agrupadas por horario. Sin `date` usa hoy.
// @Tags schedule
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} dailyScheduleResponse
// @Failure 400 {string} string "date inválida"
// @Failure 401 {string} string "unauthorized"
// @Router /schedule [get]
func dailyScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			ds  DailySchedule
			err error
		)
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			date, perr := civil.Parse(raw)
			if perr != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			ds, err = svc.DailySchedule(r.Context(), claims.UserID, date)
		} else {
			ds, err = svc.Today(r.Context(), claims.UserID)
		}
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}

		writeJSON(w, http.StatusOK, toDailyScheduleResponse(ds))
	}
}

// nextDosesHandler godoc
// @Summary Próximas tomas de hoy
// @Tags schedule
// @Produce json
// @Param limit query int false "Máximo de tomas (default 5, 0 = todas)"
// @Success 200 {array} entryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /schedule/next [get]
func nextDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 5
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		entries, err := svc.Upcoming(r.Context(), claims.UserID, limit)
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}

		out := make([]entryResponse, 0, len(entries))
		for _, en := range entries {
			out = append(out, toEntryResponse(en))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func calendarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var month time.Time
		if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
			t, err := time.Parse("2006-01", raw)
			if err != nil {
				http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
				return
			}
			month = t
		} else {
			today, _, _ := svc.clock()
			month = today.Time()
		}

		days, err := svc.Calendar(r.Context(), claims.UserID, month.Year(), month.Month())
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}

		out := calendarResponse{Month: month.Format("2006-01"), Days: make([]dayIndicatorResponse, 0, len(days))}
		for _, d := range days {
			out.Days = append(out.Days, dayIndicatorResponse{Date: d.Date, Count: d.Count, Level: d.Level})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// adherenceHandler godoc
// @Summary Resumen de adherencia
// @Description Porcentaje de tomas completadas en la ventana. Sin `from`/`to` usa los últimos N días configurados.
// @Tags schedule
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} adherenceResponse
// @Failure 400 {string} string "fechas inválidas / ventana demasiado grande"
// @Failure 401 {string} string "unauthorized"
// @Router /adherence [get]
func adherenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rng, ok := parseRange(w, r)
		if !ok {
			return
		}

		sum, err := svc.Adherence(r.Context(), claims.UserID, rng.From, rng.To)
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}

		writeJSON(w, http.StatusOK, adherenceResponse{
			WindowStart:     sum.WindowStart,
			WindowEnd:       sum.WindowEnd,
			ReferenceDate:   sum.ReferenceDate,
			AdherenceRate:   sum.AdherenceRate,
			ActiveMedicines: sum.ActiveMedicines,
			ScheduledDoses:  sum.ScheduledDoses,
			CompletedDoses:  sum.CompletedDoses,
			MissedDoses:     sum.MissedDoses,
			PerfectDays:     sum.PerfectDays,
			Rating:          sum.Rating,
		})
	}
}

func listTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rng, ok := parseRange(w, r)
		if !ok {
			return
		}

		items, err := svc.ListTaken(r.Context(), claims.UserID, rng)
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}

		out := make([]takenRecordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toTakenRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// markTakenHandler godoc
// @Summary Marcar una toma como tomada
// @Description Idempotente: marcar dos veces conserva el registro original.
// @Tags schedule
// @Accept json
// @Produce json
// @Param payload body takenRequest true "medicine_id, date (YYYY-MM-DD), time_slot (HH:MM)"
// @Success 200 {object} takenRecordResponse
// @Failure 400 {string} string "invalid json / date inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medicine not found"
// @Failure 409 {string} string "time slot no pertenece a la medicina"
// @Router /medicines/taken [post]
func markTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req takenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		key, ok := parseKey(w, req)
		if !ok {
			return
		}

		rec, err := svc.SetTaken(r.Context(), claims.UserID, key, true)
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, toTakenRecordResponse(rec))
	}
}

// unmarkTakenHandler lee la clave de la query: DELETE /medicines/taken?medicine_id=&date=&time_slot=
func unmarkTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		key, ok := parseKey(w, takenRequest{
			MedicineID: q.Get("medicine_id"),
			Date:       q.Get("date"),
			TimeSlot:   q.Get("time_slot"),
		})
		if !ok {
			return
		}

		if _, err := svc.SetTaken(r.Context(), claims.UserID, key, false); err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseKey(w http.ResponseWriter, req takenRequest) (DoseKey, bool) {
	if strings.TrimSpace(req.MedicineID) == "" {
		http.Error(w, "medicine_id is required", http.StatusBadRequest)
		return DoseKey{}, false
	}
	date, err := civil.Parse(req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return DoseKey{}, false
	}
	if strings.TrimSpace(req.TimeSlot) == "" {
		http.Error(w, "time_slot is required", http.StatusBadRequest)
		return DoseKey{}, false
	}
	return DoseKey{MedicineID: req.MedicineID, Date: date, TimeSlot: req.TimeSlot}, true
}

// parseRange: from/to opcionales (YYYY-MM-DD).
func parseRange(w http.ResponseWriter, r *http.Request) (DateRange, bool) {
	var rng DateRange
	for name, dst := range map[string]*civil.Date{"from": &rng.From, "to": &rng.To} {
		raw := strings.TrimSpace(r.URL.Query().Get(name))
		if raw == "" {
			continue
		}
		d, err := civil.Parse(raw)
		if err != nil {
			http.Error(w, name+" must be YYYY-MM-DD", http.StatusBadRequest)
			return DateRange{}, false
		}
		*dst = d
	}
	return rng, true
}

func toEntryResponse(en Entry) entryResponse {
	return entryResponse{
		Medicine: medicines.ToResponse(en.Medicine),
		TimeSlot: en.TimeSlot,
		Taken:    en.Taken,
		TakenAt:  en.TakenAt,
	}
}

func toDailyScheduleResponse(ds DailySchedule) dailyScheduleResponse {
	out := dailyScheduleResponse{Date: ds.Date, Groups: make([]slotGroupResponse, 0, len(ds.Groups))}
	for _, g := range ds.Groups {
		gr := slotGroupResponse{TimeSlot: g.TimeSlot, Entries: make([]entryResponse, 0, len(g.Entries))}
		for _, en := range g.Entries {
			gr.Entries = append(gr.Entries, toEntryResponse(en))
			out.TotalDoses++
			if en.Taken {
				out.TakenDoses++
			}
		}
		out.Groups = append(out.Groups, gr)
	}
	return out
}

func toTakenRecordResponse(rec TakenRecord) takenRecordResponse {
	return takenRecordResponse{
		MedicineID: rec.MedicineID,
		Date:       rec.Date,
		TimeSlot:   rec.TimeSlot,
		TakenAt:    rec.TakenAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
