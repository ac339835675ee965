package medicines

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medicines", func(mr chi.Router) {
		mr.Post("/", createMedicineHandler(svc))
		mr.Get("/", listMedicinesHandler(svc))

		// Conteo por tipo (gráfico del perfil)
		mr.Get("/summary", typeSummaryHandler(svc))

		mr.Get("/{medicineID}", getMedicineHandler(svc))
		mr.Patch("/{medicineID}", updateMedicineHandler(svc))
		mr.Delete("/{medicineID}", deleteMedicineHandler(svc))
	})
}

type createMedicineRequest struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Color     string   `json:"color"`
	Dosage    string   `json:"dosage"`
	StartDate string   `json:"start_date"` // YYYY-MM-DD
	EndDate   string   `json:"end_date"`   // YYYY-MM-DD, opcional
	TimeSlots []string `json:"time_slots"` // ["08:00","20:00"]
	Days      []string `json:"days"`       // ["Mon","Wed"]
	Notes     string   `json:"notes"`
}

type updateMedicineRequest struct {
	Name      *string   `json:"name"`
	Type      *string   `json:"type"`
	Color     *string   `json:"color"`
	Dosage    *string   `json:"dosage"`
	StartDate *string   `json:"start_date"`
	EndDate   *string   `json:"end_date"`
	TimeSlots *[]string `json:"time_slots"`
	Days      *[]string `json:"days"`
	Notes     *string   `json:"notes"`
}

// MedicineResponse es la representación pública; la UI y otros módulos la reutilizan.
type MedicineResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Color     string    `json:"color"`
	Dosage    string    `json:"dosage"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date,omitempty"`
	TimeSlots []string  `json:"time_slots"`
	Days      []Weekday `json:"days"`
	Frequency Frequency `json:"frequency"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Type:      req.Type,
			Color:     req.Color,
			Dosage:    req.Dosage,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			TimeSlots: req.TimeSlots,
			Days:      req.Days,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(m))
	}
}

func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter := ListFilter{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		switch f := Frequency(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("frequency")))); f {
		case "", "all":
		case FrequencyDaily, FrequencyWeekly, FrequencyOther:
			filter.Frequency = f
		default:
			http.Error(w, "frequency must be all, daily, weekly or other", http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]MedicineResponse, 0, len(items))
		for _, m := range items {
			out = append(out, ToResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func typeSummaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		counts, err := svc.TypeSummary(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		total := 0
		for _, n := range counts {
			total += n
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total":   total,
			"by_type": counts,
		})
	}
}

func getMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), claims.UserID, chi.URLParam(r, "medicineID"))
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(m))
	}
}

func updateMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateMedicineRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "medicineID"), UpdateInput{
			Name:      req.Name,
			Type:      req.Type,
			Color:     req.Color,
			Dosage:    req.Dosage,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			TimeSlots: req.TimeSlots,
			Days:      req.Days,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(updated))
	}
}

func deleteMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "medicineID")); err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ToResponse(m Medicine) MedicineResponse {
	slots := m.TimeSlots
	if slots == nil {
		slots = []string{}
	}
	days := m.Days
	if days == nil {
		days = []Weekday{}
	}
	return MedicineResponse{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		Color:     m.Color,
		Dosage:    m.Dosage,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		TimeSlots: slots,
		Days:      days,
		Frequency: m.Frequency(),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// writeJSON está duplicado en cada módulo (medicines/schedule/profile/notifications)
// para no crear un paquete de helpers compartido antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
