package profile

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
	r.Route("/users/profile", func(pr chi.Router) {
		pr.Get("/", getProfileHandler(svc))
		pr.Put("/", updateProfileHandler(svc))
	})
}

type preferencesDTO struct {
	ReminderEnabled bool `json:"reminder_enabled"`
	DarkMode        bool `json:"dark_mode"`
}

type profileResponse struct {
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Age         int            `json:"age"`
	HeightCM    float64        `json:"height_cm"`
	WeightKG    float64        `json:"weight_kg"`
	BloodGroup  string         `json:"blood_group"`
	JoinDate    string         `json:"join_date"`
	Preferences preferencesDTO `json:"preferences"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

type updateProfileRequest struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Age        *int     `json:"age"`
	HeightCM   *float64 `json:"height_cm"`
	WeightKG   *float64 `json:"weight_kg"`
	BloodGroup *string  `json:"blood_group"`

	Preferences *struct {
		ReminderEnabled *bool `json:"reminder_enabled"`
		DarkMode        *bool `json:"dark_mode"`
	} `json:"preferences"`
}

// getProfileHandler godoc
// @Summary Perfil del usuario
// @Description Si nunca se guardó, devuelve el perfil por defecto (recordatorios activos).
// @Tags profile
// @Produce json
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Router /users/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, toResponse(p))
	}
}

func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateProfileRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:       req.Name,
			Email:      req.Email,
			Age:        req.Age,
			HeightCM:   req.HeightCM,
			WeightKG:   req.WeightKG,
			BloodGroup: req.BloodGroup,
		}
		if req.Preferences != nil {
			in.ReminderEnabled = req.Preferences.ReminderEnabled
			in.DarkMode = req.Preferences.DarkMode
		}

		p, err := svc.Update(r.Context(), claims.UserID, in)
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, toResponse(p))
	}
}

func toResponse(p Profile) profileResponse {
	out := profileResponse{
		UserID:     p.UserID,
		Name:       p.Name,
		Email:      p.Email,
		Age:        p.Age,
		HeightCM:   p.HeightCM,
		WeightKG:   p.WeightKG,
		BloodGroup: p.BloodGroup,
		JoinDate:   p.JoinDate,
		Preferences: preferencesDTO{
			ReminderEnabled: p.Preferences.ReminderEnabled,
			DarkMode:        p.Preferences.DarkMode,
		},
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
