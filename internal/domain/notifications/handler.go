package notifications

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
	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/", listNotificationsHandler(svc))
		nr.Post("/read-all", markAllReadHandler(svc))
		nr.Post("/{notificationID}/read", markReadHandler(svc))
		nr.Delete("/{notificationID}", dismissHandler(svc))
	})
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`

	MedicineID string `json:"medicine_id,omitempty"`
	Date       string `json:"date,omitempty"`
	TimeSlot   string `json:"time_slot,omitempty"`
}

type listResponse struct {
	Items  []notificationResponse `json:"items"`
	Unread int                    `json:"unread"`
	Badge  string                 `json:"badge"`
}

// listNotificationsHandler godoc
// @Summary Notificaciones del usuario
// @Description Más nuevas primero, con contador de no leídas y texto del badge ("9+" a partir de 10).
// @Tags notifications
// @Produce json
// @Success 200 {object} listResponse
// @Failure 401 {string} string "unauthorized"
// @Router /notifications [get]
func listNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := listResponse{Items: make([]notificationResponse, 0, len(items))}
		for _, n := range items {
			out.Items = append(out.Items, toResponse(n))
			if !n.Read {
				out.Unread++
			}
		}
		out.Badge = Badge(out.Unread)
		writeJSON(w, http.StatusOK, out)
	}
}

func markAllReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := svc.MarkAllRead(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"updated": n})
	}
}

func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := svc.MarkRead(r.Context(), claims.UserID, chi.URLParam(r, "notificationID"))
		if err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, toResponse(n))
	}
}

func dismissHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Dismiss(r.Context(), claims.UserID, chi.URLParam(r, "notificationID")); err != nil {
			http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(n Notification) notificationResponse {
	out := notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.Dose != nil {
		out.MedicineID = n.Dose.MedicineID
		out.Date = n.Dose.Date.String()
		out.TimeSlot = n.Dose.TimeSlot
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
