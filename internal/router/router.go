package router

import (
	"net/http"

	_ "meditrack/docs"

	"meditrack/internal/adapters/storage"
	"meditrack/internal/domain/medicines"
	"meditrack/internal/domain/notifications"
	"meditrack/internal/domain/profile"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/middleware"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services agrupa los servicios por módulo; main los comparte con el job de recordatorios.
type Services struct {
	Medicines     *medicines.Service
	Schedule      *schedule.Service
	Profile       *profile.Service
	Notifications *notifications.Service
}

func NewServices(st *storage.Stores, log logger.Logger, opts schedule.Options) *Services {
	return &Services{
		Medicines:     medicines.NewService(st.Medicines),
		Schedule:      schedule.NewService(st.Medicines, st.Taken, log, opts),
		Profile:       profile.NewService(st.Profiles),
		Notifications: notifications.NewService(st.Notifications),
	}
}

type Options struct {
	AuthVerifier  auth.AuthVerifier // puede ser nil (modo dev)
	DefaultUserID string            // solo en modo dev

	Log logger.Logger

	// Si viene nil, usa stores in-memory.
	Services *Services

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	RateLimitRPS   float64 // <= 0 desactiva
	RateLimitBurst int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	svcs := opts.Services
	if svcs == nil {
		svcs = NewServices(storage.NewMemory(), log, schedule.Options{})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))
	r.Use(middleware.CORS(opts.CORSAllowedOrigins, opts.CORSAllowCredentials))
	r.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))

	r.Use(middleware.AuthContext(opts.AuthVerifier, opts.DefaultUserID))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	medicines.RegisterRoutes(r, svcs.Medicines)
	schedule.RegisterRoutes(r, svcs.Schedule)
	profile.RegisterRoutes(r, svcs.Profile)
	notifications.RegisterRoutes(r, svcs.Notifications)

	return r
}
