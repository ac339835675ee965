// @title MediTrack API
// @version 1.0
// @description Agenda de medicamentos, registro de tomas y adherencia.
// @BasePath /
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jwtauth "meditrack/internal/adapters/auth/jwt"
	"meditrack/internal/adapters/storage"
	"meditrack/internal/adapters/storage/remote"
	"meditrack/internal/config"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/auth"
	"meditrack/internal/reminders"
	"meditrack/internal/router"
)

func main() {
	configPath := flag.String("config", "", "archivo YAML de configuración (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	if err := run(cfg, log); err != nil {
		log.Error("fatal", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	stores, err := storage.Open(ctx, storage.Config{
		Driver:     cfg.Store.Driver,
		DSN:        cfg.Store.DSN,
		SQLitePath: cfg.Store.SQLitePath,
		Remote: remote.Config{
			BaseURL: cfg.Store.Remote.BaseURL,
			Token:   cfg.Store.Remote.Token,
			Timeout: cfg.Store.Remote.Timeout,
			Owners:  cfg.Store.Remote.Owners,
		},
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Warn("store close failed", map[string]any{"err": err})
		}
	}()

	var verifier auth.AuthVerifier // nil => modo dev
	if cfg.Auth.JWTSecret != "" {
		v, err := jwtauth.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			return err
		}
		verifier = v
	} else {
		log.Warn("auth: no JWT_SECRET, dev mode (X-Debug-User-ID / default user)", map[string]any{
			"default_user_id": cfg.Auth.DefaultUserID,
		})
	}

	svcs := router.NewServices(stores, log, schedule.Options{
		WindowDays: cfg.Adherence.WindowDays,
		Location:   loc,
	})

	var rem *reminders.Service
	if cfg.Reminders.Enabled {
		rem = reminders.New(reminders.Config{
			Spec:     cfg.Reminders.Spec,
			Location: loc,
			Timeout:  cfg.Reminders.Timeout,
		}, reminders.Deps{
			Owners:    stores.Medicines,
			Schedules: svcs.Schedule,
			Prefs:     svcs.Profile,
			Notifier:  svcs.Notifications,
		}, log)
		if err := rem.Start(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: router.NewRouter(router.Options{
			AuthVerifier:         verifier,
			DefaultUserID:        cfg.Auth.DefaultUserID,
			Log:                  log,
			Services:             svcs,
			CORSAllowedOrigins:   cfg.CORS.AllowedOrigins,
			CORSAllowCredentials: cfg.CORS.AllowCredentials,
			RateLimitRPS:         cfg.RateLimit.RPS,
			RateLimitBurst:       cfg.RateLimit.Burst,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Addr, "store": stores.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down", nil)
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", map[string]any{"err": err})
	}
	if rem != nil {
		if err := rem.Stop(shutdownCtx); err != nil {
			log.Warn("reminders stop failed", map[string]any{"err": err})
		}
	}
	return nil
}
