// Package storage elige el back-end una sola vez al arrancar.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"meditrack/internal/adapters/storage/memory"
	"meditrack/internal/adapters/storage/postgres"
	"meditrack/internal/adapters/storage/remote"
	"meditrack/internal/adapters/storage/sqlite"
	"meditrack/internal/domain/medicines"
	"meditrack/internal/domain/notifications"
	"meditrack/internal/domain/profile"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/logger"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRemote   = "remote"
)

type Config struct {
	Driver     string
	DSN        string // postgres
	SQLitePath string
	Remote     remote.Config
}

// Stores agrupa los repos de un mismo back-end.
type Stores struct {
	Driver string

	Medicines     medicines.Repository
	Taken         schedule.TakenRepository
	Profiles      profile.Repository
	Notifications notifications.Repository

	db *sql.DB
}

func (s *Stores) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewMemory es el store por defecto (dev y tests).
func NewMemory() *Stores {
	return &Stores{
		Driver:        DriverMemory,
		Medicines:     memory.NewMedicinesRepo(),
		Taken:         memory.NewTakenRepo(),
		Profiles:      memory.NewProfilesRepo(),
		Notifications: memory.NewNotificationsRepo(),
	}
}

func Open(ctx context.Context, cfg Config, log logger.Logger) (*Stores, error) {
	if log == nil {
		log = logger.Nop()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case "", DriverMemory:
		log.Info("storage: in-memory", nil)
		return NewMemory(), nil

	case DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("storage: postgres", nil)
		return &Stores{
			Driver:        DriverPostgres,
			Medicines:     postgres.NewMedicinesRepo(db),
			Taken:         postgres.NewTakenRepo(db),
			Profiles:      postgres.NewProfilesRepo(db),
			Notifications: postgres.NewNotificationsRepo(db),
			db:            db,
		}, nil

	case DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("storage: sqlite", map[string]any{"path": cfg.SQLitePath})
		return &Stores{
			Driver:        DriverSQLite,
			Medicines:     sqlite.NewMedicinesRepo(db),
			Taken:         sqlite.NewTakenRepo(db),
			Profiles:      sqlite.NewProfilesRepo(db),
			Notifications: sqlite.NewNotificationsRepo(db),
			db:            db,
		}, nil

	case DriverRemote:
		meds, err := remote.NewMedicinesRepo(cfg.Remote)
		if err != nil {
			return nil, fmt.Errorf("remote store: %w", err)
		}
		taken, err := remote.NewTakenRepo(cfg.Remote)
		if err != nil {
			return nil, fmt.Errorf("remote store: %w", err)
		}
		profiles, err := remote.NewProfilesRepo(cfg.Remote)
		if err != nil {
			return nil, fmt.Errorf("remote store: %w", err)
		}
		// El backend remoto no tiene notificaciones: quedan en memoria del proceso.
		log.Info("storage: remote", map[string]any{"base_url": cfg.Remote.BaseURL})
		return &Stores{
			Driver:        DriverRemote,
			Medicines:     meds,
			Taken:         taken,
			Profiles:      profiles,
			Notifications: memory.NewNotificationsRepo(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
