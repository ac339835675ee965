package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/medicines"
	"meditrack/internal/domain/notifications"
	"meditrack/internal/domain/profile"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/civil"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "meditrack.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// reabrir sobre el mismo archivo no debe fallar (migraciones idempotentes)
	if err := migrate(ctx, db); err != nil {
		t.Fatalf("second migrate error: %v", err)
	}

	now := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC)
	meds := NewMedicinesRepo(db)
	m := medicines.Medicine{
		ID: "m1", OwnerUserID: "user-1", Name: "Aspirin", Type: medicines.TypeTablet,
		StartDate: "2023-10-01", TimeSlots: []string{"08:00", "20:00"},
		Days: []medicines.Weekday{medicines.Mon, medicines.Fri}, CreatedAt: now, UpdatedAt: now,
	}
	if err := meds.Create(ctx, m); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	got, err := meds.GetByID(ctx, "user-1", "m1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "Aspirin" || len(got.TimeSlots) != 2 || got.Days[1] != medicines.Fri || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected medicine %#v", got)
	}
	if _, err := meds.GetByID(ctx, "user-2", "m1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for other owner, got %v", err)
	}
	owners, _ := meds.ListOwners(ctx)
	if len(owners) != 1 || owners[0] != "user-1" {
		t.Fatalf("unexpected owners %v", owners)
	}

	taken := NewTakenRepo(db)
	rec := schedule.TakenRecord{MedicineID: "m1", Date: civil.New(2023, 10, 2), TimeSlot: "08:00", TakenAt: now}
	if _, err := taken.Set(ctx, "user-1", rec); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	rec.TakenAt = now.Add(time.Hour)
	stored, err := taken.Set(ctx, "user-1", rec)
	if err != nil || !stored.TakenAt.Equal(now) {
		t.Fatalf("expected original taken_at, got %#v err=%v", stored, err)
	}
	list, _ := taken.List(ctx, "user-1", schedule.DateRange{From: civil.New(2023, 10, 1), To: civil.New(2023, 10, 31)})
	if len(list) != 1 || list[0].Date != civil.New(2023, 10, 2) {
		t.Fatalf("unexpected taken list %#v", list)
	}
	if out, _ := taken.List(ctx, "user-1", schedule.DateRange{From: civil.New(2023, 10, 3)}); len(out) != 0 {
		t.Fatalf("expected range filter to exclude record, got %#v", out)
	}
	if err := taken.Delete(ctx, "user-1", rec.Key()); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	profiles := NewProfilesRepo(db)
	if _, err := profiles.Get(ctx, "user-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found profile, got %v", err)
	}
	p := profile.Profile{UserID: "user-1", Name: "Ana", Age: 34, Preferences: profile.Preferences{ReminderEnabled: true}, UpdatedAt: now}
	if err := profiles.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	p.Preferences.DarkMode = true
	if err := profiles.Upsert(ctx, p); err != nil {
		t.Fatalf("second Upsert error: %v", err)
	}
	gotP, err := profiles.Get(ctx, "user-1")
	if err != nil || gotP.Name != "Ana" || !gotP.Preferences.ReminderEnabled || !gotP.Preferences.DarkMode {
		t.Fatalf("unexpected profile %#v err=%v", gotP, err)
	}

	notes := NewNotificationsRepo(db)
	key := rec.Key()
	n := notifications.Notification{ID: "n1", UserID: "user-1", Type: notifications.TypeReminder, Title: "Aspirin", Dose: &key, CreatedAt: now}
	if err := notes.Add(ctx, n); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	n.Read = true
	if err := notes.Update(ctx, n); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	items, _ := notes.List(ctx, "user-1")
	if len(items) != 1 || !items[0].Read || items[0].Dose == nil || *items[0].Dose != key {
		t.Fatalf("unexpected notifications %#v", items)
	}
	if err := notes.Delete(ctx, "user-1", "n1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
