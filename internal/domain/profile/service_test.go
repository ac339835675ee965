package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"meditrack/internal/domain/apperr"
)

type testRepo struct {
	byUser map[string]Profile
}

func newTestRepo() *testRepo { return &testRepo{byUser: map[string]Profile{}} }

func (r *testRepo) Get(ctx context.Context, userID string) (Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return Profile{}, apperr.NotFound("profile", userID)
	}
	return p, nil
}

func (r *testRepo) Upsert(ctx context.Context, p Profile) error {
	r.byUser[p.UserID] = p
	return nil
}

func TestService_Get_DefaultProfile(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC) }

	p, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if p.UserID != "user-1" || !p.Preferences.ReminderEnabled || p.JoinDate != "2023-10-01" {
		t.Fatalf("unexpected default profile %#v", p)
	}
}

func TestService_Update_Partial(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	name, age, off := "  Ana ", 34, false
	p, err := svc.Update(ctx, "user-1", UpdateInput{Name: &name, Age: &age, ReminderEnabled: &off})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if p.Name != "Ana" || p.Age != 34 || p.Preferences.ReminderEnabled {
		t.Fatalf("unexpected profile %#v", p)
	}

	blood := "ab+"
	p2, err := svc.Update(ctx, "user-1", UpdateInput{BloodGroup: &blood})
	if err != nil {
		t.Fatalf("second Update error: %v", err)
	}
	if p2.Name != "Ana" || p2.BloodGroup != "AB+" {
		t.Fatalf("expected previous fields kept, got %#v", p2)
	}

	enabled, _ := svc.RemindersEnabled(ctx, "user-1")
	if enabled {
		t.Fatalf("expected reminders disabled")
	}
}

func TestService_Update_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	neg := -1
	if _, err := svc.Update(ctx, "user-1", UpdateInput{Age: &neg}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for age, got %v", err)
	}
	email := "not-an-email"
	if _, err := svc.Update(ctx, "user-1", UpdateInput{Email: &email}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for email, got %v", err)
	}
	blood := "Z+"
	if _, err := svc.Update(ctx, "user-1", UpdateInput{BloodGroup: &blood}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for blood group, got %v", err)
	}
}
