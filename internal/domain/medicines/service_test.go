package medicines

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"meditrack/internal/domain/apperr"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Medicine
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medicine{}}
}

func (r *testRepo) Create(ctx context.Context, m Medicine) error {
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medicine) error {
	if _, ok := r.byID[m.ID]; !ok {
		return apperr.NotFound("medicine", m.ID)
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	m, ok := r.byID[id]
	if !ok || m.OwnerUserID != ownerUserID {
		return apperr.NotFound("medicine", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, ownerUserID, id string) (Medicine, error) {
	m, ok := r.byID[id]
	if !ok || m.OwnerUserID != ownerUserID {
		return Medicine{}, apperr.NotFound("medicine", id)
	}
	return m, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Medicine, error) {
	out := make([]Medicine, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) ListOwners(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	out := []string{}
	for _, m := range r.byID {
		if _, ok := seen[m.OwnerUserID]; !ok {
			seen[m.OwnerUserID] = struct{}{}
			out = append(out, m.OwnerUserID)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NormalizesInput(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:      "  Aspirin ",
		Type:      "Tablet",
		StartDate: "2023-10-01",
		TimeSlots: []string{"20:00", "8:00", "08:00"},
		Days:      []string{"fri", "Mon", "wed", "mon"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if m.ID == "" || m.OwnerUserID != "user-1" || m.Name != "Aspirin" || m.Type != TypeTablet {
		t.Fatalf("unexpected medicine %#v", m)
	}
	if !reflect.DeepEqual(m.TimeSlots, []string{"08:00", "20:00"}) {
		t.Fatalf("expected sorted unique slots, got %v", m.TimeSlots)
	}
	if !reflect.DeepEqual(m.Days, []Weekday{Mon, Wed, Fri}) {
		t.Fatalf("expected canonical days, got %v", m.Days)
	}
	if m.CreatedAt != now || m.UpdatedAt != now {
		t.Fatalf("expected timestamps = now")
	}
}

func TestService_Create_ValidationError(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:      "Aspirin",
		StartDate: "2023-10-10",
		EndDate:   "2023-10-01",
		TimeSlots: []string{"08:00"},
		Days:      []string{"Mon"},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(context.Background(), "user-1", CreateInput{
		Name:      "Aspirin",
		StartDate: "2023-10-01",
		TimeSlots: []string{"08:00"},
		Days:      []string{"Someday"},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for bad day, got %v", err)
	}
}

func TestService_Update_PartialAndClearEndDate(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	m, err := svc.Create(ctx, "user-1", CreateInput{
		Name:      "Vitamin D",
		StartDate: "2023-09-15",
		EndDate:   "2023-12-31",
		TimeSlots: []string{"09:00"},
		Days:      []string{"Mon"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	empty := ""
	slots := []string{"09:00", "21:00"}
	updated, err := svc.Update(ctx, "user-1", m.ID, UpdateInput{EndDate: &empty, TimeSlots: &slots})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.EndDate != "" || len(updated.TimeSlots) != 2 || updated.Name != "Vitamin D" {
		t.Fatalf("unexpected update result %#v", updated)
	}

	if _, err := svc.Update(ctx, "user-2", m.ID, UpdateInput{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}

func TestService_List_FiltersAndSorts(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	mk := func(name, typ string, days ...string) {
		t.Helper()
		if _, err := svc.Create(ctx, "user-1", CreateInput{
			Name: name, Type: typ, StartDate: "2023-01-01", TimeSlots: []string{"08:00"}, Days: days,
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	mk("vitamin D", "capsule", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat")
	mk("Aspirin", "tablet", "Mon", "Wed")
	mk("Ibuprofen", "tablet", "Tue")

	all, err := svc.List(ctx, "user-1", ListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Aspirin" || all[2].Name != "vitamin D" {
		t.Fatalf("expected name-sorted list, got %v", names(all))
	}

	tablets, _ := svc.List(ctx, "user-1", ListFilter{Query: "TABLET"})
	if len(tablets) != 2 {
		t.Fatalf("expected 2 tablets, got %v", names(tablets))
	}

	daily, _ := svc.List(ctx, "user-1", ListFilter{Frequency: FrequencyDaily})
	if len(daily) != 1 || daily[0].Name != "vitamin D" {
		t.Fatalf("expected only vitamin D daily, got %v", names(daily))
	}

	summary, _ := svc.TypeSummary(ctx, "user-1")
	if summary[TypeTablet] != 2 || summary[TypeCapsule] != 1 {
		t.Fatalf("unexpected summary %#v", summary)
	}
}

func TestService_SnapshotAndTypeSummary_ScopeByOwner(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	for _, owner := range []string{"user-1", "user-1", "user-2"} {
		if _, err := svc.Create(ctx, owner, CreateInput{
			Name: "Aspirin", Type: "tablet", StartDate: "2023-01-01", TimeSlots: []string{"08:00"}, Days: []string{"Mon"},
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	snap, err := svc.Snapshot(ctx, "  user-1 ")
	if err != nil || len(snap) != 2 {
		t.Fatalf("expected 2 medicines for user-1, got %d err=%v", len(snap), err)
	}
	summary, err := svc.TypeSummary(ctx, "user-2")
	if err != nil || summary[TypeTablet] != 1 || len(summary) != 1 {
		t.Fatalf("unexpected summary for user-2 %#v err=%v", summary, err)
	}
}

func TestService_Delete_UnknownIsNotFound(t *testing.T) {
	svc := NewService(newTestRepo())
	if err := svc.Delete(context.Background(), "user-1", "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func names(ms []Medicine) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}
