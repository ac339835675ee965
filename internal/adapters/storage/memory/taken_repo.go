package memory

import (
	"context"
	"sort"
	"sync"

	"meditrack/internal/domain/schedule"
)

type takenRepo struct {
	mu      sync.RWMutex
	byOwner map[string][]schedule.TakenRecord
}

func NewTakenRepo() schedule.TakenRepository {
	return &takenRepo{
		byOwner: make(map[string][]schedule.TakenRecord),
	}
}

func (r *takenRepo) List(ctx context.Context, ownerUserID string, rng schedule.DateRange) ([]schedule.TakenRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.TakenRecord, 0)
	for _, rec := range r.byOwner[ownerUserID] {
		if rng.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].MedicineID < out[j].MedicineID
	})
	return out, nil
}

func (r *takenRepo) Set(ctx context.Context, ownerUserID string, rec schedule.TakenRecord) (schedule.TakenRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := schedule.ToggleDoseTaken(r.byOwner[ownerUserID], rec.Key(), true, rec.TakenAt)
	r.byOwner[ownerUserID] = next
	for _, cur := range next {
		if cur.Key() == rec.Key() {
			return cur, nil
		}
	}
	return rec, nil
}

func (r *takenRepo) Delete(ctx context.Context, ownerUserID string, key schedule.DoseKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byOwner[ownerUserID] = schedule.ToggleDoseTaken(r.byOwner[ownerUserID], key, false, key.Date.Time())
	return nil
}
