package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/civil"
	"meditrack/internal/platform/httpclient"
)

type takenDTO struct {
	MedicineID string    `json:"medicineId"`
	Date       string    `json:"date"`
	TimeSlot   string    `json:"timeSlot"`
	TakenAt    time.Time `json:"takenAt"`
}

type TakenRepo struct {
	c *client
}

func NewTakenRepo(cfg Config) (*TakenRepo, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &TakenRepo{c: c}, nil
}

func (r *TakenRepo) List(ctx context.Context, ownerUserID string, rng schedule.DateRange) ([]schedule.TakenRecord, error) {
	q := url.Values{}
	if !rng.From.IsZero() {
		q.Set("from", rng.From.String())
	}
	if !rng.To.IsZero() {
		q.Set("to", rng.To.String())
	}
	path := "/medicines/taken"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var dtos []takenDTO
	if err := r.c.do(ctx, http.MethodGet, path, ownerUserID, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]schedule.TakenRecord, 0, len(dtos))
	for _, d := range dtos {
		date, err := civil.Parse(d.Date)
		if err != nil {
			continue
		}
		// el backend puede ignorar from/to: filtramos igual
		if !rng.Contains(date) {
			continue
		}
		out = append(out, schedule.TakenRecord{MedicineID: d.MedicineID, Date: date, TimeSlot: d.TimeSlot, TakenAt: d.TakenAt})
	}
	return out, nil
}

// Set busca la clave antes de hacer POST: el backend no garantiza un registro
// por clave, así que una segunda marca devuelve el original sin duplicar.
func (r *TakenRepo) Set(ctx context.Context, ownerUserID string, rec schedule.TakenRecord) (schedule.TakenRecord, error) {
	existing, err := r.List(ctx, ownerUserID, schedule.DateRange{From: rec.Date, To: rec.Date})
	if err != nil {
		return schedule.TakenRecord{}, err
	}
	for _, e := range existing {
		if e.Key() == rec.Key() {
			return e, nil
		}
	}

	in := takenDTO{MedicineID: rec.MedicineID, Date: rec.Date.String(), TimeSlot: rec.TimeSlot, TakenAt: rec.TakenAt}
	var out takenDTO
	if err := r.c.do(ctx, http.MethodPost, "/medicines/taken", ownerUserID, in, &out); err != nil {
		return schedule.TakenRecord{}, err
	}
	if !out.TakenAt.IsZero() {
		rec.TakenAt = out.TakenAt
	}
	return rec, nil
}

func (r *TakenRepo) Delete(ctx context.Context, ownerUserID string, key schedule.DoseKey) error {
	q := url.Values{}
	q.Set("medicineId", key.MedicineID)
	q.Set("date", key.Date.String())
	q.Set("timeSlot", key.TimeSlot)

	err := r.c.do(ctx, http.MethodDelete, "/medicines/taken?"+q.Encode(), ownerUserID, nil, nil)
	if httpclient.IsStatus(err, http.StatusNotFound) {
		// ya no estaba
		return nil
	}
	return err
}
