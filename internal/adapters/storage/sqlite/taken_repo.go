package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/civil"
)

type TakenRepo struct {
	db *sql.DB
}

func NewTakenRepo(db *sql.DB) *TakenRepo {
	return &TakenRepo{db: db}
}

// List compara fechas como texto: YYYY-MM-DD ordena igual que la fecha.
func (r *TakenRepo) List(ctx context.Context, ownerUserID string, rng schedule.DateRange) ([]schedule.TakenRecord, error) {
	from, to := "0000-00-00", "9999-12-31"
	if !rng.From.IsZero() {
		from = rng.From.String()
	}
	if !rng.To.IsZero() {
		to = rng.To.String()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT medicine_id, dose_date, time_slot, taken_at
		 FROM taken_doses
		 WHERE owner_user_id=? AND dose_date >= ? AND dose_date <= ?
		 ORDER BY dose_date, time_slot, medicine_id`,
		ownerUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list taken doses: %w", err)
	}
	defer rows.Close()

	out := make([]schedule.TakenRecord, 0)
	for rows.Next() {
		var (
			rec           schedule.TakenRecord
			date, takenAt string
		)
		if err := rows.Scan(&rec.MedicineID, &date, &rec.TimeSlot, &takenAt); err != nil {
			return nil, err
		}
		d, err := civil.Parse(date)
		if err != nil {
			continue
		}
		rec.Date = d
		rec.TakenAt = parseTime(takenAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *TakenRepo) Set(ctx context.Context, ownerUserID string, rec schedule.TakenRecord) (schedule.TakenRecord, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO taken_doses(owner_user_id, medicine_id, dose_date, time_slot, taken_at)
		 VALUES(?,?,?,?,?)
		 ON CONFLICT(owner_user_id, medicine_id, dose_date, time_slot) DO NOTHING`,
		ownerUserID, rec.MedicineID, rec.Date.String(), rec.TimeSlot, formatTime(rec.TakenAt),
	); err != nil {
		return schedule.TakenRecord{}, fmt.Errorf("insert taken dose: %w", err)
	}

	var takenAt string
	if err := r.db.QueryRowContext(ctx,
		`SELECT taken_at FROM taken_doses WHERE owner_user_id=? AND medicine_id=? AND dose_date=? AND time_slot=?`,
		ownerUserID, rec.MedicineID, rec.Date.String(), rec.TimeSlot,
	).Scan(&takenAt); err != nil {
		return schedule.TakenRecord{}, fmt.Errorf("read taken dose: %w", err)
	}
	rec.TakenAt = parseTime(takenAt)
	return rec, nil
}

func (r *TakenRepo) Delete(ctx context.Context, ownerUserID string, key schedule.DoseKey) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM taken_doses WHERE owner_user_id=? AND medicine_id=? AND dose_date=? AND time_slot=?`,
		ownerUserID, key.MedicineID, key.Date.String(), key.TimeSlot,
	); err != nil {
		return fmt.Errorf("delete taken dose: %w", err)
	}
	return nil
}
