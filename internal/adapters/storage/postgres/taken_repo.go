package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/civil"
)

type TakenRepo struct {
	db *sql.DB
}

func NewTakenRepo(db *sql.DB) *TakenRepo {
	return &TakenRepo{db: db}
}

func (r *TakenRepo) List(ctx context.Context, ownerUserID string, rng schedule.DateRange) ([]schedule.TakenRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT medicine_id, dose_date, time_slot, taken_at
		FROM taken_doses
		WHERE owner_user_id = $1
		  AND ($2::date IS NULL OR dose_date >= $2::date)
		  AND ($3::date IS NULL OR dose_date <= $3::date)
		ORDER BY dose_date ASC, time_slot ASC, medicine_id ASC
	`, ownerUserID, toNullDate(rng.From), toNullDate(rng.To))
	if err != nil {
		return nil, fmt.Errorf("list taken doses: %w", err)
	}
	defer rows.Close()

	out := make([]schedule.TakenRecord, 0)
	for rows.Next() {
		var (
			rec schedule.TakenRecord
			d   time.Time
		)
		if err := rows.Scan(&rec.MedicineID, &d, &rec.TimeSlot, &rec.TakenAt); err != nil {
			return nil, err
		}
		rec.Date = civil.DateOf(d)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Set: ON CONFLICT DO NOTHING conserva el taken_at original.
func (r *TakenRepo) Set(ctx context.Context, ownerUserID string, rec schedule.TakenRecord) (schedule.TakenRecord, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO taken_doses (owner_user_id, medicine_id, dose_date, time_slot, taken_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (owner_user_id, medicine_id, dose_date, time_slot) DO NOTHING
	`, ownerUserID, rec.MedicineID, rec.Date.Time(), rec.TimeSlot, rec.TakenAt)
	if err != nil {
		return schedule.TakenRecord{}, fmt.Errorf("insert taken dose: %w", err)
	}

	stored := rec
	err = r.db.QueryRowContext(ctx, `
		SELECT taken_at FROM taken_doses
		WHERE owner_user_id = $1 AND medicine_id = $2 AND dose_date = $3 AND time_slot = $4
	`, ownerUserID, rec.MedicineID, rec.Date.Time(), rec.TimeSlot).Scan(&stored.TakenAt)
	if err != nil {
		return schedule.TakenRecord{}, fmt.Errorf("read taken dose: %w", err)
	}
	return stored, nil
}

func (r *TakenRepo) Delete(ctx context.Context, ownerUserID string, key schedule.DoseKey) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM taken_doses
		WHERE owner_user_id = $1 AND medicine_id = $2 AND dose_date = $3 AND time_slot = $4
	`, ownerUserID, key.MedicineID, key.Date.Time(), key.TimeSlot)
	if err != nil {
		return fmt.Errorf("delete taken dose: %w", err)
	}
	return nil
}

func toNullDate(d civil.Date) sql.NullTime {
	if d.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: d.Time(), Valid: true}
}
