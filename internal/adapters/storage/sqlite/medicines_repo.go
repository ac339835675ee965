package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

const medicineColumns = `id, owner_user_id, name, type, color, dosage, start_date, end_date, time_slots, days, notes, created_at, updated_at`

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	slots, days := encodeList(m.TimeSlots), encodeList(m.Days)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO medicines(`+medicineColumns+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.OwnerUserID, m.Name, string(m.Type), m.Color, m.Dosage,
		m.StartDate, m.EndDate, slots, days, m.Notes,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medicines
		 SET name=?, type=?, color=?, dosage=?, start_date=?, end_date=?, time_slots=?, days=?, notes=?, updated_at=?
		 WHERE id=? AND owner_user_id=?`,
		m.Name, string(m.Type), m.Color, m.Dosage, m.StartDate, m.EndDate,
		encodeList(m.TimeSlots), encodeList(m.Days), m.Notes, formatTime(m.UpdatedAt),
		m.ID, m.OwnerUserID,
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("medicine", m.ID)
	}
	return nil
}

func (r *MedicinesRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id=? AND owner_user_id=?`, id, ownerUserID)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("medicine", id)
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, ownerUserID, id string) (medicines.Medicine, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+medicineColumns+` FROM medicines WHERE id=? AND owner_user_id=?`, id, ownerUserID)
	m, err := scanMedicine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return medicines.Medicine{}, apperr.NotFound("medicine", id)
	}
	return m, err
}

func (r *MedicinesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medicines.Medicine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+medicineColumns+` FROM medicines WHERE owner_user_id=? ORDER BY created_at, id`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	out := make([]medicines.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicinesRepo) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT owner_user_id FROM medicines ORDER BY owner_user_id`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedicine(s scanner) (medicines.Medicine, error) {
	var (
		m                    medicines.Medicine
		typ, slots, days     string
		createdAt, updatedAt string
	)
	if err := s.Scan(&m.ID, &m.OwnerUserID, &m.Name, &typ, &m.Color, &m.Dosage,
		&m.StartDate, &m.EndDate, &slots, &days, &m.Notes, &createdAt, &updatedAt); err != nil {
		return medicines.Medicine{}, err
	}
	m.Type = medicines.Type(typ)
	_ = json.Unmarshal([]byte(slots), &m.TimeSlots)
	_ = json.Unmarshal([]byte(days), &m.Days)
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return m, nil
}

func encodeList[T any](in []T) string {
	if len(in) == 0 {
		return "[]"
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "[]"
	}
	return string(b)
}
