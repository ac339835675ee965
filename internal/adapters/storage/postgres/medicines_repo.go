package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

const medicineColumns = `
	id, owner_user_id, name, type, color, dosage,
	start_date, end_date, time_slots, days, notes,
	created_at, updated_at`

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	slots, days, err := encodeSchedule(m)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medicines (`+medicineColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		string(m.Type),
		m.Color,
		m.Dosage,
		m.StartDate,
		m.EndDate,
		slots,
		days,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	slots, days, err := encodeSchedule(m)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET
			name = $3,
			type = $4,
			color = $5,
			dosage = $6,
			start_date = $7,
			end_date = $8,
			time_slots = $9,
			days = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1 AND owner_user_id = $2
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		string(m.Type),
		m.Color,
		m.Dosage,
		m.StartDate,
		m.EndDate,
		slots,
		days,
		m.Notes,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("medicine", m.ID)
	}
	return nil
}

func (r *MedicinesRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1 AND owner_user_id = $2`, id, ownerUserID)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("medicine", id)
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, ownerUserID, id string) (medicines.Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medicines.Medicine{}, apperr.NotFound("medicine", id)
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE id = $1 AND owner_user_id = $2
	`, id, ownerUserID)

	m, err := scanMedicine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return medicines.Medicine{}, apperr.NotFound("medicine", id)
	}
	if err != nil {
		return medicines.Medicine{}, err
	}
	return m, nil
}

func (r *MedicinesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medicines.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE owner_user_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerUserID)
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
		m     medicines.Medicine
		typ   string
		slots string
		days  string
	)
	if err := s.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&typ,
		&m.Color,
		&m.Dosage,
		&m.StartDate,
		&m.EndDate,
		&slots,
		&days,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medicines.Medicine{}, err
	}

	m.Type = medicines.Type(typ)
	// JSON roto deja los slices vacíos: el engine descarta la medicina con warning.
	_ = json.Unmarshal([]byte(slots), &m.TimeSlots)
	_ = json.Unmarshal([]byte(days), &m.Days)
	return m, nil
}

// helpers
func encodeSchedule(m medicines.Medicine) (string, string, error) {
	slots := m.TimeSlots
	if slots == nil {
		slots = []string{}
	}
	days := m.Days
	if days == nil {
		days = []medicines.Weekday{}
	}
	bs, err := json.Marshal(slots)
	if err != nil {
		return "", "", err
	}
	bd, err := json.Marshal(days)
	if err != nil {
		return "", "", err
	}
	return string(bs), string(bd), nil
}
