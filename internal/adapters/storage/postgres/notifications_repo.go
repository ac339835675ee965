package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/notifications"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/civil"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

func (r *NotificationsRepo) Add(ctx context.Context, n notifications.Notification) error {
	medID, date, slot := doseColumns(n.Dose)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, type, title, message, read,
			dose_medicine_id, dose_date, dose_time_slot, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		n.ID,
		n.UserID,
		string(n.Type),
		n.Title,
		n.Message,
		n.Read,
		medID,
		date,
		slot,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationsRepo) List(ctx context.Context, userID string) ([]notifications.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id, type, title, message, read,
			dose_medicine_id, dose_date, dose_time_slot, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		var (
			n                 notifications.Notification
			typ               string
			medID, date, slot sql.NullString
		)
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&typ,
			&n.Title,
			&n.Message,
			&n.Read,
			&medID,
			&date,
			&slot,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		n.Type = notifications.Type(typ)
		n.Dose = doseFromColumns(medID, date, slot)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsRepo) Update(ctx context.Context, n notifications.Notification) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET title = $3, message = $4, read = $5
		WHERE id = $1 AND user_id = $2
	`, n.ID, n.UserID, n.Title, n.Message, n.Read)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if c, _ := res.RowsAffected(); c == 0 {
		return apperr.NotFound("notification", n.ID)
	}
	return nil
}

func (r *NotificationsRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if c, _ := res.RowsAffected(); c == 0 {
		return apperr.NotFound("notification", id)
	}
	return nil
}

func doseColumns(k *schedule.DoseKey) (sql.NullString, sql.NullString, sql.NullString) {
	if k == nil {
		return sql.NullString{}, sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: k.MedicineID, Valid: true},
		sql.NullString{String: k.Date.String(), Valid: true},
		sql.NullString{String: k.TimeSlot, Valid: true}
}

func doseFromColumns(medID, date, slot sql.NullString) *schedule.DoseKey {
	if !medID.Valid {
		return nil
	}
	d, err := civil.Parse(date.String)
	if err != nil {
		return nil
	}
	return &schedule.DoseKey{MedicineID: medID.String, Date: d, TimeSlot: slot.String}
}
