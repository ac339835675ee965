package sqlite

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
	var medID, date, slot any
	if n.Dose != nil {
		medID, date, slot = n.Dose.MedicineID, n.Dose.Date.String(), n.Dose.TimeSlot
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications(id, user_id, type, title, message, read, dose_medicine_id, dose_date, dose_time_slot, created_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Read, medID, date, slot, formatTime(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationsRepo) List(ctx context.Context, userID string) ([]notifications.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, message, read, dose_medicine_id, dose_date, dose_time_slot, created_at
		 FROM notifications WHERE user_id=? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		var (
			n                 notifications.Notification
			typ, createdAt    string
			medID, date, slot sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.Read, &medID, &date, &slot, &createdAt); err != nil {
			return nil, err
		}
		n.Type = notifications.Type(typ)
		n.CreatedAt = parseTime(createdAt)
		if medID.Valid {
			if d, err := civil.Parse(date.String); err == nil {
				n.Dose = &schedule.DoseKey{MedicineID: medID.String, Date: d, TimeSlot: slot.String}
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsRepo) Update(ctx context.Context, n notifications.Notification) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET title=?, message=?, read=? WHERE id=? AND user_id=?`,
		n.Title, n.Message, n.Read, n.ID, n.UserID)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if c, _ := res.RowsAffected(); c == 0 {
		return apperr.NotFound("notification", n.ID)
	}
	return nil
}

func (r *NotificationsRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if c, _ := res.RowsAffected(); c == 0 {
		return apperr.NotFound("notification", id)
	}
	return nil
}
