package memory

import (
	"context"
	"errors"
	"sync"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/domain/notifications"
)

type notificationRepo struct {
	mu   sync.RWMutex
	byID map[string]notifications.Notification
	// orden de inserción, para listar estable
	order []string
}

func NewNotificationsRepo() notifications.Repository {
	return &notificationRepo{
		byID: make(map[string]notifications.Notification),
	}
}

func (r *notificationRepo) Add(ctx context.Context, n notifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		return errors.New("notification id required")
	}
	if _, exists := r.byID[n.ID]; exists {
		return errors.New("notification already exists")
	}
	r.byID[n.ID] = cloneNotification(n)
	r.order = append(r.order, n.ID)
	return nil
}

func (r *notificationRepo) List(ctx context.Context, userID string) ([]notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	for _, id := range r.order {
		n, ok := r.byID[id]
		if ok && n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	return out, nil
}

func (r *notificationRepo) Update(ctx context.Context, n notifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[n.ID]
	if !ok || cur.UserID != n.UserID {
		return apperr.NotFound("notification", n.ID)
	}
	r.byID[n.ID] = cloneNotification(n)
	return nil
}

func (r *notificationRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok || cur.UserID != userID {
		return apperr.NotFound("notification", id)
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneNotification(n notifications.Notification) notifications.Notification {
	if n.Dose != nil {
		d := *n.Dose
		n.Dose = &d
	}
	return n
}
