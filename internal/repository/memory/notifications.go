package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmmsmind/backend/internal/model"
)

type notificationRepo struct{ s *Store }

// List returns the newest notifications first.
func (r notificationRepo) List(_ context.Context, f model.NotificationFilter) ([]*model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.notifications.list(func(n *model.Notification) bool {
		if f.UnreadOnly && n.IsRead() {
			return false
		}
		if f.Type != "" && n.Type != f.Type {
			return false
		}
		return f.RelatedEntityID == "" || n.RelatedEntityID == f.RelatedEntityID
	})
	slices.SortStableFunc(out, func(a, b *model.Notification) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r notificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.notifications.get(id)
}

func (r notificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.notifications.insert(n)
}

func (r notificationRepo) MarkAsRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, err := r.s.notifications.get(id)
	if err != nil {
		return err
	}
	if n.IsRead() {
		return nil
	}
	now := time.Now().UTC()
	n.ReadAt = &now
	return r.s.notifications.update(n)
}

func (r notificationRepo) MarkAllAsRead(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	unread := r.s.notifications.list(func(n *model.Notification) bool { return !n.IsRead() })
	for _, n := range unread {
		n.ReadAt = &now
		if err := r.s.notifications.update(n); err != nil {
			return 0, err
		}
	}
	return len(unread), nil
}

func (r notificationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.notifications.remove(id)
}

func (r notificationRepo) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications.clear()
	return nil
}
