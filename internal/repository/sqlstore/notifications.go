package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/cmmsmind/backend/internal/model"
)

var notifications = mapper[model.Notification, *model.Notification]{
	name:    "notification",
	table:   "notifications",
	prefix:  model.PrefixNotification,
	columns: []string{"type", "message", "severity", "related_entity_type", "related_entity_id", "read_at"},
	values: func(n *model.Notification) []any {
		return []any{string(n.Type), n.Message, string(n.Severity), n.RelatedEntityType, n.RelatedEntityID, nullStampValue(n.ReadAt)}
	},
	dest: func(n *model.Notification) []any {
		return []any{&n.Type, &n.Message, &n.Severity, &n.RelatedEntityType, &n.RelatedEntityID, nullStamp{&n.ReadAt}}
	},
}

type notificationRepo struct{ s *Store }

// List returns the newest notifications first.
func (r notificationRepo) List(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, error) {
	where := sq.And{}
	if f.UnreadOnly {
		where = append(where, sq.Eq{"read_at": nil})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"type": string(f.Type)})
	}
	if f.RelatedEntityID != "" {
		where = append(where, sq.Eq{"related_entity_id": f.RelatedEntityID})
	}
	return notifications.list(ctx, r.s.conn, where, "created_at DESC", "id")
}

func (r notificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	return notifications.get(ctx, r.s.conn, id)
}

func (r notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return notifications.insert(ctx, r.s.conn, n)
}

// MarkAsRead keeps the first read time of an already read notification.
func (r notificationRepo) MarkAsRead(ctx context.Context, id string) error {
	ts := stampValue(now())
	b := r.s.sb.Update(notifications.table).
		Set("read_at", ts).
		Set("updated_at", ts).
		Where(sq.Eq{"id": id, "read_at": nil})
	n, err := r.s.exec(ctx, b)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n > 0 {
		return nil
	}
	found, err := notifications.exists(ctx, r.s.conn, id)
	if err != nil {
		return err
	}
	if !found {
		return notifications.notFound(id)
	}
	return nil
}

func (r notificationRepo) MarkAllAsRead(ctx context.Context) (int, error) {
	ts := stampValue(now())
	b := r.s.sb.Update(notifications.table).
		Set("read_at", ts).
		Set("updated_at", ts).
		Where(sq.Eq{"read_at": nil})
	n, err := r.s.exec(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(n), nil
}

func (r notificationRepo) Delete(ctx context.Context, id string) error {
	return notifications.remove(ctx, r.s.conn, id)
}

func (r notificationRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.s.exec(ctx, r.s.sb.Delete(notifications.table)); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}
