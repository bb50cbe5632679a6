package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

// NotificationRepo stores the notification log in the notifications table.
type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, message, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, string(n.Type), n.Title, n.Message, boolToInt(n.IsRead), n.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("notification id: %w", err)
	}
	n.ID = id
	return nil
}

func (r *NotificationRepo) ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return r.list(ctx,
		`SELECT id, user_id, type, title, message, is_read, created_at FROM notifications
		 WHERE user_id = ? AND is_read = 0 ORDER BY created_at ASC, id ASC`, userID)
}

func (r *NotificationRepo) ListAll(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return r.list(ctx,
		`SELECT id, user_id, type, title, message, is_read, created_at FROM notifications
		 WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
}

// MarkAsRead is scoped by owner; zero affected rows is not an error.
func (r *NotificationRepo) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ? AND is_read = 0`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification %d read: %w", notificationID, err)
	}
	return nil
}

func (r *NotificationRepo) MarkAllAsRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			typ       string
			isRead    int
			createdAt int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &isRead, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = domain.NotificationType(typ)
		n.IsRead = isRead != 0
		n.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}
