package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

// Repository is the durable notification log. MarkAsRead and MarkAllAsRead
// must be no-ops for rows that are missing, foreign or already read.
type Repository interface {
	// Create persists n and assigns n.ID.
	Create(ctx context.Context, n *domain.Notification) error
	ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error)
	ListAll(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type Service interface {
	Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string) (*domain.Notification, error)
	ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error)
	ListAll(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string) (*domain.Notification, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("create notification: unknown type %q: %w", t, domain.ErrValidation)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("create notification: invalid user id %d: %w", userID, domain.ErrValidation)
	}
	n := &domain.Notification{
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, persistence("create notification", err)
	}
	return n, nil
}

func (s *service) ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error) {
	out, err := s.repo.ListUnread(ctx, userID)
	if err != nil {
		return nil, persistence("list unread notifications", err)
	}
	return nonNil(out), nil
}

func (s *service) ListAll(ctx context.Context, userID int64) ([]domain.Notification, error) {
	out, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, persistence("list notifications", err)
	}
	return nonNil(out), nil
}

// MarkRead acknowledges one notification. Unknown or foreign ids are ignored
// so the call is idempotent and never leaks whether an id exists.
func (s *service) MarkRead(ctx context.Context, notificationID, userID int64) error {
	if err := s.repo.MarkAsRead(ctx, notificationID, userID); err != nil {
		return persistence("mark notification read", err)
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return persistence("mark all notifications read", err)
	}
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

func nonNil(ns []domain.Notification) []domain.Notification {
	if ns == nil {
		return []domain.Notification{}
	}
	return ns
}
