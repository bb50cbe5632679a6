package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/metrics"
	"github.com/ferrypratamaa-00/monii-sub001/internal/pkg/validate"
)

// NotificationStore is the part of the notification service the notifier writes to.
type NotificationStore interface {
	Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string) (*domain.Notification, error)
}

// PreferenceGate resolves the effective preference row for one type.
type PreferenceGate interface {
	Lookup(ctx context.Context, userID int64, t domain.NotificationType) (domain.NotificationPreference, error)
}

// Pusher delivers a stored notification to the user's live stream, if any.
type Pusher interface {
	SendToUser(userID int64, n domain.Notification) bool
}

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// Publisher fans a notification out to mobile push subscribers.
type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

type Service interface {
	// Notify applies the user's preferences to a, stores and live-pushes it
	// when the push channel is enabled, and sends email when that channel is
	// enabled. A nil notification with a nil error means the alert was
	// suppressed.
	Notify(ctx context.Context, a domain.Alert) (*domain.Notification, error)
}

// ServiceDeps groups the notifier collaborators. Mailer, Publisher and
// Metrics are optional.
type ServiceDeps struct {
	Store     NotificationStore
	Gate      PreferenceGate
	Pusher    Pusher
	Mailer    Mailer
	Publisher Publisher
	Metrics   *metrics.Metrics
}

type service struct {
	ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{ServiceDeps: deps}
}

func (s *service) Notify(ctx context.Context, a domain.Alert) (*domain.Notification, error) {
	if err := validate.Struct(a); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	pref, err := s.Gate.Lookup(ctx, a.UserID, a.Type)
	if err != nil {
		return nil, err
	}

	var stored *domain.Notification
	if pref.PushEnabled {
		stored, err = s.Store.Create(ctx, a.UserID, a.Type, a.Title, a.Message)
		if err != nil {
			return nil, err
		}
		s.count(a.Type, "stored")
		s.Pusher.SendToUser(a.UserID, *stored)
		if s.Publisher != nil {
			if err := s.Publisher.Publish(ctx, *stored); err != nil {
				slog.Warn("publish push notification", "user_id", a.UserID, "notification_id", stored.ID, "err", err)
			}
		}
	} else {
		s.count(a.Type, "suppressed")
		slog.Debug("alert suppressed by push preference", "user_id", a.UserID, "type", a.Type)
	}

	if pref.EmailEnabled && a.Email != "" && s.Mailer != nil {
		if err := s.Mailer.SendEmail(a.Email, a.Title, a.Message); err != nil {
			slog.Warn("send notification email", "user_id", a.UserID, "type", a.Type, "err", err)
		} else {
			s.count(a.Type, "emailed")
		}
	}
	return stored, nil
}

func (s *service) count(t domain.NotificationType, outcome string) {
	if s.Metrics != nil {
		s.Metrics.Alerts.WithLabelValues(string(t), outcome).Inc()
	}
}
