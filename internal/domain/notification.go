package domain

import (
	"fmt"
	"time"
)

// NotificationType is the closed set of alerts the pipeline can deliver.
type NotificationType string

const (
	TypeBudgetAlert      NotificationType = "BUDGET_ALERT"
	TypeGoalReminder     NotificationType = "GOAL_REMINDER"
	TypeTransactionAlert NotificationType = "TRANSACTION_ALERT"
)

var notificationTypes = []NotificationType{
	TypeBudgetAlert,
	TypeGoalReminder,
	TypeTransactionAlert,
}

// NotificationTypes returns every supported type in a stable order.
func NotificationTypes() []NotificationType {
	out := make([]NotificationType, len(notificationTypes))
	copy(out, notificationTypes)
	return out
}

// Valid reports whether t is one of the supported types.
func (t NotificationType) Valid() bool {
	for _, known := range notificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseNotificationType converts s into a NotificationType.
func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown notification type %q: %w", s, ErrValidation)
	}
	return t, nil
}

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Alert is a notification-worthy event raised by a budget, goal or
// transaction evaluation job.
type Alert struct {
	UserID  int64            `json:"userId" validate:"required,gt=0"`
	Type    NotificationType `json:"type" validate:"required,notification_type"`
	Title   string           `json:"title" validate:"required,max=200"`
	Message string           `json:"message" validate:"required"`
	// Email is the recipient address for the email channel. Optional.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type MarkReadRequest struct {
	NotificationID *int64 `json:"notificationId" validate:"required,gt=0"`
}

type BroadcastRequest struct {
	Type    NotificationType `json:"type" validate:"required,notification_type"`
	Title   string           `json:"title" validate:"required,max=200"`
	Message string           `json:"message" validate:"required"`
}
