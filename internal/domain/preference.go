package domain

import "time"

// Channel is a delivery channel that can be toggled per notification type.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSound Channel = "sound"
	ChannelPush  Channel = "push"
)

// Channels returns every delivery channel.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSound, ChannelPush}
}

type NotificationPreference struct {
	UserID           int64            `json:"userId"`
	NotificationType NotificationType `json:"notificationType"`
	EmailEnabled     bool             `json:"emailEnabled"`
	SoundEnabled     bool             `json:"soundEnabled"`
	PushEnabled      bool             `json:"pushEnabled"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Enabled reports the flag for ch. Unknown channels are disabled.
func (p NotificationPreference) Enabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelSound:
		return p.SoundEnabled
	case ChannelPush:
		return p.PushEnabled
	}
	return false
}

// DefaultPreference is the row used for a type the user never configured:
// every channel enabled.
func DefaultPreference(userID int64, t NotificationType) NotificationPreference {
	return NotificationPreference{
		UserID:           userID,
		NotificationType: t,
		EmailEnabled:     true,
		SoundEnabled:     true,
		PushEnabled:      true,
	}
}

// DefaultPreferences builds the full default matrix, one row per type.
func DefaultPreferences(userID int64, now time.Time) []NotificationPreference {
	prefs := make([]NotificationPreference, 0, len(notificationTypes))
	for _, t := range notificationTypes {
		p := DefaultPreference(userID, t)
		p.UpdatedAt = now
		prefs = append(prefs, p)
	}
	return prefs
}

// PreferenceEntry is one row of an update payload. The flags are pointers so
// a missing field can be told apart from false.
type PreferenceEntry struct {
	NotificationType NotificationType `json:"notificationType" validate:"required,notification_type"`
	EmailEnabled     *bool            `json:"emailEnabled" validate:"required"`
	SoundEnabled     *bool            `json:"soundEnabled" validate:"required"`
	PushEnabled      *bool            `json:"pushEnabled" validate:"required"`
}

type UpdatePreferencesRequest struct {
	Preferences []PreferenceEntry `json:"preferences" validate:"required,min=1,dive"`
}
