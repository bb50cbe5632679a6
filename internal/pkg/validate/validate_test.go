package validate

import (
	"testing"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestStruct_PreferencesMissingFlag(t *testing.T) {
	req := domain.UpdatePreferencesRequest{Preferences: []domain.PreferenceEntry{{
		NotificationType: domain.TypeBudgetAlert,
		EmailEnabled:     boolPtr(false),
		PushEnabled:      boolPtr(true),
	}}}
	err := Struct(req)
	assert.ErrorContains(t, err, "SoundEnabled")
}

func TestStruct_PreferencesFalseFlagsAreValid(t *testing.T) {
	req := domain.UpdatePreferencesRequest{Preferences: []domain.PreferenceEntry{{
		NotificationType: domain.TypeGoalReminder,
		EmailEnabled:     boolPtr(false),
		SoundEnabled:     boolPtr(false),
		PushEnabled:      boolPtr(false),
	}}}
	assert.NoError(t, Struct(req))
}

func TestStruct_UnknownNotificationType(t *testing.T) {
	req := domain.UpdatePreferencesRequest{Preferences: []domain.PreferenceEntry{{
		NotificationType: "WEEKLY_DIGEST",
		EmailEnabled:     boolPtr(true),
		SoundEnabled:     boolPtr(true),
		PushEnabled:      boolPtr(true),
	}}}
	assert.ErrorContains(t, Struct(req), "notification_type")
}

func TestStruct_EmptyPreferenceList(t *testing.T) {
	assert.Error(t, Struct(domain.UpdatePreferencesRequest{}))
}

func TestStruct_Alert(t *testing.T) {
	ok := domain.Alert{UserID: 7, Type: domain.TypeBudgetAlert, Title: "Over budget", Message: "Groceries at 120%"}
	assert.NoError(t, Struct(ok))

	bad := ok
	bad.UserID = 0
	bad.Email = "not-an-email"
	err := Struct(bad)
	assert.ErrorContains(t, err, "UserID")
	assert.ErrorContains(t, err, "Email")
}
