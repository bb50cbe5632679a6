package sqlite

import (
	"context"
	"testing"

	"github.com/ferrypratamaa-00/monii-sub001/internal/application/notification"
	"github.com/ferrypratamaa-00/monii-sub001/internal/application/preference"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestScenario_OfflineBudgetAlertIsUnread(t *testing.T) {
	svc := notification.NewService(NewNotificationRepo(openTestDB(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, 7, domain.TypeBudgetAlert, "Over budget", "Dining is at 130%")
	require.NoError(t, err)

	unread, err := svc.ListUnread(ctx, 7)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].IsRead)

	require.NoError(t, svc.MarkAllRead(ctx, 7))
	unread, err = svc.ListUnread(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestScenario_UpdateOneTypeOthersDefault(t *testing.T) {
	svc := preference.NewService(NewPreferenceRepo(openTestDB(t)))
	ctx := context.Background()

	require.NoError(t, svc.UpdateMany(ctx, 7, domain.UpdatePreferencesRequest{
		Preferences: []domain.PreferenceEntry{{
			NotificationType: domain.TypeBudgetAlert,
			EmailEnabled:     boolPtr(false),
			SoundEnabled:     boolPtr(true),
			PushEnabled:      boolPtr(true),
		}},
	}))

	prefs, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	require.Len(t, prefs, 3)
	assert.Equal(t, domain.TypeBudgetAlert, prefs[0].NotificationType)
	assert.False(t, prefs[0].EmailEnabled)
	assert.True(t, prefs[0].SoundEnabled)
	for _, p := range prefs[1:] {
		assert.Equal(t, domain.DefaultPreference(7, p.NotificationType), p)
	}
}

func TestScenario_MalformedUpdateLeavesRowsUntouched(t *testing.T) {
	svc := preference.NewService(NewPreferenceRepo(openTestDB(t)))
	ctx := context.Background()
	require.NoError(t, svc.ResetToDefaults(ctx, 7))
	before, err := svc.Get(ctx, 7)
	require.NoError(t, err)

	err = svc.UpdateMany(ctx, 7, domain.UpdatePreferencesRequest{
		Preferences: []domain.PreferenceEntry{
			{NotificationType: domain.TypeGoalReminder, EmailEnabled: boolPtr(false), SoundEnabled: boolPtr(false), PushEnabled: boolPtr(false)},
			{NotificationType: domain.TypeBudgetAlert, EmailEnabled: boolPtr(false), PushEnabled: boolPtr(false)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	after, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestScenario_ResetTwiceSameState(t *testing.T) {
	repo := NewPreferenceRepo(openTestDB(t))
	svc := preference.NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.ResetToDefaults(ctx, 7))
	require.NoError(t, svc.ResetToDefaults(ctx, 7))

	rows, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, rows, len(domain.NotificationTypes()))
	for _, p := range rows {
		assert.True(t, p.EmailEnabled && p.SoundEnabled && p.PushEnabled)
	}
}
