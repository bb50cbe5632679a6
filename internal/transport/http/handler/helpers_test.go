package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	jwtinfra "github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/jwt"
	"github.com/ferrypratamaa-00/monii-sub001/internal/transport/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockNotifSvc struct{ mock.Mock }

func (m *mockNotifSvc) Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string) (*domain.Notification, error) {
	args := m.Called(ctx, userID, t, title, message)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}

func (m *mockNotifSvc) ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotifSvc) ListAll(ctx context.Context, userID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotifSvc) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return m.Called(ctx, notificationID, userID).Error(0)
}

func (m *mockNotifSvc) MarkAllRead(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockPrefSvc struct{ mock.Mock }

func (m *mockPrefSvc) Get(ctx context.Context, userID int64) ([]domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.NotificationPreference), args.Error(1)
}

func (m *mockPrefSvc) Lookup(ctx context.Context, userID int64, t domain.NotificationType) (domain.NotificationPreference, error) {
	args := m.Called(ctx, userID, t)
	return args.Get(0).(domain.NotificationPreference), args.Error(1)
}

func (m *mockPrefSvc) UpdateMany(ctx context.Context, userID int64, req domain.UpdatePreferencesRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *mockPrefSvc) ResetToDefaults(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockPrefSvc) IsChannelEnabled(ctx context.Context, userID int64, t domain.NotificationType, ch domain.Channel) (bool, error) {
	args := m.Called(ctx, userID, t, ch)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, a domain.Alert) (*domain.Notification, error) {
	args := m.Called(ctx, a)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}

type fakeBroadcaster struct {
	got       []domain.Notification
	delivered int
}

func (f *fakeBroadcaster) Broadcast(n domain.Notification) int {
	f.got = append(f.got, n)
	return f.delivered
}

// --- helpers ---

// newTestJWTProvider generates a fresh RSA key pair and returns a *jwtinfra.Provider.
func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return jwtinfra.NewProviderFromKey(privKey, 24*time.Hour)
}

// bearerReq builds a request with a signed Bearer token for the given userID and role.
func bearerReq(t *testing.T, p *jwtinfra.Provider, method, target string, userID int64, role string, body []byte) *http.Request {
	t.Helper()
	token, err := p.Sign(userID, role)
	require.NoError(t, err)
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// serveAuthed wraps the handler with middleware.Auth before serving.
func serveAuthed(p *jwtinfra.Provider, h http.Handler, w http.ResponseWriter, r *http.Request) {
	middleware.Auth(p)(h).ServeHTTP(w, r)
}
