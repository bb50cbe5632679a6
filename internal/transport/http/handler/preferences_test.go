package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPreferencesGet_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPrefSvc{}
	svc.On("Get", mock.Anything, int64(7)).Return(domain.DefaultPreferences(7, time.Now().UTC()), nil)
	h := NewPreferenceHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, bearerReq(t, p, http.MethodGet, "/v1/notifications/preferences", 7, domain.RoleUser, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []domain.NotificationPreference
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, len(domain.NotificationTypes()))
	svc.AssertExpectations(t)
}

func TestPreferencesUpdate_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPrefSvc{}
	svc.On("UpdateMany", mock.Anything, int64(7), mock.MatchedBy(func(req domain.UpdatePreferencesRequest) bool {
		return len(req.Preferences) == 1 &&
			req.Preferences[0].NotificationType == domain.TypeBudgetAlert &&
			!*req.Preferences[0].EmailEnabled
	})).Return(nil)
	h := NewPreferenceHandler(svc)
	body := []byte(`{"preferences":[{"notificationType":"BUDGET_ALERT","emailEnabled":false,"soundEnabled":true,"pushEnabled":true}]}`)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, bearerReq(t, p, http.MethodPut, "/v1/notifications/preferences", 7, domain.RoleUser, body))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestPreferencesUpdate_ValidationError(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPrefSvc{}
	svc.On("UpdateMany", mock.Anything, int64(7), mock.Anything).
		Return(fmt.Errorf("%w: field 'emailEnabled' failed 'required'", domain.ErrValidation))
	h := NewPreferenceHandler(svc)
	body := []byte(`{"preferences":[{"notificationType":"BUDGET_ALERT"}]}`)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, bearerReq(t, p, http.MethodPut, "/v1/notifications/preferences", 7, domain.RoleUser, body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPreferencesUpdate_InvalidJSON(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPrefSvc{}
	h := NewPreferenceHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, bearerReq(t, p, http.MethodPut, "/v1/notifications/preferences", 7, domain.RoleUser, []byte(`{`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestPreferencesReset_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPrefSvc{}
	svc.On("ResetToDefaults", mock.Anything, int64(7)).Return(nil)
	h := NewPreferenceHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Reset), rr, bearerReq(t, p, http.MethodPost, "/v1/notifications/preferences/reset", 7, domain.RoleUser, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
