package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListUnread_MissingClaims(t *testing.T) {
	h := NewNotificationHandler(&mockNotifSvc{}, &fakeBroadcaster{})
	rr := httptest.NewRecorder()
	h.ListUnread(rr, httptest.NewRequest(http.MethodGet, "/v1/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListUnread_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockNotifSvc{}
	svc.On("ListUnread", mock.Anything, int64(42)).Return([]domain.Notification{
		{ID: 1, UserID: 42, Type: domain.TypeBudgetAlert, Title: "Budget"},
	}, nil)
	h := NewNotificationHandler(svc, &fakeBroadcaster{})

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ListUnread), rr, bearerReq(t, p, http.MethodGet, "/v1/notifications", 42, domain.RoleUser, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, float64(42), resp[0]["userId"])
	assert.Equal(t, false, resp[0]["isRead"])
	svc.AssertExpectations(t)
}

func TestListUnread_EmptyIsArray(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockNotifSvc{}
	svc.On("ListUnread", mock.Anything, int64(42)).Return([]domain.Notification{}, nil)
	h := NewNotificationHandler(svc, &fakeBroadcaster{})

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ListUnread), rr, bearerReq(t, p, http.MethodGet, "/v1/notifications", 42, domain.RoleUser, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListAll_PersistenceFailure(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockNotifSvc{}
	svc.On("ListAll", mock.Anything, int64(42)).Return([]domain.Notification(nil),
		fmt.Errorf("list: %w: %w", domain.ErrPersistence, errors.New("disk I/O")))
	h := NewNotificationHandler(svc, &fakeBroadcaster{})

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ListAll), rr, bearerReq(t, p, http.MethodGet, "/v1/notifications/all", 42, domain.RoleUser, nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk I/O")
}

func TestMarkRead_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockNotifSvc{}
	svc.On("MarkRead", mock.Anything, int64(9), int64(42)).Return(nil)
	h := NewNotificationHandler(svc, &fakeBroadcaster{})

	r := bearerReq(t, p, http.MethodPost, "/v1/notifications/read", 42, domain.RoleUser, []byte(`{"notificationId":9}`))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.MarkRead), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestMarkRead_BadBodies(t *testing.T) {
	p := newTestJWTProvider(t)
	cases := map[string]string{
		"missing id":  `{}`,
		"non-numeric": `{"notificationId":"abc"}`,
		"zero":        `{"notificationId":0}`,
		"not json":    `nope`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockNotifSvc{}
			h := NewNotificationHandler(svc, &fakeBroadcaster{})
			r := bearerReq(t, p, http.MethodPost, "/v1/notifications/read", 42, domain.RoleUser, []byte(body))
			rr := httptest.NewRecorder()
			serveAuthed(p, http.HandlerFunc(h.MarkRead), rr, r)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			svc.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMarkAllRead_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockNotifSvc{}
	svc.On("MarkAllRead", mock.Anything, int64(42)).Return(nil)
	h := NewNotificationHandler(svc, &fakeBroadcaster{})

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.MarkAllRead), rr, bearerReq(t, p, http.MethodPost, "/v1/notifications/read-all", 42, domain.RoleUser, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestBroadcast_HappyPath(t *testing.T) {
	b := &fakeBroadcaster{delivered: 3}
	h := NewNotificationHandler(&mockNotifSvc{}, b)
	body := []byte(`{"type":"GOAL_REMINDER","title":"Reminder","message":"Review your goals"}`)

	rr := httptest.NewRecorder()
	h.Broadcast(rr, httptest.NewRequest(http.MethodPost, "/v1/notifications/broadcast", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"delivered":3}`, rr.Body.String())
	require.Len(t, b.got, 1)
	assert.Equal(t, domain.TypeGoalReminder, b.got[0].Type)
	assert.False(t, b.got[0].CreatedAt.IsZero())
}

func TestBroadcast_UnknownType(t *testing.T) {
	b := &fakeBroadcaster{}
	h := NewNotificationHandler(&mockNotifSvc{}, b)
	body := []byte(`{"type":"PROMO","title":"x","message":"y"}`)

	rr := httptest.NewRecorder()
	h.Broadcast(rr, httptest.NewRequest(http.MethodPost, "/v1/notifications/broadcast", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, b.got)
}
