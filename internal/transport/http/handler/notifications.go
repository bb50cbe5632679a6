package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/application/notification"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/ferrypratamaa-00/monii-sub001/internal/pkg/validate"
	"github.com/ferrypratamaa-00/monii-sub001/internal/transport/http/middleware"
)

// Broadcaster pushes a notification to every open stream.
type Broadcaster interface {
	Broadcast(n domain.Notification) int
}

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc         notification.Service
	broadcaster Broadcaster
}

func NewNotificationHandler(svc notification.Service, b Broadcaster) *NotificationHandler {
	return &NotificationHandler{svc: svc, broadcaster: b}
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	notifications, err := h.svc.ListUnread(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	notifications, err := h.svc.ListAll(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkRead acknowledges one notification. Unknown or foreign ids succeed
// without effect.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	if err := h.svc.MarkRead(r.Context(), *req.NotificationID, claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.MarkAllRead(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w)
}

// Broadcast pushes an unstored announcement to every open stream.
func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req domain.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	delivered := h.broadcaster.Broadcast(domain.Notification{
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true, Delivered: &delivered})
}
