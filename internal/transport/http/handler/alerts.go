package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ferrypratamaa-00/monii-sub001/internal/application/alert"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

// AlertHandler accepts alerts from evaluation jobs over HTTP.
type AlertHandler struct {
	notifier alert.Service
}

func NewAlertHandler(notifier alert.Service) *AlertHandler {
	return &AlertHandler{notifier: notifier}
}

// Create runs the alert through the notifier. Notification is omitted from
// the response when preferences suppressed the alert.
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var a domain.Alert
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n, err := h.notifier.Notify(r.Context(), a)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true, Notification: n})
}
