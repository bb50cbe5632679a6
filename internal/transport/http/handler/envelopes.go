package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessEnvelope acknowledges a mutation. Delivered is set by broadcast,
// Notification by alert ingestion when the alert was stored.
type SuccessEnvelope struct {
	Success      bool                 `json:"success"`
	Delivered    *int                 `json:"delivered,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
}
