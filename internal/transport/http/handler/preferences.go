package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ferrypratamaa-00/monii-sub001/internal/application/preference"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/ferrypratamaa-00/monii-sub001/internal/transport/http/middleware"
)

// PreferenceHandler handles the per-user channel matrix.
type PreferenceHandler struct {
	svc preference.Service
}

func NewPreferenceHandler(svc preference.Service) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	prefs, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.UpdateMany(r.Context(), claims.UserID, req); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w)
}

func (h *PreferenceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.ResetToDefaults(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w)
}
