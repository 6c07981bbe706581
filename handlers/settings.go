// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/cliparse"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/store"
)

type SettingsHandler struct {
	cfg   cliparse.Config
	store *store.Store
}

func NewSettingsHandler(db *sql.DB, cfg cliparse.Config) *SettingsHandler {
	return &SettingsHandler{cfg: cfg, store: store.New(db)}
}

// masked returns a copy of st safe to send to the client.
func masked(st *models.UserSettings) *models.UserSettings {
	mask := func(k *string) *string {
		if k == nil || *k == "" {
			return nil
		}
		m := auth.MaskKey(*k)
		return &m
	}
	return &models.UserSettings{
		UserID:          st.UserID,
		GroqAPIKey:      mask(st.GroqAPIKey),
		OpenAIAPIKey:    mask(st.OpenAIAPIKey),
		ClaudeAPIKey:    mask(st.ClaudeAPIKey),
		GeminiAPIKey:    mask(st.GeminiAPIKey),
		DefaultProvider: st.DefaultProvider,
	}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	st, err := h.store.GetSettings(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load settings")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.response(st))
}

// UpdateSettings handles PUT /settings. An absent key is kept, an empty
// string removes it.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.store.GetSettings(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load settings")
		return
	}

	setKey(&st.GroqAPIKey, req.GroqAPIKey)
	setKey(&st.OpenAIAPIKey, req.OpenAIAPIKey)
	setKey(&st.ClaudeAPIKey, req.ClaudeAPIKey)
	setKey(&st.GeminiAPIKey, req.GeminiAPIKey)
	setKey(&st.DefaultProvider, req.DefaultProvider)

	if err := h.store.SaveSettings(r.Context(), st, time.Now().UTC()); err != nil {
		writeError(w, err, "Failed to save settings")
		return
	}

	slog.Info("settings updated", "user_id", userID)
	middleware.JSONResponse(w, http.StatusOK, h.response(st))
}

// response masks st and reports the provider the user's requests go to:
// their own default, else the server's.
func (h *SettingsHandler) response(st *models.UserSettings) models.SettingsResponse {
	provider := h.cfg.DefaultProvider
	if st.DefaultProvider != nil && *st.DefaultProvider != "" {
		provider = *st.DefaultProvider
	}
	return models.SettingsResponse{Settings: masked(st), EffectiveProvider: provider}
}

func setKey(dst **string, v *string) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}
