// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
)

type PushHandler struct {
	db *sql.DB
}

func NewPushHandler(db *sql.DB) *PushHandler {
	return &PushHandler{db: db}
}

// Subscribe handles POST /push/subscribe. Subscribing an endpoint again
// replaces its keys and owner.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.PushSubscribeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO push_subscription (endpoint, user_id, p256dh, auth, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
	`, req.Endpoint, userID, req.Keys.P256dh, req.Keys.Auth, time.Now().UTC())
	if err != nil {
		slog.Error("failed to save push subscription", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	slog.Info("push subscription saved", "user_id", userID)
	middleware.JSONResponse(w, http.StatusCreated, models.SuccessResponse{Success: true})
}
