// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/fitfamily/metabolism"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/store"
)

type ProfileHandler struct {
	store *store.Store
}

func NewProfileHandler(db *sql.DB) *ProfileHandler {
	return &ProfileHandler{store: store.New(db)}
}

// GetProfile handles GET /profile. A user without measurements gets a null
// profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	p, err := h.store.GetProfile(r.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, err, "Failed to load profile")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProfileResponse{Profile: p})
}

// UpdateProfile handles PUT /profile. Only fields present in the body are
// changed; derived metrics are recomputed from the merged profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.GetProfile(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		p = &models.UserProfile{UserID: userID}
	} else if err != nil {
		writeError(w, err, "Failed to load profile")
		return
	}

	if req.BirthDate != nil {
		birth, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
			return
		}
		p.BirthDate = &birth
	}
	if req.Gender != nil {
		p.Gender = req.Gender
	}
	if req.Height != nil {
		p.Height = req.Height
	}
	if req.Weight != nil {
		p.Weight = req.Weight
	}
	if req.TargetWeight != nil {
		p.TargetWeight = req.TargetWeight
	}
	if req.ActivityLevel != nil {
		p.ActivityLevel = req.ActivityLevel
	}
	if req.Goal != nil {
		p.Goal = req.Goal
	}

	now := time.Now().UTC()
	metabolism.Recompute(p, now)
	p.UpdatedAt = now

	if err := h.store.SaveProfile(r.Context(), p); err != nil {
		writeError(w, err, "Failed to save profile")
		return
	}

	slog.Info("profile updated", "user_id", userID)
	middleware.JSONResponse(w, http.StatusOK, models.ProfileResponse{Profile: p})
}
