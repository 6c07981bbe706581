// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/fitfamily/assistant"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/store"
)

// onboardingHistoryPage bounds the transcript returned by GET /onboarding.
const onboardingHistoryPage = 100

type OnboardingHandler struct {
	store     *store.Store
	assistant *assistant.Assistant
}

func NewOnboardingHandler(db *sql.DB, asst *assistant.Assistant) *OnboardingHandler {
	return &OnboardingHandler{store: store.New(db), assistant: asst}
}

// GetStatus handles GET /onboarding
func (h *OnboardingHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	state, hp, err := h.assistant.OnboardingState(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load onboarding state")
		return
	}

	msgs, err := h.store.RecentMessages(r.Context(), userID, models.ChannelOnboarding, onboardingHistoryPage)
	if err != nil {
		writeError(w, err, "Failed to load onboarding messages")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OnboardingStatusResponse{
		State:         state,
		Completed:     state == models.OnboardingCompleted,
		Messages:      msgs,
		HealthProfile: hp,
	})
}

// SendMessage handles POST /onboarding
func (h *OnboardingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.assistant.Onboard(r.Context(), userID, req.Message)
	if err != nil {
		writeError(w, err, "Failed to process onboarding message")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OnboardingResponse{
		Message:                  res.Message,
		Completed:                res.Completed,
		RecommendationsGenerated: res.RecommendationsGenerated,
		RecommendationsError:     errorText(res.RecommendationErr),
	})
}

// SubmitForm handles POST /onboarding/form
func (h *OnboardingHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.OnboardingFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.assistant.SubmitOnboardingForm(r.Context(), userID, req)
	if err != nil {
		writeError(w, err, "Failed to save onboarding form")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OnboardingFormResponse{
		HealthProfile:            res.HealthProfile,
		RecommendationsGenerated: res.RecommendationsGenerated,
		RecommendationsError:     errorText(res.RecommendationErr),
	})
}

// Reset handles DELETE /onboarding
func (h *OnboardingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.assistant.ResetOnboarding(r.Context(), userID); err != nil {
		writeError(w, err, "Failed to reset onboarding")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
