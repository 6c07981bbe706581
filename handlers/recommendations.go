// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/fitfamily/assistant"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/recommend"
	"github.com/danielhkuo/fitfamily/store"
)

type RecommendationHandler struct {
	store     *store.Store
	assistant *assistant.Assistant
}

func NewRecommendationHandler(db *sql.DB, asst *assistant.Assistant) *RecommendationHandler {
	return &RecommendationHandler{store: store.New(db), assistant: asst}
}

// List handles GET /recommendations
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	recs, err := h.store.ListRecommendations(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load recommendations")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RecommendationsResponse{
		Recommendations: recs,
		MonthlyCost:     recommend.MonthlyCost(recs),
	})
}

// Generate handles POST /recommendations. The model builds the plan; the
// catalog is used when its answer does not validate.
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	gen, err := h.assistant.GenerateRecommendations(r.Context(), userID, assistant.ModeModel)
	if err != nil {
		writeError(w, err, "Failed to generate recommendations")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RecommendationsResponse{
		Recommendations: gen.Recommendations,
		Source:          gen.Source,
		MonthlyCost:     recommend.MonthlyCost(gen.Recommendations),
	})
}
