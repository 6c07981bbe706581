// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/fitfamily/assistant"
	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
)

type MealHandler struct {
	db        *sql.DB
	assistant *assistant.Assistant
}

func NewMealHandler(db *sql.DB, asst *assistant.Assistant) *MealHandler {
	return &MealHandler{db: db, assistant: asst}
}

// ListMeals handles GET /meals?date=YYYY-MM-DD (default today, UTC)
func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	day, err := requestDay(r, time.Now())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	start, end := dayBounds(day)

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, user_id, name, description, meal_type, calories, protein, carbs, fat,
		       image_url, ai_analysis, date
		FROM meal
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`, userID, start, end)
	if err != nil {
		slog.Error("failed to query meals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Description, &m.MealType, &m.Calories,
			&m.Protein, &m.Carbs, &m.Fat, &m.ImageURL, &m.AIAnalysis, &m.Date); err != nil {
			slog.Error("failed to scan meal", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate meals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MealsResponse{Meals: meals})
}

// CreateMeal handles POST /meals
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateMealRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	meal := models.Meal{
		ID:          auth.NewID(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		MealType:    req.MealType,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		ImageURL:    req.ImageURL,
		AIAnalysis:  req.AIAnalysis,
		Date:        time.Now().UTC(),
	}
	if meal.MealType == "" {
		meal.MealType = models.MealSnack
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO meal (id, user_id, name, description, meal_type, calories, protein, carbs, fat,
		                  image_url, ai_analysis, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, meal.ID, meal.UserID, meal.Name, meal.Description, meal.MealType, meal.Calories,
		meal.Protein, meal.Carbs, meal.Fat, meal.ImageURL, meal.AIAnalysis, meal.Date)
	if err != nil {
		slog.Error("failed to insert meal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log meal")
		return
	}

	slog.Info("meal logged", "user_id", userID, "meal_id", meal.ID)
	middleware.JSONResponse(w, http.StatusCreated, meal)
}

// AnalyzeMeal handles POST /meals/analyze. Nothing is stored; the client
// logs the meal with POST /meals once the user accepts the estimate.
func (h *MealHandler) AnalyzeMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AnalyzeMealRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	analysis, err := h.assistant.AnalyzeMeal(r.Context(), userID, req.Text, req.ImageBase64)
	if err != nil {
		writeError(w, err, "Failed to analyze meal")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MealAnalysisResponse{Analysis: *analysis})
}
