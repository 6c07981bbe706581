// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
)

// recentWorkouts bounds the list returned by GET /workouts.
const recentWorkouts = 50

type WorkoutHandler struct {
	db *sql.DB
}

func NewWorkoutHandler(db *sql.DB) *WorkoutHandler {
	return &WorkoutHandler{db: db}
}

// ListWorkouts handles GET /workouts: the latest workouts, newest first,
// with totals for today.
func (h *WorkoutHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, user_id, name, type, duration, calories, completed, date
		FROM workout
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2
	`, userID, recentWorkouts)
	if err != nil {
		slog.Error("failed to query workouts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	workouts := []models.Workout{}
	for rows.Next() {
		var wo models.Workout
		if err := rows.Scan(&wo.ID, &wo.UserID, &wo.Name, &wo.Type, &wo.Duration, &wo.Calories, &wo.Completed, &wo.Date); err != nil {
			slog.Error("failed to scan workout", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		workouts = append(workouts, wo)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate workouts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stats, err := workoutStats(r.Context(), h.db, userID, time.Now())
	if err != nil {
		slog.Error("failed to compute workout stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WorkoutsResponse{Workouts: workouts, Stats: stats})
}

// workoutStats totals the completed workouts of the UTC day containing now.
func workoutStats(ctx context.Context, db *sql.DB, userID string, now time.Time) (models.WorkoutStats, error) {
	start, end := dayBounds(now)
	var st models.WorkoutStats
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(duration), 0), COUNT(*)
		FROM workout
		WHERE user_id = $1 AND completed = $2 AND date >= $3 AND date < $4
	`, userID, true, start, end).Scan(&st.TodayCalories, &st.TodayDuration, &st.TodayCount)
	return st, err
}

// CreateWorkout handles POST /workouts
func (h *WorkoutHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateWorkoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	wo := models.Workout{
		ID:        auth.NewID(),
		UserID:    userID,
		Name:      req.Name,
		Type:      req.Type,
		Duration:  req.Duration,
		Calories:  req.Calories,
		Completed: true,
		Date:      time.Now().UTC(),
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO workout (id, user_id, name, type, duration, calories, completed, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, wo.ID, wo.UserID, wo.Name, wo.Type, wo.Duration, wo.Calories, wo.Completed, wo.Date)
	if err != nil {
		slog.Error("failed to insert workout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log workout")
		return
	}

	slog.Info("workout logged", "user_id", userID, "workout_id", wo.ID)
	middleware.JSONResponse(w, http.StatusCreated, wo)
}
