// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
)

type StatsHandler struct {
	db *sql.DB
}

func NewStatsHandler(db *sql.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// Today handles GET /stats/today. The three queries run concurrently.
func (h *StatsHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	start, end := dayBounds(time.Now())
	var resp models.TodayStatsResponse

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return h.db.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(calories), 0), COUNT(*)
			FROM meal
			WHERE user_id = $1 AND date >= $2 AND date < $3
		`, userID, start, end).Scan(&resp.CaloriesEaten, &resp.MealsLogged)
	})
	g.Go(func() error {
		return h.db.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(calories), 0), COUNT(*)
			FROM workout
			WHERE user_id = $1 AND completed = $2 AND date >= $3 AND date < $4
		`, userID, true, start, end).Scan(&resp.CaloriesBurned, &resp.WorkoutsCompleted)
	})
	g.Go(func() error {
		err := h.db.QueryRowContext(ctx,
			"SELECT daily_calories FROM user_profile WHERE user_id = $1", userID).Scan(&resp.DailyCalories)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to compute today's stats", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
