// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/fitfamily/assistant"
	"github.com/danielhkuo/fitfamily/cliparse"
	"github.com/danielhkuo/fitfamily/handlers"
	"github.com/danielhkuo/fitfamily/llm"
	"github.com/danielhkuo/fitfamily/metrics"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, models llm.Source) *http.ServeMux {
	mux := http.NewServeMux()

	asst := assistant.New(store.New(db), models)

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(db)
	chatHandler := handlers.NewChatHandler(db, asst)
	onboardingHandler := handlers.NewOnboardingHandler(db, asst)
	recHandler := handlers.NewRecommendationHandler(db, asst)
	mealHandler := handlers.NewMealHandler(db, asst)
	workoutHandler := handlers.NewWorkoutHandler(db)
	supplementHandler := handlers.NewSupplementHandler(db)
	statsHandler := handlers.NewStatsHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)
	pushHandler := handlers.NewPushHandler(db)

	requireUser := middleware.RequireUser(cfg.SessionSecret)
	limiter := middleware.NewRateLimiter(cfg.ChatRatePerMinute)

	// handle registers an authenticated route.
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.Instrument(pattern, requireUser(h))))
	}
	// handleModel registers an authenticated, rate limited route that calls a model.
	handleModel := func(pattern string, h http.HandlerFunc) {
		handle(pattern, limiter.Wrap(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Body profile
	handle("GET /profile", profileHandler.GetProfile)
	handle("PUT /profile", profileHandler.UpdateProfile)

	// Coaching chat
	handle("GET /chat", chatHandler.GetHistory)
	handleModel("POST /chat", chatHandler.SendMessage)
	handle("DELETE /chat", chatHandler.ClearHistory)

	// Onboarding
	handle("GET /onboarding", onboardingHandler.GetStatus)
	handleModel("POST /onboarding", onboardingHandler.SendMessage)
	handle("DELETE /onboarding", onboardingHandler.Reset)
	handle("POST /onboarding/form", onboardingHandler.SubmitForm)

	// Recommendations
	handle("GET /recommendations", recHandler.List)
	handleModel("POST /recommendations", recHandler.Generate)

	// Activity logs
	handle("GET /meals", mealHandler.ListMeals)
	handle("POST /meals", mealHandler.CreateMeal)
	handleModel("POST /meals/analyze", mealHandler.AnalyzeMeal)
	handle("GET /workouts", workoutHandler.ListWorkouts)
	handle("POST /workouts", workoutHandler.CreateWorkout)

	// Supplements
	handle("GET /supplements", supplementHandler.ListSupplements)
	handle("POST /supplements", supplementHandler.CreateSupplement)
	handle("GET /supplements/{id}", supplementHandler.GetSupplement)
	handle("PUT /supplements/{id}", supplementHandler.UpdateSupplement)
	handle("DELETE /supplements/{id}", supplementHandler.DeleteSupplement)
	handle("POST /supplements/{id}/log", supplementHandler.LogTaken)
	handle("DELETE /supplements/{id}/log", supplementHandler.UnlogTaken)

	// Stats, settings and push
	handle("GET /stats/today", statsHandler.Today)
	handle("GET /settings", settingsHandler.GetSettings)
	handle("PUT /settings", settingsHandler.UpdateSettings)
	handle("POST /push/subscribe", pushHandler.Subscribe)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("FitFamily API v1"))
	})

	return mux
}
