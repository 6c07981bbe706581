// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/fitfamily/assistant"
	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/llm"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/store"
)

// currentUser returns the authenticated user id, answering 401 when the
// request carries none.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.CurrentUserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}

// writeError maps pipeline errors to status codes. Unknown errors are logged
// and reported as fallback with 500.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "No model provider is configured. Add an API key in settings.")
	case errors.Is(err, llm.ErrUnavailable):
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not get a response from the model provider")
	case errors.Is(err, assistant.ErrHealthProfileRequired):
		middleware.ErrorResponse(w, http.StatusPreconditionFailed, "Complete onboarding before generating recommendations")
	case errors.Is(err, assistant.ErrOnboardingCompleted):
		middleware.ErrorResponse(w, http.StatusConflict, "Onboarding already completed")
	case errors.Is(err, assistant.ErrOnboardingNotStarted):
		middleware.ErrorResponse(w, http.StatusConflict, "Onboarding has not started")
	case errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, assistant.ErrNoMealInput),
		errors.Is(err, assistant.ErrBadImage):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		slog.Error(fallback, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

// errorText is the message reported for a partial failure, empty when err
// is nil.
func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, assistant.ErrHealthProfileRequired):
		return "health profile required"
	}
	return "failed"
}

// dayBounds returns the UTC day containing t as a half-open range.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// requestDay reads the optional ?date=YYYY-MM-DD parameter, defaulting to
// today.
func requestDay(r *http.Request, now time.Time) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return now, nil
	}
	return time.Parse("2006-01-02", raw)
}
