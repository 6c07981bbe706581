// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the FitFamily API.

# Handler Types

Each handler is a struct holding only what it reads: the database for
handlers that run their own queries, a *store.Store for pipeline data and
the shared *assistant.Assistant for handlers that talk to a model.
SettingsHandler also keeps the config to report the server's default
provider:

  - ProfileHandler: body profile read and partial update
  - ChatHandler: coaching conversation and its history
  - OnboardingHandler: conversational and form onboarding, reset
  - RecommendationHandler: active recommendation set and regeneration
  - MealHandler, WorkoutHandler, SupplementHandler: activity logs
  - StatsHandler: today's totals
  - SettingsHandler, PushHandler: provider keys and push subscriptions

Handlers are created via constructor functions:

	chatHandler := handlers.NewChatHandler(db, asst)

# Authentication

Every handler reads the user ID placed in the request context by
middleware.RequireUser and answers 401 when it is missing.

# Error Mapping

Assistant errors are translated by writeError:

	ErrHealthProfileRequired → 412
	ErrOnboardingCompleted   → 409
	llm.ErrNotConfigured     → 503
	llm.ErrUnavailable       → 502

Partial failures of chat and onboarding actions are reported in a 200
response through the profile_error and recommendations_error fields.
*/
package handlers
