// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the FitFamily API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, llm.NewRegistry(store.New(db), cfg))

Every API route runs through WithLogging, Instrument and RequireUser.
Routes that call a model are also rate limited per user.

# Endpoints

Public:

	GET /health  - Liveness
	GET /        - Banner
	GET /metrics - Prometheus scrape

Profile and coaching (bearer token):

	GET/PUT    /profile
	GET/DELETE /chat, POST /chat (limited)
	GET/DELETE /onboarding, POST /onboarding (limited)
	POST       /onboarding/form
	GET        /recommendations, POST /recommendations (limited)

Activity logs (bearer token):

	GET/POST          /meals, POST /meals/analyze (limited)
	GET/POST          /workouts
	GET/POST          /supplements
	GET/PUT/DELETE    /supplements/{id}
	POST/DELETE       /supplements/{id}/log
	GET               /stats/today
	GET/PUT           /settings
	POST              /push/subscribe
*/
package router
