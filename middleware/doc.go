// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms).

# Authentication

RequireUser verifies the "Authorization: Bearer <userID>.<signature>" header
and stores the user id in the request context:

	requireUser := middleware.RequireUser(cfg.SessionSecret)
	mux.HandleFunc("GET /profile", requireUser(profileHandler.Get))

Handlers read it back with auth.CurrentUserID.

# Rate Limiting

RateLimiter keeps one token bucket per user and answers 429 when it is
empty. It is applied to the routes that call a model provider.

# Metrics

Instrument counts requests by route and status code and records their
latency in the metrics registry.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse and validate JSON request bodies:

	var req models.ChatRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

# Client IP Extraction

Get the client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request logs and as the rate limit key for anonymous requests.
*/
package middleware
