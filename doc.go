// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the FitFamily API server.

FitFamily is a personal health coach: a conversational assistant that
onboards users, keeps their body and health profiles current from chat,
and produces supplement, exercise and diet recommendations. Meals,
workouts and supplements are logged alongside.

# Starting the Server

The server reads a .env file, environment variables or CLI flags:

	DATABASE_URL=file:fitfamily.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): Secret for bearer token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LLM_PROVIDER (--provider): groq, openai, claude or gemini (default: groq)
  - GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY
  - LLM_TIMEOUT (--llm-timeout): Timeout for one model call (default: 60s)
  - CHAT_RATE_PER_MINUTE (--chat-rate): Model requests per user per minute

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth, rate limiting, validation
  - assistant: Chat, onboarding and recommendation workflows
  - directive: Parsing of structured blocks in model replies
  - recommend: Static catalog and model plan handling
  - metabolism: BMR and daily calorie targets
  - llm: Provider clients and per-user resolution
  - store: Persistence of profiles, messages and recommendations
  - metrics: Prometheus collectors
  - models, auth, db, cliparse: Types, tokens, schema, configuration

See package documentation for each component.
*/
package main
