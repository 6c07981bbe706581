// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	_ = cliparse.LoadDotEnv(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - SessionSecret: Secret verifying bearer tokens (required)
  - DefaultProvider: Model provider used when a user has none (default: groq)
  - GroqAPIKey, OpenAIAPIKey, ClaudeAPIKey, GeminiAPIKey: server-wide keys
  - LLMTimeout: Limit for one model call (default: 60s)
  - ChatRatePerMinute: Model-backed requests per user per minute (default: 20)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-session-secret  Session signing secret
	-provider        Default model provider
	-llm-timeout     Model call timeout
	-chat-rate       Per-user model request rate

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	SESSION_SECRET       → -session-secret
	LLM_PROVIDER         → -provider
	LLM_TIMEOUT          → -llm-timeout
	CHAT_RATE_PER_MINUTE → -chat-rate

Provider keys are read from GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY
and GEMINI_API_KEY only. CLI flags take precedence over environment
variables, which take precedence over a .env file.
*/
package cliparse
