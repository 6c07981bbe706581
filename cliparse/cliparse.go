// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// SessionSecret signs the bearer tokens issued by the session layer.
	SessionSecret string

	DefaultProvider string
	GroqAPIKey      string
	OpenAIAPIKey    string
	ClaudeAPIKey    string
	GeminiAPIKey    string
	LLMTimeout      time.Duration

	ChatRatePerMinute int
}

// LoadDotEnv loads variables from path into the environment. Variables
// already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags reads flags, falling back to environment variables and then
// defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("fitfamily", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")

	fs.StringVar(&cfg.DefaultProvider, "provider", "", "Default model provider (groq, openai, claude, gemini)")
	fs.DurationVar(&cfg.LLMTimeout, "llm-timeout", 0, "Timeout for a single model call")
	fs.IntVar(&cfg.ChatRatePerMinute, "chat-rate", 0, "Model-backed requests allowed per user per minute")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = os.Getenv("LLM_PROVIDER")
		if cfg.DefaultProvider == "" {
			cfg.DefaultProvider = "groq"
		}
	}
	switch cfg.DefaultProvider {
	case "groq", "openai", "claude", "gemini":
	default:
		return Config{}, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.DefaultProvider)
	}

	// Provider keys are optional; users may bring their own.
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.ClaudeAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if cfg.LLMTimeout == 0 {
		if s := os.Getenv("LLM_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil || d <= 0 {
				return Config{}, errors.New("invalid LLM_TIMEOUT env variable")
			}
			cfg.LLMTimeout = d
		} else {
			cfg.LLMTimeout = 60 * time.Second
		}
	}

	if cfg.ChatRatePerMinute == 0 {
		if s := os.Getenv("CHAT_RATE_PER_MINUTE"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid CHAT_RATE_PER_MINUTE env variable")
			}
			cfg.ChatRatePerMinute = n
		} else {
			cfg.ChatRatePerMinute = 20
		}
	}

	return cfg, nil
}
