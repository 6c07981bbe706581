// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/fitfamily/cliparse"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	var driver string
	switch cfg.DatabaseType {
	case cliparse.DatabasePostgres:
		driver = "postgres"
	case cliparse.DatabaseSQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite" {
		// A single connection serialises writers and keeps :memory: databases alive.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	r := strings.NewReplacer(
		"%SERIAL_PK%", serialPK(dialect),
		"%JSON%", jsonType(dialect),
	)
	_, err := db.Exec(r.Replace(schema))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func serialPK(dialect string) string {
	if dialect == cliparse.DatabasePostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func jsonType(dialect string) string {
	if dialect == cliparse.DatabasePostgres {
		return "JSONB"
	}
	return "TEXT"
}

const schema = `
-- Body measurements and derived metrics
CREATE TABLE IF NOT EXISTS user_profile (
    user_id TEXT PRIMARY KEY,
    gender TEXT,
    birth_date TIMESTAMP,
    height DOUBLE PRECISION,
    weight DOUBLE PRECISION,
    target_weight DOUBLE PRECISION,
    activity_level TEXT,
    goal TEXT,
    bmi DOUBLE PRECISION,
    bmr DOUBLE PRECISION,
    tdee DOUBLE PRECISION,
    daily_calories INTEGER,
    updated_at TIMESTAMP NOT NULL
);

-- Health context gathered by onboarding or chat
CREATE TABLE IF NOT EXISTS health_profile (
    user_id TEXT PRIMARY KEY,
    primary_goal TEXT NOT NULL,
    diet_type TEXT NOT NULL,
    stress_level TEXT NOT NULL,
    sleep_hours DOUBLE PRECISION,
    monthly_budget DOUBLE PRECISION,
    allergies %JSON% NOT NULL,
    conditions %JSON% NOT NULL,
    medications %JSON% NOT NULL,
    cholesterol_total DOUBLE PRECISION,
    cholesterol_hdl DOUBLE PRECISION,
    cholesterol_ldl DOUBLE PRECISION,
    vitamin_d DOUBLE PRECISION,
    vitamin_b12 DOUBLE PRECISION,
    onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Active recommendation set, replaced as a whole
CREATE TABLE IF NOT EXISTS recommendation (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('SUPPLEMENT', 'EXERCISE', 'MEAL')),
    category TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    priority INTEGER NOT NULL,
    position INTEGER NOT NULL,
    supplement_name TEXT,
    dosage TEXT,
    timing TEXT,
    monthly_price DOUBLE PRECISION,
    reasoning TEXT,
    exercise_plan %JSON%,
    meal_plan %JSON%,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendation_user ON recommendation(user_id, priority, position);

-- Conversation history, one sequence per user and channel
CREATE TABLE IF NOT EXISTS chat_message (
    id %SERIAL_PK%,
    user_id TEXT NOT NULL,
    channel TEXT NOT NULL CHECK (channel IN ('chat', 'onboarding')),
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    content TEXT NOT NULL,
    provider TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_message_user_channel ON chat_message(user_id, channel, id);

-- Meal log
CREATE TABLE IF NOT EXISTS meal (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    meal_type TEXT NOT NULL,
    calories INTEGER,
    protein DOUBLE PRECISION,
    carbs DOUBLE PRECISION,
    fat DOUBLE PRECISION,
    image_url TEXT,
    ai_analysis TEXT,
    date TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meal_user_date ON meal(user_id, date);

-- Workout log
CREATE TABLE IF NOT EXISTS workout (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    duration INTEGER NOT NULL,
    calories INTEGER,
    completed BOOLEAN NOT NULL DEFAULT TRUE,
    date TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workout_user_date ON workout(user_id, date);

-- Supplements the user actually takes
CREATE TABLE IF NOT EXISTS supplement (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    brand TEXT,
    dosage TEXT,
    frequency TEXT NOT NULL,
    time_of_day TEXT,
    purchase_url TEXT,
    notes TEXT,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_supplement_user ON supplement(user_id);

CREATE TABLE IF NOT EXISTS supplement_log (
    id TEXT PRIMARY KEY,
    supplement_id TEXT NOT NULL REFERENCES supplement(id) ON DELETE CASCADE,
    taken_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_supplement_log_supplement ON supplement_log(supplement_id, taken_at);

-- Per-user provider keys
CREATE TABLE IF NOT EXISTS user_settings (
    user_id TEXT PRIMARY KEY,
    groq_api_key TEXT,
    openai_api_key TEXT,
    claude_api_key TEXT,
    gemini_api_key TEXT,
    default_provider TEXT,
    updated_at TIMESTAMP NOT NULL
);

-- Web push endpoints; delivery happens elsewhere
CREATE TABLE IF NOT EXISTS push_subscription (
    endpoint TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    p256dh TEXT NOT NULL,
    auth TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`
