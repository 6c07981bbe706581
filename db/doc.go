// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connections

Open picks the driver from cfg.DatabaseType: lib/pq for postgres,
modernc.org/sqlite for sqlite. SQLite connections are limited to one.

	conn, err := db.Open(cfg)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The two dialects differ only in the chat_message key (BIGSERIAL or
AUTOINCREMENT) and JSON columns (JSONB or TEXT).

# Tables

  - user_profile: Body measurements and derived BMI/BMR/TDEE/daily target
  - health_profile: Goals, diet, lifestyle and lab values
  - recommendation: The active recommendation set per user
  - chat_message: Chat and onboarding history
  - meal, workout: Daily logs
  - supplement, supplement_log: Supplements taken and intake marks
  - user_settings: Per-user provider keys
  - push_subscription: Web push endpoints

All queries use $N placeholders, which both drivers accept. Timestamps are
written by the application in UTC; no column relies on NOW().
*/
package db
