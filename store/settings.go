// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/fitfamily/models"
)

// GetSettings returns the user's settings. A user who never saved any gets
// empty settings, not an error.
func (s *Store) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	st := models.UserSettings{UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT groq_api_key, openai_api_key, claude_api_key, gemini_api_key, default_provider
		FROM user_settings
		WHERE user_id = $1
	`, userID).Scan(&st.GroqAPIKey, &st.OpenAIAPIKey, &st.ClaudeAPIKey, &st.GeminiAPIKey, &st.DefaultProvider)
	if errors.Is(err, sql.ErrNoRows) {
		return &st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user settings: %w", err)
	}
	return &st, nil
}

// SaveSettings inserts or overwrites the user's settings.
func (s *Store) SaveSettings(ctx context.Context, st *models.UserSettings, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, groq_api_key, openai_api_key, claude_api_key, gemini_api_key,
		                           default_provider, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			groq_api_key = EXCLUDED.groq_api_key,
			openai_api_key = EXCLUDED.openai_api_key,
			claude_api_key = EXCLUDED.claude_api_key,
			gemini_api_key = EXCLUDED.gemini_api_key,
			default_provider = EXCLUDED.default_provider,
			updated_at = EXCLUDED.updated_at
	`, st.UserID, st.GroqAPIKey, st.OpenAIAPIKey, st.ClaudeAPIKey, st.GeminiAPIKey, st.DefaultProvider, now)
	if err != nil {
		return fmt.Errorf("save user settings: %w", err)
	}
	return nil
}
