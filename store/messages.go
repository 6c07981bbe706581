// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/fitfamily/models"
)

// AppendMessage stores m and sets its ID. IDs increase in insertion order
// within a database.
func (s *Store) AppendMessage(ctx context.Context, m *models.ChatMessage) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_message (user_id, channel, role, content, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.UserID, m.Channel, m.Role, m.Content, m.Provider, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// RecentMessages returns the last limit messages of a channel, oldest first.
func (s *Store) RecentMessages(ctx context.Context, userID, channel string, limit int) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, channel, role, content, provider, created_at
		FROM chat_message
		WHERE user_id = $1 AND channel = $2
		ORDER BY id DESC
		LIMIT $3
	`, userID, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Channel, &m.Role, &m.Content, &m.Provider, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// ClearMessages deletes a channel's history and reports how many messages
// were removed.
func (s *Store) ClearMessages(ctx context.Context, userID, channel string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM chat_message WHERE user_id = $1 AND channel = $2", userID, channel)
	if err != nil {
		return 0, fmt.Errorf("delete chat messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted messages: %w", err)
	}
	return n, nil
}

// CountMessages returns the number of messages in a channel.
func (s *Store) CountMessages(ctx context.Context, userID, channel string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chat_message WHERE user_id = $1 AND channel = $2",
		userID, channel).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chat messages: %w", err)
	}
	return n, nil
}
