// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/fitfamily/models"
)

// GetProfile returns the user's body profile or ErrNotFound.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, gender, birth_date, height, weight, target_weight,
		       activity_level, goal, bmi, bmr, tdee, daily_calories, updated_at
		FROM user_profile
		WHERE user_id = $1
	`, userID).Scan(
		&p.UserID, &p.Gender, &p.BirthDate, &p.Height, &p.Weight, &p.TargetWeight,
		&p.ActivityLevel, &p.Goal, &p.BMI, &p.BMR, &p.TDEE, &p.DailyCalories, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user profile: %w", err)
	}
	return &p, nil
}

// SaveProfile inserts or fully overwrites the user's body profile.
func (s *Store) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profile (user_id, gender, birth_date, height, weight, target_weight,
		                          activity_level, goal, bmi, bmr, tdee, daily_calories, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			birth_date = EXCLUDED.birth_date,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			target_weight = EXCLUDED.target_weight,
			activity_level = EXCLUDED.activity_level,
			goal = EXCLUDED.goal,
			bmi = EXCLUDED.bmi,
			bmr = EXCLUDED.bmr,
			tdee = EXCLUDED.tdee,
			daily_calories = EXCLUDED.daily_calories,
			updated_at = EXCLUDED.updated_at
	`, p.UserID, p.Gender, p.BirthDate, p.Height, p.Weight, p.TargetWeight,
		p.ActivityLevel, p.Goal, p.BMI, p.BMR, p.TDEE, p.DailyCalories, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save user profile: %w", err)
	}
	return nil
}
