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

// GetHealthProfile returns the user's health profile or ErrNotFound.
func (s *Store) GetHealthProfile(ctx context.Context, userID string) (*models.HealthProfile, error) {
	return getHealthProfile(ctx, s.db, userID)
}

func getHealthProfile(ctx context.Context, q queryer, userID string) (*models.HealthProfile, error) {
	var (
		hp                               models.HealthProfile
		allergies, conditions, medicines string
	)
	err := q.QueryRowContext(ctx, `
		SELECT user_id, primary_goal, diet_type, stress_level, sleep_hours, monthly_budget,
		       allergies, conditions, medications,
		       cholesterol_total, cholesterol_hdl, cholesterol_ldl, vitamin_d, vitamin_b12,
		       onboarding_completed, created_at, updated_at
		FROM health_profile
		WHERE user_id = $1
	`, userID).Scan(
		&hp.UserID, &hp.PrimaryGoal, &hp.DietType, &hp.StressLevel, &hp.SleepHours, &hp.MonthlyBudget,
		&allergies, &conditions, &medicines,
		&hp.CholesterolTotal, &hp.CholesterolHDL, &hp.CholesterolLDL, &hp.VitaminD, &hp.VitaminB12,
		&hp.OnboardingCompleted, &hp.CreatedAt, &hp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query health profile: %w", err)
	}

	if hp.Allergies, err = decodeList(allergies); err != nil {
		return nil, fmt.Errorf("decode allergies: %w", err)
	}
	if hp.Conditions, err = decodeList(conditions); err != nil {
		return nil, fmt.Errorf("decode conditions: %w", err)
	}
	if hp.Medications, err = decodeList(medicines); err != nil {
		return nil, fmt.Errorf("decode medications: %w", err)
	}
	return &hp, nil
}

// SaveHealthProfile inserts or fully overwrites the user's health profile.
// CreatedAt is kept from the first insert.
func (s *Store) SaveHealthProfile(ctx context.Context, hp *models.HealthProfile) error {
	allergies, err := encodeList(hp.Allergies)
	if err != nil {
		return fmt.Errorf("encode allergies: %w", err)
	}
	conditions, err := encodeList(hp.Conditions)
	if err != nil {
		return fmt.Errorf("encode conditions: %w", err)
	}
	medications, err := encodeList(hp.Medications)
	if err != nil {
		return fmt.Errorf("encode medications: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO health_profile (user_id, primary_goal, diet_type, stress_level, sleep_hours, monthly_budget,
		                            allergies, conditions, medications,
		                            cholesterol_total, cholesterol_hdl, cholesterol_ldl, vitamin_d, vitamin_b12,
		                            onboarding_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (user_id) DO UPDATE SET
			primary_goal = EXCLUDED.primary_goal,
			diet_type = EXCLUDED.diet_type,
			stress_level = EXCLUDED.stress_level,
			sleep_hours = EXCLUDED.sleep_hours,
			monthly_budget = EXCLUDED.monthly_budget,
			allergies = EXCLUDED.allergies,
			conditions = EXCLUDED.conditions,
			medications = EXCLUDED.medications,
			cholesterol_total = EXCLUDED.cholesterol_total,
			cholesterol_hdl = EXCLUDED.cholesterol_hdl,
			cholesterol_ldl = EXCLUDED.cholesterol_ldl,
			vitamin_d = EXCLUDED.vitamin_d,
			vitamin_b12 = EXCLUDED.vitamin_b12,
			onboarding_completed = EXCLUDED.onboarding_completed,
			updated_at = EXCLUDED.updated_at
	`, hp.UserID, hp.PrimaryGoal, hp.DietType, hp.StressLevel, hp.SleepHours, hp.MonthlyBudget,
		allergies, conditions, medications,
		hp.CholesterolTotal, hp.CholesterolHDL, hp.CholesterolLDL, hp.VitaminD, hp.VitaminB12,
		hp.OnboardingCompleted, hp.CreatedAt, hp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save health profile: %w", err)
	}
	return nil
}

// ResetOnboarding deletes the onboarding conversation and the health
// profile in one transaction. Chat history, logs and the body profile are
// untouched.
func (s *Store) ResetOnboarding(ctx context.Context, userID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM chat_message WHERE user_id = $1 AND channel = $2",
			userID, models.ChannelOnboarding); err != nil {
			return fmt.Errorf("delete onboarding messages: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM health_profile WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("delete health profile: %w", err)
		}
		return nil
	})
}
