// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/models"
)

// ListRecommendations returns the active set, most essential first. Equal
// priorities keep the order they were generated in.
func (s *Store) ListRecommendations(ctx context.Context, userID string) ([]models.Recommendation, error) {
	return listRecommendations(ctx, s.db, userID)
}

func listRecommendations(ctx context.Context, q queryer, userID string) ([]models.Recommendation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, type, category, title, description, priority, position,
		       supplement_name, dosage, timing, monthly_price, reasoning,
		       exercise_plan, meal_plan, created_at
		FROM recommendation
		WHERE user_id = $1
		ORDER BY priority ASC, position ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	recs := []models.Recommendation{}
	for rows.Next() {
		var (
			r                  models.Recommendation
			exercise, mealPlan *string
		)
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Type, &r.Category, &r.Title, &r.Description, &r.Priority, &r.Position,
			&r.SupplementName, &r.Dosage, &r.Timing, &r.MonthlyPrice, &r.Reasoning,
			&exercise, &mealPlan, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		if r.ExercisePlan, err = decodeJSON[models.ExercisePlan](exercise); err != nil {
			return nil, fmt.Errorf("decode exercise plan: %w", err)
		}
		if r.MealPlan, err = decodeJSON[models.DietPlan](mealPlan); err != nil {
			return nil, fmt.Errorf("decode meal plan: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return recs, nil
}

// ReplaceRecommendations deletes the user's active set and inserts recs in
// one transaction. Readers see either the old set or the new one. IDs,
// owner and timestamps are assigned here; positions are renumbered in slice
// order. The stored set is returned in list order.
//
// Replaces for the same user are serialised on the user's health profile
// row, which generation requires to exist. Under READ COMMITTED two
// unlocked replaces could both delete and then both insert.
func (s *Store) ReplaceRecommendations(ctx context.Context, userID string, recs []models.Recommendation, now time.Time) ([]models.Recommendation, error) {
	var out []models.Recommendation
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// A no-op write takes the row lock in postgres and the write lock in sqlite.
		if _, err := tx.ExecContext(ctx,
			"UPDATE health_profile SET updated_at = updated_at WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("lock health profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM recommendation WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("delete recommendations: %w", err)
		}

		for i, r := range recs {
			exercise, err := encodeJSON(r.ExercisePlan)
			if err != nil {
				return fmt.Errorf("encode exercise plan: %w", err)
			}
			mealPlan, err := encodeJSON(r.MealPlan)
			if err != nil {
				return fmt.Errorf("encode meal plan: %w", err)
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO recommendation (id, user_id, type, category, title, description, priority, position,
				                            supplement_name, dosage, timing, monthly_price, reasoning,
				                            exercise_plan, meal_plan, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			`, auth.NewID(), userID, r.Type, r.Category, r.Title, r.Description, r.Priority, i,
				r.SupplementName, r.Dosage, r.Timing, r.MonthlyPrice, r.Reasoning,
				exercise, mealPlan, now)
			if err != nil {
				return fmt.Errorf("insert recommendation %d: %w", i, err)
			}
		}

		listed, err := listRecommendations(ctx, tx, userID)
		out = listed
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
