// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/fitfamily/directive"
	"github.com/danielhkuo/fitfamily/llm"
	"github.com/danielhkuo/fitfamily/metabolism"
	"github.com/danielhkuo/fitfamily/metrics"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/recommend"
	"github.com/danielhkuo/fitfamily/store"
)

var (
	ErrHealthProfileRequired = errors.New("health profile required")
	ErrOnboardingCompleted   = errors.New("onboarding already completed")
	ErrOnboardingNotStarted  = errors.New("onboarding not started")
	ErrEmptyMessage          = errors.New("message is empty")
)

// Mode selects how GenerateRecommendations builds a set.
type Mode int

const (
	// ModeCatalog uses the static catalog only.
	ModeCatalog Mode = iota
	// ModeModel asks the model for a plan and falls back to the catalog
	// when the plan does not validate.
	ModeModel
)

// History sizes sent to the model.
const (
	chatHistoryLimit       = 10
	onboardingHistoryLimit = 20
)

// Assistant runs the conversational pipeline on top of the store and the
// model providers.
type Assistant struct {
	store  *store.Store
	models llm.Source
	now    func() time.Time
}

func New(st *store.Store, models llm.Source) *Assistant {
	return &Assistant{
		store:  st,
		models: models,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (a *Assistant) WithClock(now func() time.Time) *Assistant {
	a.now = now
	return a
}

// ApplyProfileFields merges non-nil fields into the user's profiles and
// recomputes derived metrics. Nil fields never overwrite stored values. An
// age becomes a birth date exactly that many years before now. The health
// profile is created with defaults on first use; the onboarding flag is
// left as it is.
func (a *Assistant) ApplyProfileFields(ctx context.Context, userID string, f directive.ProfileFields, now time.Time) error {
	if f.Empty() {
		return nil
	}

	if f.TouchesBody() {
		var birth *time.Time
		if f.Age != nil {
			b := metabolism.BirthDateForAge(*f.Age, now)
			birth = &b
		}
		if err := a.updateBody(ctx, userID, f, birth, now); err != nil {
			return err
		}
	}

	_, err := a.upsertHealth(ctx, userID, now, func(hp *models.HealthProfile) {
		applyHealthFields(hp, f)
	})
	return err
}

func (a *Assistant) updateBody(ctx context.Context, userID string, f directive.ProfileFields, birth *time.Time, now time.Time) error {
	p, err := a.store.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		p = &models.UserProfile{UserID: userID}
	} else if err != nil {
		return err
	}

	if f.Weight != nil {
		p.Weight = f.Weight
	}
	if f.Height != nil {
		p.Height = f.Height
	}
	if f.Gender != nil {
		p.Gender = f.Gender
	}
	if f.ActivityLevel != nil {
		p.ActivityLevel = f.ActivityLevel
	}
	if f.Goal != nil {
		p.Goal = f.Goal
	}
	if birth != nil {
		p.BirthDate = birth
	}

	metabolism.Recompute(p, now)
	p.UpdatedAt = now
	return a.store.SaveProfile(ctx, p)
}

// upsertHealth loads or creates the health profile, applies mutate and saves.
func (a *Assistant) upsertHealth(ctx context.Context, userID string, now time.Time, mutate func(*models.HealthProfile)) (*models.HealthProfile, error) {
	hp, err := a.store.GetHealthProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		hp = &models.HealthProfile{
			UserID:      userID,
			PrimaryGoal: models.HealthGoalGeneralHealth,
			StressLevel: models.StressModerate,
			DietType:    models.DietOmnivore,
			Allergies:   []string{},
			Conditions:  []string{},
			Medications: []string{},
			CreatedAt:   now,
		}
	} else if err != nil {
		return nil, err
	}

	mutate(hp)
	hp.UpdatedAt = now
	if err := a.store.SaveHealthProfile(ctx, hp); err != nil {
		return nil, err
	}
	return hp, nil
}

func applyHealthFields(hp *models.HealthProfile, f directive.ProfileFields) {
	if f.PrimaryGoal != nil {
		hp.PrimaryGoal = *f.PrimaryGoal
	}
	if f.StressLevel != nil {
		hp.StressLevel = *f.StressLevel
	}
	if f.DietType != nil {
		hp.DietType = *f.DietType
	}
	if f.SleepHours != nil {
		hp.SleepHours = f.SleepHours
	}
	if f.MonthlyBudget != nil {
		hp.MonthlyBudget = f.MonthlyBudget
	}
}

// Generated is a stored recommendation set and where it came from.
type Generated struct {
	Recommendations []models.Recommendation
	Source          string
}

// GenerateRecommendations replaces the user's active set. It requires a
// health profile. In ModeModel a provider failure is returned as is and the
// previous set stays active.
func (a *Assistant) GenerateRecommendations(ctx context.Context, userID string, mode Mode) (*Generated, error) {
	hp, err := a.store.GetHealthProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrHealthProfileRequired
	}
	if err != nil {
		return nil, err
	}

	now := a.now()
	recs, source := recommend.FromCatalog(hp.PrimaryGoal), recommend.SourceStatic
	if mode == ModeModel {
		recs, source, err = a.modelRecommendations(ctx, userID, hp, now)
		if err != nil {
			return nil, err
		}
	}

	stored, err := a.store.ReplaceRecommendations(ctx, userID, recs, now)
	if err != nil {
		return nil, fmt.Errorf("replace recommendations: %w", err)
	}
	metrics.Generations.WithLabelValues(source).Inc()
	slog.Info("recommendations generated", "user_id", userID, "source", source, "count", len(stored))

	return &Generated{Recommendations: stored, Source: source}, nil
}

func (a *Assistant) modelRecommendations(ctx context.Context, userID string, hp *models.HealthProfile, now time.Time) ([]models.Recommendation, string, error) {
	up, err := a.store.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	prompt, err := recommend.PromptProfile(up, hp, now)
	if err != nil {
		return nil, "", err
	}

	client, err := a.models.ClientFor(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	text, err := client.Complete(ctx, llm.Request{
		System:      recommend.SystemPrompt,
		Messages:    []llm.Message{{Role: models.RoleUser, Content: prompt}},
		MaxTokens:   2000,
		Temperature: 0.7,
		JSON:        true,
	})
	if err != nil {
		return nil, "", err
	}

	plan, err := recommend.ParsePlan(text)
	if err != nil {
		slog.Warn("model plan rejected, using catalog", "user_id", userID, "error", err)
		return recommend.FromCatalog(hp.PrimaryGoal), recommend.SourceFallback, nil
	}
	return recommend.FromPlan(plan, hp.PrimaryGoal), recommend.SourceModel, nil
}

func historyMessages(msgs []models.ChatMessage) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, m := range msgs {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
