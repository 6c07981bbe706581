// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/fitfamily/directive"
	"github.com/danielhkuo/fitfamily/llm"
	"github.com/danielhkuo/fitfamily/metrics"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/store"
)

const (
	onboardingDoneReply     = "Your profile is complete. I have prepared your first recommendations."
	onboardingFallbackReply = "Thanks! Let's keep going: what is the main thing you would like to improve about your health?"
)

// OnboardingState derives the user's onboarding state. The health profile
// is returned when one exists.
func (a *Assistant) OnboardingState(ctx context.Context, userID string) (string, *models.HealthProfile, error) {
	hp, err := a.store.GetHealthProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", nil, err
	}
	if hp != nil && hp.OnboardingCompleted {
		return models.OnboardingCompleted, hp, nil
	}
	if hp != nil {
		return models.OnboardingInProgress, hp, nil
	}

	n, err := a.store.CountMessages(ctx, userID, models.ChannelOnboarding)
	if err != nil {
		return "", nil, err
	}
	if n > 0 {
		return models.OnboardingInProgress, nil, nil
	}
	return models.OnboardingNotStarted, nil, nil
}

// OnboardingResult reports one onboarding turn.
type OnboardingResult struct {
	Message                  string
	Completed                bool
	RecommendationsGenerated bool
	RecommendationErr        error
}

// Onboard runs one turn of the onboarding conversation. When the model
// signals completion with a decodable profile the profiles are saved, the
// user is marked onboarded and a first recommendation set is generated.
func (a *Assistant) Onboard(ctx context.Context, userID, text string) (*OnboardingResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	state, _, err := a.OnboardingState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == models.OnboardingCompleted {
		return nil, ErrOnboardingCompleted
	}

	if err := a.store.AppendMessage(ctx, &models.ChatMessage{
		UserID:    userID,
		Channel:   models.ChannelOnboarding,
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: a.now(),
	}); err != nil {
		return nil, err
	}

	history, err := a.store.RecentMessages(ctx, userID, models.ChannelOnboarding, onboardingHistoryLimit)
	if err != nil {
		return nil, err
	}

	client, err := a.models.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	raw, err := client.Complete(ctx, llm.Request{
		System:      onboardingPrompt,
		Messages:    historyMessages(history),
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	reply := directive.ParseOnboarding(raw)
	res := &OnboardingResult{Message: reply.Visible}

	if reply.SentinelFound && !reply.Complete() {
		slog.Warn("onboarding profile not decodable", "user_id", userID, "error", reply.Err)
	}

	if reply.Complete() {
		now := a.now()
		if err := a.completeOnboarding(ctx, userID, reply.Profile, now); err != nil {
			return nil, err
		}
		res.Completed = true
		res.RecommendationErr = a.firstRecommendations(ctx, userID)
		res.RecommendationsGenerated = res.RecommendationErr == nil

		if res.Message == "" {
			res.Message = onboardingDoneReply
		} else {
			res.Message += "\n\n" + onboardingDoneReply
		}
	}

	if res.Message == "" {
		res.Message = onboardingFallbackReply
	}

	provider := client.Provider()
	if err := a.store.AppendMessage(ctx, &models.ChatMessage{
		UserID:    userID,
		Channel:   models.ChannelOnboarding,
		Role:      models.RoleAssistant,
		Content:   res.Message,
		Provider:  &provider,
		CreatedAt: a.now(),
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// completeOnboarding saves everything the conversation collected and marks
// the health profile onboarded.
func (a *Assistant) completeOnboarding(ctx context.Context, userID string, p *directive.OnboardingProfile, now time.Time) error {
	fields := p.Fields()

	if fields.TouchesBody() || p.BirthDate != nil || p.BirthYear != nil {
		var birth *time.Time
		if b, ok := p.ResolveBirthDate(now); ok {
			birth = &b
		}
		if err := a.updateBody(ctx, userID, fields, birth, now); err != nil {
			return err
		}
	}

	_, err := a.upsertHealth(ctx, userID, now, func(hp *models.HealthProfile) {
		applyHealthFields(hp, fields)
		if p.Allergies != nil {
			hp.Allergies = p.Allergies
		}
		if p.Conditions != nil {
			hp.Conditions = p.Conditions
		}
		if p.Medications != nil {
			hp.Medications = p.Medications
		}
		setPositive(&hp.CholesterolTotal, p.CholesterolTotal)
		setPositive(&hp.CholesterolHDL, p.CholesterolHDL)
		setPositive(&hp.CholesterolLDL, p.CholesterolLDL)
		setPositive(&hp.VitaminD, p.VitaminD)
		setPositive(&hp.VitaminB12, p.VitaminB12)
		hp.OnboardingCompleted = true
	})
	if err != nil {
		return err
	}

	metrics.OnboardingCompletions.Inc()
	slog.Info("onboarding completed", "user_id", userID)
	return nil
}

func setPositive(dst **float64, v *float64) {
	if v != nil && *v > 0 {
		*dst = v
	}
}

func (a *Assistant) firstRecommendations(ctx context.Context, userID string) error {
	if _, err := a.GenerateRecommendations(ctx, userID, ModeCatalog); err != nil {
		slog.Error("generate recommendations after onboarding", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// FormResult reports a form-based onboarding.
type FormResult struct {
	HealthProfile            *models.HealthProfile
	RecommendationsGenerated bool
	RecommendationErr        error
}

// SubmitOnboardingForm completes onboarding from a structured form instead
// of a conversation. Resubmitting after completion updates the profile and
// regenerates the set.
func (a *Assistant) SubmitOnboardingForm(ctx context.Context, userID string, form models.OnboardingFormRequest) (*FormResult, error) {
	now := a.now()
	first := false
	hp, err := a.upsertHealth(ctx, userID, now, func(hp *models.HealthProfile) {
		if form.PrimaryGoal != "" {
			hp.PrimaryGoal = form.PrimaryGoal
		}
		if form.DietType != "" {
			hp.DietType = form.DietType
		}
		if form.StressLevel != "" {
			hp.StressLevel = form.StressLevel
		}
		if form.SleepHours != nil {
			hp.SleepHours = form.SleepHours
		}
		if form.MonthlyBudget != nil {
			hp.MonthlyBudget = form.MonthlyBudget
		}
		setPositive(&hp.CholesterolTotal, form.CholesterolTotal)
		setPositive(&hp.VitaminD, form.VitaminD)
		first = !hp.OnboardingCompleted
		hp.OnboardingCompleted = true
	})
	if err != nil {
		return nil, err
	}
	if first {
		metrics.OnboardingCompletions.Inc()
	}

	res := &FormResult{HealthProfile: hp}
	res.RecommendationErr = a.firstRecommendations(ctx, userID)
	res.RecommendationsGenerated = res.RecommendationErr == nil
	return res, nil
}

// ResetOnboarding clears the onboarding conversation and the health
// profile. Chat history, meals, workouts and supplements are kept.
func (a *Assistant) ResetOnboarding(ctx context.Context, userID string) error {
	state, _, err := a.OnboardingState(ctx, userID)
	if err != nil {
		return err
	}
	if state == models.OnboardingNotStarted {
		return ErrOnboardingNotStarted
	}
	if err := a.store.ResetOnboarding(ctx, userID); err != nil {
		return err
	}
	slog.Info("onboarding reset", "user_id", userID, "previous_state", state)
	return nil
}

const onboardingPrompt = `You are FitFamily's onboarding coach. Get to know the user in a warm, short conversation so you can build their longevity plan. Ask one or two questions at a time and never repeat a question that was already answered.

Collect:
- main health goal (LONGEVITY, WEIGHT_LOSS, MUSCLE_GAIN, ENERGY, COGNITIVE, SLEEP, STRESS or GENERAL_HEALTH)
- age or birth date, height (cm), weight (kg), gender (MALE or FEMALE)
- activity level (SEDENTARY, LIGHT, MODERATE, ACTIVE or VERY_ACTIVE)
- sleep hours and stress level (LOW, MODERATE or HIGH)
- diet (OMNIVORE, VEGETARIAN, VEGAN, PESCATARIAN, KETO or PALEO), allergies, conditions and medications
- recent lab values if they have them (total, HDL and LDL cholesterol, vitamin D, vitamin B12)
- monthly budget for supplements in euros

When you have enough, write a short closing sentence, then the word PROFILE_COMPLETE on its own line followed by one JSON object:
{"primaryGoal": "", "age": null, "birthDate": null, "height": null, "weight": null, "gender": null, "activityLevel": null, "sleepHours": null, "stressLevel": null, "dietType": null, "allergies": [], "conditions": [], "medications": [], "cholesterolTotal": null, "cholesterolHDL": null, "cholesterolLDL": null, "vitaminD": null, "vitaminB12": null, "monthlyBudget": null}
Use null for anything the user did not tell you. Write nothing after the object.`
