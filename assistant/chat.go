// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/fitfamily/directive"
	"github.com/danielhkuo/fitfamily/llm"
	"github.com/danielhkuo/fitfamily/metabolism"
	"github.com/danielhkuo/fitfamily/metrics"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/store"
)

const chatFallbackReply = "Sorry, I could not put together an answer. Could you rephrase that?"

// ChatResult reports what one chat turn did. ProfileErr and
// RecommendationErr are independent; either may be set while the other
// action succeeded.
type ChatResult struct {
	Message                  string
	ActionsExecuted          bool
	ProfileUpdated           bool
	RecommendationsGenerated bool
	ProfileErr               error
	RecommendationErr        error
}

// Chat runs one turn of the general chat channel. The user message is
// persisted before the model is called and stays persisted if the call
// fails.
func (a *Assistant) Chat(ctx context.Context, userID, text string) (*ChatResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	now := a.now()
	if err := a.store.AppendMessage(ctx, &models.ChatMessage{
		UserID:    userID,
		Channel:   models.ChannelChat,
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	history, err := a.store.RecentMessages(ctx, userID, models.ChannelChat, chatHistoryLimit)
	if err != nil {
		return nil, err
	}

	system, err := a.chatSystemPrompt(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	client, err := a.models.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	raw, err := client.Complete(ctx, llm.Request{
		System:      system,
		Messages:    historyMessages(history),
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	reply := directive.Parse(raw)
	res := &ChatResult{Message: reply.Visible}

	switch {
	case reply.Malformed():
		metrics.Directives.WithLabelValues("malformed").Inc()
		slog.Warn("malformed directive ignored", "user_id", userID, "error", reply.Err)
	case reply.Actions == nil:
		metrics.Directives.WithLabelValues("absent").Inc()
	default:
		metrics.Directives.WithLabelValues("applied").Inc()
		a.execute(ctx, userID, reply.Actions, res)
	}

	if res.Message == "" {
		res.Message = chatFallbackReply
	}

	provider := client.Provider()
	if err := a.store.AppendMessage(ctx, &models.ChatMessage{
		UserID:    userID,
		Channel:   models.ChannelChat,
		Role:      models.RoleAssistant,
		Content:   res.Message,
		Provider:  &provider,
		CreatedAt: a.now(),
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// execute applies the actions of a decoded directive. The profile update
// runs first so a generation in the same turn sees the new goal.
func (a *Assistant) execute(ctx context.Context, userID string, act *directive.Actions, res *ChatResult) {
	if act.UpdateProfile && !act.ProfileData.Empty() {
		res.ActionsExecuted = true
		if err := a.ApplyProfileFields(ctx, userID, act.ProfileData, a.now()); err != nil {
			slog.Error("apply profile fields", "user_id", userID, "error", err)
			res.ProfileErr = err
		} else {
			res.ProfileUpdated = true
		}
	}

	if act.GenerateRecommendations {
		res.ActionsExecuted = true
		if _, err := a.GenerateRecommendations(ctx, userID, ModeCatalog); err != nil {
			if !errors.Is(err, ErrHealthProfileRequired) {
				slog.Error("generate recommendations", "user_id", userID, "error", err)
			}
			res.RecommendationErr = err
		} else {
			res.RecommendationsGenerated = true
		}
	}
}

const chatPrompt = `You are FitFamily, a friendly health and longevity coach. Answer in the user's language, briefly and practically.

When the user tells you something about their body or goals, save it by starting your reply with exactly one block:
<<<ACTIONS>>>
{"updateProfile": true, "profileData": {"age": null, "weight": null, "height": null, "gender": null, "activityLevel": null, "goal": null, "primaryGoal": null, "stressLevel": null, "dietType": null, "sleepHours": null, "monthlyBudget": null}, "generateRecommendations": false}
<<<END_ACTIONS>>>
Use null for anything you did not learn in this message. gender is MALE or FEMALE. activityLevel is SEDENTARY, LIGHT, MODERATE, ACTIVE or VERY_ACTIVE. goal is LOSE, MAINTAIN or GAIN. primaryGoal is LONGEVITY, WEIGHT_LOSS, MUSCLE_GAIN, ENERGY, COGNITIVE, SLEEP, STRESS or GENERAL_HEALTH. stressLevel is LOW, MODERATE or HIGH. dietType is OMNIVORE, VEGETARIAN, VEGAN, PESCATARIAN, KETO or PALEO. Weight is in kg, height in cm, budget in euros per month.
Set generateRecommendations to true when the user asks for a new plan or their goal changed.
After the block, write your answer. Never mention the block.`

// chatSystemPrompt appends what is known about the user to the chat
// instructions.
func (a *Assistant) chatSystemPrompt(ctx context.Context, userID string, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(chatPrompt)

	up, err := a.store.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	hp, err := a.store.GetHealthProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	if up == nil && hp == nil {
		b.WriteString("\n\nNothing is known about the user yet.")
		return b.String(), nil
	}

	b.WriteString("\n\nKnown about the user:")
	if up != nil {
		if up.BirthDate != nil {
			fmt.Fprintf(&b, "\n- age: %d", metabolism.AgeOn(*up.BirthDate, now))
		}
		writeOpt(&b, "gender", up.Gender)
		writeNum(&b, "weight (kg)", up.Weight)
		writeNum(&b, "height (cm)", up.Height)
		writeOpt(&b, "activity level", up.ActivityLevel)
		writeOpt(&b, "weight goal", up.Goal)
		if up.DailyCalories != nil {
			fmt.Fprintf(&b, "\n- daily calorie target: %d", *up.DailyCalories)
		}
	}
	if hp != nil {
		fmt.Fprintf(&b, "\n- primary goal: %s\n- diet: %s\n- stress: %s", hp.PrimaryGoal, hp.DietType, hp.StressLevel)
		writeNum(&b, "sleep (h)", hp.SleepHours)
		writeNum(&b, "monthly budget (EUR)", hp.MonthlyBudget)
		if len(hp.Allergies) > 0 {
			fmt.Fprintf(&b, "\n- allergies: %s", strings.Join(hp.Allergies, ", "))
		}
		if len(hp.Conditions) > 0 {
			fmt.Fprintf(&b, "\n- conditions: %s", strings.Join(hp.Conditions, ", "))
		}
	}
	return b.String(), nil
}

func writeOpt(b *strings.Builder, label string, v *string) {
	if v != nil {
		fmt.Fprintf(b, "\n- %s: %s", label, *v)
	}
}

func writeNum(b *strings.Builder, label string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, "\n- %s: %g", label, *v)
	}
}
