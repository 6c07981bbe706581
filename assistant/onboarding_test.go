// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/testutil"
)

const completionReply = `Perfect, that's everything I need!
PROFILE_COMPLETE
{"primaryGoal": "sleep", "age": 39, "height": 180, "weight": 82, "gender": "MALE", "activityLevel": "LIGHT", "sleepHours": 6, "stressLevel": "HIGH", "dietType": "VEGETARIAN", "allergies": ["peanuts"], "conditions": [], "medications": [], "vitaminD": 21, "monthlyBudget": 60}`

func TestOnboardingConversationCompletes(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{replies: []string{"Welcome! What is your main goal?", completionReply}}
	a, st, _ := newAssistant(t, client)

	state, _, err := a.OnboardingState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingNotStarted, state)

	res, err := a.Onboard(ctx, "u1", "Hi")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, "Welcome! What is your main goal?", res.Message)

	state, _, err = a.OnboardingState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingInProgress, state)

	res, err = a.Onboard(ctx, "u1", "Better sleep. I'm 39, 180 cm, 82 kg, vegetarian, allergic to peanuts")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.True(t, res.RecommendationsGenerated)
	assert.NotContains(t, res.Message, "PROFILE_COMPLETE")
	assert.NotContains(t, res.Message, "{")
	assert.Contains(t, res.Message, "Perfect, that's everything I need!")

	state, hp, err := a.OnboardingState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingCompleted, state)
	assert.Equal(t, models.HealthGoalSleep, hp.PrimaryGoal)
	assert.Equal(t, models.DietVegetarian, hp.DietType)
	assert.Equal(t, []string{"peanuts"}, hp.Allergies)
	assert.Equal(t, 21.0, *hp.VitaminD)

	p, err := st.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1987, 10, 15, 0, 0, 0, 0, time.UTC), p.BirthDate.UTC())
	assert.NotNil(t, p.DailyCalories)

	recs, err := st.ListRecommendations(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, recs)

	_, err = a.Onboard(ctx, "u1", "one more thing")
	assert.ErrorIs(t, err, ErrOnboardingCompleted)
	assert.Len(t, client.reqs, 2)
}

func TestOnboardingSentinelWithoutPayloadStaysInProgress(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{replies: []string{"Thanks! PROFILE_COMPLETE"}}
	a, _, _ := newAssistant(t, client)

	res, err := a.Onboard(ctx, "u1", "that's all")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, "Thanks!", res.Message)

	state, _, err := a.OnboardingState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingInProgress, state)
}

func TestOnboardingSendsTwentyMessages(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{}
	for i := 0; i < 12; i++ {
		client.replies = append(client.replies, "Tell me more.")
	}
	a, _, _ := newAssistant(t, client)

	for i := 0; i < 12; i++ {
		_, err := a.Onboard(ctx, "u1", "answer")
		require.NoError(t, err)
	}
	assert.Len(t, client.reqs[len(client.reqs)-1].Messages, onboardingHistoryLimit)
}

func TestResetOnboardingKeepsLogs(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{replies: []string{completionReply}}
	a, st, conn := newAssistant(t, client)

	testutil.CreateTestMeal(t, conn, "u1", "Salad", 350, fixedNow)
	testutil.CreateTestWorkout(t, conn, "u1", 30, 250, fixedNow)
	testutil.CreateTestSupplement(t, conn, "u1", "Magnesium")

	_, err := a.Onboard(ctx, "u1", "all answers")
	require.NoError(t, err)

	require.NoError(t, a.ResetOnboarding(ctx, "u1"))

	state, hp, err := a.OnboardingState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingNotStarted, state)
	assert.Nil(t, hp)

	n, err := st.CountMessages(ctx, "u1", models.ChannelOnboarding)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, 1, testutil.CountRows(t, conn, "meal", "u1"))
	assert.Equal(t, 1, testutil.CountRows(t, conn, "workout", "u1"))
	assert.Equal(t, 1, testutil.CountRows(t, conn, "supplement", "u1"))

	assert.ErrorIs(t, a.ResetOnboarding(ctx, "u1"), ErrOnboardingNotStarted)
}

func TestSubmitOnboardingForm(t *testing.T) {
	ctx := context.Background()
	a, st, _ := newAssistant(t, &stubClient{})
	sleep := 7.5

	res, err := a.SubmitOnboardingForm(ctx, "u1", models.OnboardingFormRequest{
		PrimaryGoal: models.HealthGoalMuscleGain,
		SleepHours:  &sleep,
	})
	require.NoError(t, err)
	assert.True(t, res.HealthProfile.OnboardingCompleted)
	assert.Equal(t, models.HealthGoalMuscleGain, res.HealthProfile.PrimaryGoal)
	assert.Equal(t, models.DietOmnivore, res.HealthProfile.DietType)
	assert.True(t, res.RecommendationsGenerated)

	recs, err := st.ListRecommendations(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, recs)

	res, err = a.SubmitOnboardingForm(ctx, "u1", models.OnboardingFormRequest{DietType: models.DietVegan})
	require.NoError(t, err)
	assert.Equal(t, models.HealthGoalMuscleGain, res.HealthProfile.PrimaryGoal)
	assert.Equal(t, models.DietVegan, res.HealthProfile.DietType)
}
