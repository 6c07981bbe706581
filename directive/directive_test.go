// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directive

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `<<<ACTIONS>>>
{
  "updateProfile": true,
  "profileData": {
    "age": 40,
    "weight": 82,
    "height": null,
    "primaryGoal": "LONGEVITY"
  },
  "generateRecommendations": true
}
<<<END_ACTIONS>>>

Great! I saved your profile: 40 years, 82 kg, goal longevity.`

func TestParseWithoutMarkersIsVerbatim(t *testing.T) {
	replies := []string{
		"",
		"Hello there",
		"  padded reply with spaces  \n",
		"Mentions ACTIONS but no markers",
		"only a close marker <<<END_ACTIONS>>> here",
	}
	for _, reply := range replies {
		got := Parse(reply)
		assert.Equal(t, reply, got.Visible)
		assert.Nil(t, got.Actions)
		assert.False(t, got.Found)
		assert.False(t, got.Malformed())
	}
}

func TestParseWellFormed(t *testing.T) {
	got := Parse(wellFormed)

	require.NotNil(t, got.Actions)
	assert.True(t, got.Found)
	assert.Equal(t, "Great! I saved your profile: 40 years, 82 kg, goal longevity.", got.Visible)

	a := got.Actions
	assert.True(t, a.UpdateProfile)
	assert.True(t, a.GenerateRecommendations)
	require.NotNil(t, a.ProfileData.Age)
	assert.Equal(t, 40, *a.ProfileData.Age)
	require.NotNil(t, a.ProfileData.Weight)
	assert.Equal(t, 82.0, *a.ProfileData.Weight)
	assert.Nil(t, a.ProfileData.Height)
	assert.Nil(t, a.ProfileData.Gender)
	require.NotNil(t, a.ProfileData.PrimaryGoal)
	assert.Equal(t, "LONGEVITY", *a.ProfileData.PrimaryGoal)
}

func TestParseStripsBlockInsideProse(t *testing.T) {
	reply := "Before.\n<<<ACTIONS>>>{\"updateProfile\":false,\"profileData\":{},\"generateRecommendations\":false}<<<END_ACTIONS>>>\nAfter."
	got := Parse(reply)

	require.NotNil(t, got.Actions)
	assert.Equal(t, "Before.\n\nAfter.", got.Visible)
	assert.False(t, got.Actions.UpdateProfile)
	assert.True(t, got.Actions.ProfileData.Empty())
}

func TestParseMalformedStillStripsBlock(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"invalid json", "<<<ACTIONS>>>{not json}<<<END_ACTIONS>>>\nHi!"},
		{"array", "<<<ACTIONS>>>[1,2]<<<END_ACTIONS>>>\nHi!"},
		{"empty", "<<<ACTIONS>>><<<END_ACTIONS>>>\nHi!"},
		{"wrong field type", `<<<ACTIONS>>>{"updateProfile":true,"profileData":{"weight":"82kg"}}<<<END_ACTIONS>>>` + "\nHi!"},
		{"trailing garbage", `<<<ACTIONS>>>{"updateProfile":true} extra<<<END_ACTIONS>>>` + "\nHi!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.reply)
			assert.True(t, got.Found)
			assert.True(t, got.Malformed())
			assert.Nil(t, got.Actions)
			assert.Error(t, got.Err)
			assert.Equal(t, "Hi!", got.Visible)
		})
	}
}

func TestParseUnclosedBlockShowsRawReply(t *testing.T) {
	reply := "<<<ACTIONS>>>{\"updateProfile\":true}\nHi!"
	got := Parse(reply)

	assert.Equal(t, reply, got.Visible)
	assert.False(t, got.Found)
	assert.Nil(t, got.Actions)
}

func TestParseVisibleNonEmptyWhenProseNonEmpty(t *testing.T) {
	for _, prose := range []string{"Ok", "Noted, thanks.", "  spaced  "} {
		got := Parse(`<<<ACTIONS>>>{"updateProfile":false}<<<END_ACTIONS>>>` + prose)
		assert.NotEmpty(t, got.Visible)
		assert.Equal(t, strings.TrimSpace(prose), got.Visible)
	}
}

func TestParseAcceptsFencedJSON(t *testing.T) {
	reply := "<<<ACTIONS>>>\n```json\n{\"updateProfile\":true,\"profileData\":{\"weight\":82}}\n```\n<<<END_ACTIONS>>>\nSaved."
	got := Parse(reply)

	require.NotNil(t, got.Actions)
	require.NotNil(t, got.Actions.ProfileData.Weight)
	assert.Equal(t, 82.0, *got.Actions.ProfileData.Weight)
	assert.Equal(t, "Saved.", got.Visible)
}

func TestParseIgnoresUnknownFields(t *testing.T) {
	reply := `<<<ACTIONS>>>{"updateProfile":true,"profileData":{"weight":82,"favoriteColor":"blue"},"mood":"happy"}<<<END_ACTIONS>>>Ok`
	got := Parse(reply)

	require.NotNil(t, got.Actions)
	require.NotNil(t, got.Actions.ProfileData.Weight)
}

func TestParseNormalizesEnums(t *testing.T) {
	reply := `<<<ACTIONS>>>{"updateProfile":true,"profileData":{"gender":"male","primaryGoal":"weight loss","stressLevel":"extreme","age":-3,"height":0}}<<<END_ACTIONS>>>Ok`
	got := Parse(reply)

	require.NotNil(t, got.Actions)
	pd := got.Actions.ProfileData
	require.NotNil(t, pd.Gender)
	assert.Equal(t, "MALE", *pd.Gender)
	require.NotNil(t, pd.PrimaryGoal)
	assert.Equal(t, "WEIGHT_LOSS", *pd.PrimaryGoal)
	assert.Nil(t, pd.StressLevel)
	assert.Nil(t, pd.Age)
	assert.Nil(t, pd.Height)
}

func TestParseUsesFirstBlockOnly(t *testing.T) {
	reply := `<<<ACTIONS>>>{"updateProfile":true,"profileData":{"weight":82}}<<<END_ACTIONS>>>Text <<<ACTIONS>>>{"updateProfile":true,"profileData":{"weight":90}}<<<END_ACTIONS>>>`
	got := Parse(reply)

	require.NotNil(t, got.Actions)
	assert.Equal(t, 82.0, *got.Actions.ProfileData.Weight)
}

func TestTouchesBody(t *testing.T) {
	w := 82.0
	goal := "LONGEVITY"
	assert.True(t, ProfileFields{Weight: &w}.TouchesBody())
	assert.False(t, ProfileFields{PrimaryGoal: &goal}.TouchesBody())
	assert.True(t, ProfileFields{}.Empty())
}

func TestParseOnboardingWithoutSentinel(t *testing.T) {
	got := ParseOnboarding("What is your main goal?")

	assert.False(t, got.SentinelFound)
	assert.False(t, got.Complete())
	assert.Equal(t, "What is your main goal?", got.Visible)
}

func TestParseOnboardingComplete(t *testing.T) {
	reply := `Thanks, I have everything I need.
PROFILE_COMPLETE
{
  "primaryGoal": "LONGEVITY",
  "birthYear": 1986,
  "height": 180,
  "weight": 82,
  "gender": "MALE",
  "activityLevel": "MODERATE",
  "sleepHours": 7,
  "stressLevel": "MODERATE",
  "dietType": "OMNIVORE",
  "allergies": ["peanuts"],
  "cholesterolTotal": 210,
  "vitaminD": 32,
  "monthlyBudget": 100
}
Let's go!`

	got := ParseOnboarding(reply)

	require.True(t, got.Complete())
	assert.True(t, got.SentinelFound)
	assert.Equal(t, "Thanks, I have everything I need.", got.Visible)
	p := got.Profile
	assert.Equal(t, "LONGEVITY", *p.PrimaryGoal)
	assert.Equal(t, []string{"peanuts"}, p.Allergies)
	assert.Equal(t, 210.0, *p.CholesterolTotal)

	birth, ok := p.ResolveBirthDate(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(1986, 1, 1, 0, 0, 0, 0, time.UTC), birth)
}

func TestParseOnboardingSentinelWithoutObject(t *testing.T) {
	got := ParseOnboarding("Almost done PROFILE_COMPLETE but no data")

	assert.True(t, got.SentinelFound)
	assert.False(t, got.Complete())
	assert.ErrorIs(t, got.Err, ErrNoProfileObject)
	assert.Equal(t, "Almost done", got.Visible)
}

func TestParseOnboardingSentinelWithBrokenObject(t *testing.T) {
	got := ParseOnboarding("PROFILE_COMPLETE {\"height\": 180,")

	assert.True(t, got.SentinelFound)
	assert.False(t, got.Complete())
	assert.Error(t, got.Err)
	assert.Empty(t, got.Visible)
}

func TestResolveBirthDatePrecedence(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	date := "1990-06-30"
	age := 39
	year := 1980

	got, ok := OnboardingProfile{BirthDate: &date, Age: &age, BirthYear: &year}.ResolveBirthDate(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(1990, 6, 30, 0, 0, 0, 0, time.UTC), got)

	got, ok = OnboardingProfile{Age: &age, BirthYear: &year}.ResolveBirthDate(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(1987, 10, 15, 0, 0, 0, 0, time.UTC), got)

	_, ok = OnboardingProfile{}.ResolveBirthDate(now)
	assert.False(t, ok)

	got, ok = OnboardingProfile{Age: &age}.ResolveBirthDate(time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(1989, 2, 28, 0, 0, 0, 0, time.UTC), got)
}

func TestExtractObject(t *testing.T) {
	obj, ok := ExtractObject("Here you go:\n```json\n{\"a\": {\"b\": 1}}\n```\nEnjoy")
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, obj)

	_, ok = ExtractObject("no json here")
	assert.False(t, ok)

	_, ok = ExtractObject("} backwards {")
	assert.False(t, ok)
}
