// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - UserProfile: body measurements plus derived BMI/BMR/TDEE/daily calories
  - HealthProfile: goals, lifestyle, lab markers, onboarding completion flag
  - Recommendation: one entry of the user's active recommendation set
  - ChatMessage: append-only message, tagged by channel (chat or onboarding)
  - Meal, Workout, Supplement, SupplementLog: tracking records
  - UserSettings: per-user model provider keys and default provider
  - PushSubscription: browser push endpoint registration

# Request Types

Request DTOs carry validate tags consumed by middleware.ValidateStruct.
Pointer fields mean "optional": nil leaves the stored value untouched.

# Constants

Enumerations are plain upper-case strings so they round-trip through JSON,
SQL and model replies unchanged:

	GenderMale, GenderFemale
	ActivitySedentary ... ActivityVeryActive
	GoalLose, GoalMaintain, GoalGain
	HealthGoalLongevity ... HealthGoalGeneralHealth
	RecommendationSupplement, RecommendationExercise, RecommendationMeal
	ChannelChat, ChannelOnboarding
	OnboardingNotStarted, OnboardingInProgress, OnboardingCompleted
*/
package models
