// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Gender constants
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Activity level constants
const (
	ActivitySedentary  = "SEDENTARY"
	ActivityLight      = "LIGHT"
	ActivityModerate   = "MODERATE"
	ActivityActive     = "ACTIVE"
	ActivityVeryActive = "VERY_ACTIVE"
)

// Weight goal constants
const (
	GoalLose     = "LOSE"
	GoalMaintain = "MAINTAIN"
	GoalGain     = "GAIN"
)

// Health goal constants
const (
	HealthGoalLongevity     = "LONGEVITY"
	HealthGoalWeightLoss    = "WEIGHT_LOSS"
	HealthGoalMuscleGain    = "MUSCLE_GAIN"
	HealthGoalEnergy        = "ENERGY"
	HealthGoalCognitive     = "COGNITIVE"
	HealthGoalSleep         = "SLEEP"
	HealthGoalStress        = "STRESS"
	HealthGoalGeneralHealth = "GENERAL_HEALTH"
)

// Stress level constants
const (
	StressLow      = "LOW"
	StressModerate = "MODERATE"
	StressHigh     = "HIGH"
)

// Diet type constants
const (
	DietOmnivore    = "OMNIVORE"
	DietVegetarian  = "VEGETARIAN"
	DietVegan       = "VEGAN"
	DietPescatarian = "PESCATARIAN"
	DietKeto        = "KETO"
	DietPaleo       = "PALEO"
)

// Recommendation type constants
const (
	RecommendationSupplement = "SUPPLEMENT"
	RecommendationExercise   = "EXERCISE"
	RecommendationMeal       = "MEAL"
)

// Chat channel constants
const (
	ChannelChat       = "chat"
	ChannelOnboarding = "onboarding"
)

// Chat role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Meal type constants
const (
	MealBreakfast = "BREAKFAST"
	MealLunch     = "LUNCH"
	MealDinner    = "DINNER"
	MealSnack     = "SNACK"
)

// Onboarding state constants
const (
	OnboardingNotStarted = "NOT_STARTED"
	OnboardingInProgress = "IN_PROGRESS"
	OnboardingCompleted  = "COMPLETED"
)

// Model provider constants
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Domain types

// UserProfile holds body measurements. BMI, BMR, TDEE and DailyCalories are
// derived and recomputed whenever an input changes.
type UserProfile struct {
	UserID        string     `json:"user_id"`
	Gender        *string    `json:"gender,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Height        *float64   `json:"height,omitempty"`
	Weight        *float64   `json:"weight,omitempty"`
	TargetWeight  *float64   `json:"target_weight,omitempty"`
	ActivityLevel *string    `json:"activity_level,omitempty"`
	Goal          *string    `json:"goal,omitempty"`
	BMI           *float64   `json:"bmi,omitempty"`
	BMR           *float64   `json:"bmr,omitempty"`
	TDEE          *float64   `json:"tdee,omitempty"`
	DailyCalories *int       `json:"daily_calories,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type HealthProfile struct {
	UserID              string    `json:"user_id"`
	PrimaryGoal         string    `json:"primary_goal"`
	DietType            string    `json:"diet_type"`
	StressLevel         string    `json:"stress_level"`
	SleepHours          *float64  `json:"sleep_hours,omitempty"`
	MonthlyBudget       *float64  `json:"monthly_budget,omitempty"`
	Allergies           []string  `json:"allergies"`
	Conditions          []string  `json:"conditions"`
	Medications         []string  `json:"medications"`
	CholesterolTotal    *float64  `json:"cholesterol_total,omitempty"`
	CholesterolHDL      *float64  `json:"cholesterol_hdl,omitempty"`
	CholesterolLDL      *float64  `json:"cholesterol_ldl,omitempty"`
	VitaminD            *float64  `json:"vitamin_d,omitempty"`
	VitaminB12          *float64  `json:"vitamin_b12,omitempty"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type DaySession struct {
	Day      string `json:"day" yaml:"day"`
	Activity string `json:"activity" yaml:"activity"`
	Duration int    `json:"duration" yaml:"duration"`
	Notes    string `json:"notes,omitempty" yaml:"notes"`
}

type ExercisePlan struct {
	Title         string       `json:"title,omitempty" yaml:"title"`
	WeeklyPlan    []DaySession `json:"weeklyPlan" yaml:"weekly_plan"`
	KeyPrinciples []string     `json:"keyPrinciples" yaml:"key_principles"`
}

type DietPlan struct {
	Type          string   `json:"type" yaml:"type"`
	Description   string   `json:"description,omitempty" yaml:"description"`
	KeyPrinciples []string `json:"keyPrinciples,omitempty" yaml:"key_principles"`
	Avoid         []string `json:"avoid,omitempty" yaml:"avoid"`
	Prioritize    []string `json:"prioritize,omitempty" yaml:"prioritize"`
}

// Recommendation is one entry of a user's active set. Lower Priority is more
// essential; Position preserves source order among equal priorities.
type Recommendation struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Type           string        `json:"type"`
	Category       string        `json:"category"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Priority       int           `json:"priority"`
	Position       int           `json:"position"`
	SupplementName *string       `json:"supplement_name,omitempty"`
	Dosage         *string       `json:"dosage,omitempty"`
	Timing         *string       `json:"timing,omitempty"`
	MonthlyPrice   *float64      `json:"monthly_price,omitempty"`
	Reasoning      *string       `json:"reasoning,omitempty"`
	ExercisePlan   *ExercisePlan `json:"exercise_plan,omitempty"`
	MealPlan       *DietPlan     `json:"meal_plan,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Channel   string    `json:"channel"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Provider  *string   `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Meal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MealType    string    `json:"meal_type"`
	Calories    *int      `json:"calories,omitempty"`
	Protein     *float64  `json:"protein,omitempty"`
	Carbs       *float64  `json:"carbs,omitempty"`
	Fat         *float64  `json:"fat,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	AIAnalysis  *string   `json:"ai_analysis,omitempty"`
	Date        time.Time `json:"date"`
}

type Workout struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Duration  int       `json:"duration"`
	Calories  *int      `json:"calories,omitempty"`
	Completed bool      `json:"completed"`
	Date      time.Time `json:"date"`
}

type Supplement struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Brand       *string         `json:"brand,omitempty"`
	Dosage      *string         `json:"dosage,omitempty"`
	Frequency   string          `json:"frequency"`
	TimeOfDay   *string         `json:"time_of_day,omitempty"`
	PurchaseURL *string         `json:"purchase_url,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	Logs        []SupplementLog `json:"logs"`
}

type SupplementLog struct {
	ID           string    `json:"id"`
	SupplementID string    `json:"supplement_id"`
	TakenAt      time.Time `json:"taken_at"`
}

// UserSettings holds per-user model provider keys. Keys are never returned
// unmasked.
type UserSettings struct {
	UserID          string  `json:"user_id"`
	GroqAPIKey      *string `json:"groq_api_key,omitempty"`
	OpenAIAPIKey    *string `json:"openai_api_key,omitempty"`
	ClaudeAPIKey    *string `json:"claude_api_key,omitempty"`
	GeminiAPIKey    *string `json:"gemini_api_key,omitempty"`
	DefaultProvider *string `json:"default_provider,omitempty"`
}

type PushSubscription struct {
	Endpoint  string    `json:"endpoint"`
	UserID    string    `json:"user_id"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// Request types

type UpdateProfileRequest struct {
	Gender        *string  `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	BirthDate     *string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Height        *float64 `json:"height" validate:"omitempty,gt=50,lt=300"`
	Weight        *float64 `json:"weight" validate:"omitempty,gt=20,lt=500"`
	TargetWeight  *float64 `json:"target_weight" validate:"omitempty,gt=20,lt=500"`
	ActivityLevel *string  `json:"activity_level" validate:"omitempty,oneof=SEDENTARY LIGHT MODERATE ACTIVE VERY_ACTIVE"`
	Goal          *string  `json:"goal" validate:"omitempty,oneof=LOSE MAINTAIN GAIN"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type OnboardingFormRequest struct {
	PrimaryGoal      string   `json:"primary_goal" validate:"omitempty,oneof=LONGEVITY WEIGHT_LOSS MUSCLE_GAIN ENERGY COGNITIVE SLEEP STRESS GENERAL_HEALTH"`
	DietType         string   `json:"diet_type" validate:"omitempty,oneof=OMNIVORE VEGETARIAN VEGAN PESCATARIAN KETO PALEO"`
	StressLevel      string   `json:"stress_level" validate:"omitempty,oneof=LOW MODERATE HIGH"`
	SleepHours       *float64 `json:"sleep_hours" validate:"omitempty,gte=0,lte=24"`
	MonthlyBudget    *float64 `json:"monthly_budget" validate:"omitempty,gte=0"`
	CholesterolTotal *float64 `json:"cholesterol_total" validate:"omitempty,gt=0"`
	VitaminD         *float64 `json:"vitamin_d" validate:"omitempty,gt=0"`
}

type CreateMealRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	MealType    string   `json:"meal_type" validate:"omitempty,oneof=BREAKFAST LUNCH DINNER SNACK"`
	Calories    *int     `json:"calories" validate:"omitempty,gte=0"`
	Protein     *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs       *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat         *float64 `json:"fat" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url"`
	AIAnalysis  *string  `json:"ai_analysis"`
}

type AnalyzeMealRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
}

type CreateWorkoutRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Duration int    `json:"duration" validate:"required,gt=0"`
	Calories *int   `json:"calories" validate:"omitempty,gte=0"`
}

type SupplementRequest struct {
	Name        *string `json:"name"`
	Brand       *string `json:"brand"`
	Dosage      *string `json:"dosage"`
	Frequency   *string `json:"frequency"`
	TimeOfDay   *string `json:"time_of_day"`
	PurchaseURL *string `json:"purchase_url" validate:"omitempty,url"`
	Notes       *string `json:"notes"`
	Active      *bool   `json:"active"`
}

type UpdateSettingsRequest struct {
	GroqAPIKey      *string `json:"groq_api_key"`
	OpenAIAPIKey    *string `json:"openai_api_key"`
	ClaudeAPIKey    *string `json:"claude_api_key"`
	GeminiAPIKey    *string `json:"gemini_api_key"`
	DefaultProvider *string `json:"default_provider" validate:"omitempty,oneof=groq openai claude gemini"`
}

type PushSubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// Response types

type ProfileResponse struct {
	Profile *UserProfile `json:"profile"`
}

type ChatHistoryResponse struct {
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Message                  string `json:"message"`
	ActionsExecuted          bool   `json:"actions_executed"`
	ProfileUpdated           bool   `json:"profile_updated"`
	RecommendationsGenerated bool   `json:"recommendations_generated"`
	ProfileError             string `json:"profile_error,omitempty"`
	RecommendationsError     string `json:"recommendations_error,omitempty"`
}

type OnboardingStatusResponse struct {
	State         string         `json:"state"`
	Completed     bool           `json:"completed"`
	Messages      []ChatMessage  `json:"messages"`
	HealthProfile *HealthProfile `json:"health_profile,omitempty"`
}

type OnboardingResponse struct {
	Message                  string `json:"message"`
	Completed                bool   `json:"completed"`
	RecommendationsGenerated bool   `json:"recommendations_generated"`
	RecommendationsError     string `json:"recommendations_error,omitempty"`
}

type OnboardingFormResponse struct {
	HealthProfile            *HealthProfile `json:"health_profile"`
	RecommendationsGenerated bool           `json:"recommendations_generated"`
	RecommendationsError     string         `json:"recommendations_error,omitempty"`
}

type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	Source          string           `json:"source,omitempty"`
	MonthlyCost     string           `json:"monthly_cost,omitempty"`
}

type MealAnalysis struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Calories    int      `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Confidence  string   `json:"confidence"`
	Items       []string `json:"items,omitempty"`
}

type MealAnalysisResponse struct {
	Analysis MealAnalysis `json:"analysis"`
}

type MealsResponse struct {
	Meals []Meal `json:"meals"`
}

type WorkoutStats struct {
	TodayCalories int `json:"today_calories"`
	TodayDuration int `json:"today_duration"`
	TodayCount    int `json:"today_count"`
}

type WorkoutsResponse struct {
	Workouts []Workout   `json:"workouts"`
	Stats    WorkoutStats `json:"stats"`
}

type SupplementsResponse struct {
	Supplements []Supplement `json:"supplements"`
}

type TodayStatsResponse struct {
	CaloriesEaten     int  `json:"calories_eaten"`
	CaloriesBurned    int  `json:"calories_burned"`
	WorkoutsCompleted int  `json:"workouts_completed"`
	MealsLogged       int  `json:"meals_logged"`
	DailyCalories     *int `json:"daily_calories,omitempty"`
}

type SettingsResponse struct {
	Settings          *UserSettings `json:"settings"`
	EffectiveProvider string        `json:"effective_provider"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
