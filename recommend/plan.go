// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/fitfamily/directive"
	"github.com/danielhkuo/fitfamily/metabolism"
	"github.com/danielhkuo/fitfamily/models"
)

var (
	ErrNoPlan      = errors.New("no JSON object in model reply")
	ErrInvalidPlan = errors.New("model plan failed validation")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Plan is the JSON document the model is asked to produce.
type Plan struct {
	Supplements []PlanSupplement     `json:"supplements" validate:"required,min=1,dive"`
	Exercise    *models.ExercisePlan `json:"exercise"`
	Diet        *models.DietPlan     `json:"diet"`
}

type PlanSupplement struct {
	Name         string   `json:"name" validate:"required"`
	Dosage       string   `json:"dosage"`
	Timing       string   `json:"timing"`
	Priority     int      `json:"priority" validate:"omitempty,min=1,max=5"`
	Reason       string   `json:"reason"`
	MonthlyPrice *float64 `json:"monthlyPrice" validate:"omitempty,gte=0"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
}

func (s PlanSupplement) price() float64 {
	switch {
	case s.MonthlyPrice != nil:
		return *s.MonthlyPrice
	case s.Price != nil:
		return *s.Price
	}
	return 0
}

// ParsePlan extracts and validates the plan object from a model reply.
func ParsePlan(text string) (*Plan, error) {
	obj, ok := directive.ExtractObject(text)
	if !ok {
		return nil, ErrNoPlan
	}

	var p Plan
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return &p, nil
}

// FromPlan builds the ordered recommendation set from a validated plan.
// A missing exercise or diet section falls back to the catalog entry for
// goal.
func FromPlan(p *Plan, goal string) []models.Recommendation {
	var recs []models.Recommendation
	for _, s := range p.Supplements {
		recs = append(recs, supplementRecommendation(
			strings.TrimSpace(s.Name), s.Dosage, s.Timing, s.Reason, s.Priority, s.price()))
	}

	c := DefaultCatalog()
	if p.Exercise != nil && len(p.Exercise.WeeklyPlan) > 0 {
		recs = append(recs, exerciseRecommendation(*p.Exercise))
	} else {
		plan, ok := c.Exercise[goal]
		if !ok {
			plan = c.Exercise[models.HealthGoalLongevity]
		}
		recs = append(recs, exerciseRecommendation(plan))
	}

	if p.Diet != nil && p.Diet.Type != "" {
		recs = append(recs, dietRecommendation(*p.Diet))
	} else {
		diet, ok := c.Diets[goal]
		if !ok {
			diet = c.Diets[dietDefault]
		}
		recs = append(recs, dietRecommendation(diet))
	}

	return numbered(recs)
}

// SystemPrompt instructs the model to answer with a Plan document only.
const SystemPrompt = `You are a longevity and nutrition expert. Using the profile you are given, build a personalised supplement, exercise and diet plan.
Answer with ONE JSON object and nothing else, shaped as:
{
  "supplements": [{"name": "", "dosage": "", "timing": "morning|evening|with-meal", "priority": 1, "reason": "", "monthlyPrice": 0}],
  "exercise": {"weeklyPlan": [{"day": "", "activity": "", "duration": 0, "notes": ""}], "keyPrinciples": [""]},
  "diet": {"type": "", "description": "", "keyPrinciples": [""], "avoid": [""], "prioritize": [""]}
}
Priority runs from 1 (essential) to 5 (optional). Respect allergies, conditions, medications and the monthly budget.`

type promptProfile struct {
	Age              *int     `json:"age,omitempty"`
	Gender           *string  `json:"gender,omitempty"`
	Height           *float64 `json:"height,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	ActivityLevel    *string  `json:"activityLevel,omitempty"`
	Goal             *string  `json:"goal,omitempty"`
	PrimaryGoal      string   `json:"primaryGoal"`
	DietType         string   `json:"dietType"`
	StressLevel      string   `json:"stressLevel"`
	SleepHours       *float64 `json:"sleepHours,omitempty"`
	MonthlyBudget    *float64 `json:"monthlyBudget,omitempty"`
	Allergies        []string `json:"allergies,omitempty"`
	Conditions       []string `json:"conditions,omitempty"`
	Medications      []string `json:"medications,omitempty"`
	CholesterolTotal *float64 `json:"cholesterolTotal,omitempty"`
	CholesterolHDL   *float64 `json:"cholesterolHDL,omitempty"`
	CholesterolLDL   *float64 `json:"cholesterolLDL,omitempty"`
	VitaminD         *float64 `json:"vitaminD,omitempty"`
	VitaminB12       *float64 `json:"vitaminB12,omitempty"`
}

// PromptProfile renders the stored profiles as the user message of a plan
// request. up may be nil.
func PromptProfile(up *models.UserProfile, hp *models.HealthProfile, now time.Time) (string, error) {
	p := promptProfile{
		PrimaryGoal:      hp.PrimaryGoal,
		DietType:         hp.DietType,
		StressLevel:      hp.StressLevel,
		SleepHours:       hp.SleepHours,
		MonthlyBudget:    hp.MonthlyBudget,
		Allergies:        hp.Allergies,
		Conditions:       hp.Conditions,
		Medications:      hp.Medications,
		CholesterolTotal: hp.CholesterolTotal,
		CholesterolHDL:   hp.CholesterolHDL,
		CholesterolLDL:   hp.CholesterolLDL,
		VitaminD:         hp.VitaminD,
		VitaminB12:       hp.VitaminB12,
	}
	if up != nil {
		p.Gender = up.Gender
		p.Height = up.Height
		p.Weight = up.Weight
		p.ActivityLevel = up.ActivityLevel
		p.Goal = up.Goal
		if up.BirthDate != nil {
			age := metabolism.AgeOn(*up.BirthDate, now)
			p.Age = &age
		}
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	return "Profile:\n" + string(b), nil
}
