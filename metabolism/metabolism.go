// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metabolism

import (
	"math"
	"time"

	"github.com/danielhkuo/fitfamily/models"
)

const (
	lossDeficit = 500
	gainSurplus = 300
)

var activityMultipliers = map[string]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// Inputs are the measurements the formulas depend on. Nil means unknown.
type Inputs struct {
	WeightKg      *float64
	HeightCm      *float64
	Gender        *string
	BirthDate     *time.Time
	ActivityLevel *string
	Goal          *string
}

// Metrics are the derived values. Fields stay nil when their inputs are
// incomplete.
type Metrics struct {
	BMI           *float64
	BMR           *float64
	TDEE          *float64
	DailyCalories *int
}

// AgeOn returns the number of whole years between birth and on, counting a
// year only once the birthday has been reached.
func AgeOn(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// BirthDateForAge returns the date exactly age years before on, so that
// AgeOn(BirthDateForAge(age, on), on) == age. A Feb 29 birthday in a
// non-leap year becomes Feb 28.
func BirthDateForAge(age int, on time.Time) time.Time {
	y, m, d := on.Date()
	t := time.Date(y-age, m, d, 0, 0, 0, 0, time.UTC)
	if t.Month() != m {
		t = t.AddDate(0, 0, -t.Day())
	}
	return t
}

// BMI is weight over height in metres squared.
func BMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100
	return weightKg / (h * h)
}

// BMR uses the Mifflin-St Jeor equation.
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == models.GenderFemale {
		return base - 161
	}
	return base + 5
}

// ActivityMultiplier returns the TDEE factor for level. Unknown levels use
// the MODERATE factor.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[models.ActivityModerate]
}

func TDEE(bmr float64, activityLevel string) float64 {
	return bmr * ActivityMultiplier(activityLevel)
}

// DailyCalories applies the goal adjustment and rounds to the nearest kcal.
func DailyCalories(tdee float64, goal string) int {
	switch goal {
	case models.GoalLose:
		tdee -= lossDeficit
	case models.GoalGain:
		tdee += gainSurplus
	}
	return int(math.Round(tdee))
}

// Compute derives every metric it has inputs for, with age taken on the
// given day.
func Compute(in Inputs, on time.Time) Metrics {
	var m Metrics
	if in.WeightKg == nil || in.HeightCm == nil || *in.HeightCm <= 0 {
		return m
	}

	bmi := BMI(*in.WeightKg, *in.HeightCm)
	m.BMI = &bmi

	if in.Gender == nil || in.BirthDate == nil {
		return m
	}

	age := AgeOn(*in.BirthDate, on)
	bmr := BMR(*in.WeightKg, *in.HeightCm, age, *in.Gender)

	level := models.ActivityModerate
	if in.ActivityLevel != nil {
		level = *in.ActivityLevel
	}
	tdee := TDEE(bmr, level)

	goal := models.GoalMaintain
	if in.Goal != nil {
		goal = *in.Goal
	}
	daily := DailyCalories(tdee, goal)

	m.BMR = &bmr
	m.TDEE = &tdee
	m.DailyCalories = &daily
	return m
}

// Recompute refreshes the derived fields of p in place.
func Recompute(p *models.UserProfile, on time.Time) {
	m := Compute(Inputs{
		WeightKg:      p.Weight,
		HeightCm:      p.Height,
		Gender:        p.Gender,
		BirthDate:     p.BirthDate,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
	}, on)
	p.BMI = m.BMI
	p.BMR = m.BMR
	p.TDEE = m.TDEE
	p.DailyCalories = m.DailyCalories
}
