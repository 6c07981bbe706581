// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recommend

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/fitfamily/models"
)

// Category values stored with each generated recommendation.
const (
	CategorySupplements = "supplements"
	CategoryExercise    = "exercise"
	CategoryDiet        = "diet"
)

// Source values reported alongside a generated set.
const (
	SourceStatic   = "static"
	SourceModel    = "model"
	SourceFallback = "fallback"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogSupplement is one entry of a supplement stack.
type CatalogSupplement struct {
	Name     string  `yaml:"name"`
	Dosage   string  `yaml:"dosage"`
	Timing   string  `yaml:"timing"`
	Priority int     `yaml:"priority"`
	Reason   string  `yaml:"reason"`
	Price    float64 `yaml:"price"`
}

// Catalog is the static rule set used when no model plan is available.
type Catalog struct {
	Stacks   map[string][]CatalogSupplement `yaml:"stacks"`
	Exercise map[string]models.ExercisePlan `yaml:"exercise"`
	Diets    map[string]models.DietPlan     `yaml:"diets"`
}

const (
	stackLongevity  = "longevity"
	stackWeightLoss = "weight_loss"
	stackMuscleGain = "muscle_gain"
	stackBase       = "base"
	stackCognitive  = "cognitive"
	stackSleep      = "sleep"

	dietDefault = "DEFAULT"
)

// goalStacks lists the stacks concatenated for each health goal. Goals not
// listed get the longevity stack.
var goalStacks = map[string][]string{
	models.HealthGoalWeightLoss: {stackWeightLoss},
	models.HealthGoalMuscleGain: {stackMuscleGain},
	models.HealthGoalCognitive:  {stackBase, stackCognitive},
	models.HealthGoalSleep:      {stackBase, stackSleep},
}

// LoadCatalog parses a YAML catalog and checks that every stack the goal
// mapping can select is present.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	required := []string{stackLongevity, stackWeightLoss, stackMuscleGain, stackBase, stackCognitive, stackSleep}
	for _, name := range required {
		if len(c.Stacks[name]) == 0 {
			return nil, fmt.Errorf("catalog stack %q is empty", name)
		}
	}
	if _, ok := c.Exercise[models.HealthGoalLongevity]; !ok {
		return nil, fmt.Errorf("catalog has no %s exercise plan", models.HealthGoalLongevity)
	}
	if _, ok := c.Diets[dietDefault]; !ok {
		return nil, fmt.Errorf("catalog has no %s diet", dietDefault)
	}
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the embedded catalog. It panics if the embedded
// file is invalid, which a test guards against.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadCatalog(catalogYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// FromCatalog builds the static recommendation set for a health goal using
// the embedded catalog.
func FromCatalog(goal string) []models.Recommendation {
	return DefaultCatalog().ForGoal(goal)
}

// ForGoal builds the ordered recommendation set for goal: supplements in
// stack order, then the exercise plan, then the diet.
func (c *Catalog) ForGoal(goal string) []models.Recommendation {
	stacks, ok := goalStacks[goal]
	if !ok {
		stacks = []string{stackLongevity}
	}

	var recs []models.Recommendation
	for _, name := range stacks {
		for _, s := range c.Stacks[name] {
			recs = append(recs, supplementRecommendation(s.Name, s.Dosage, s.Timing, s.Reason, s.Priority, s.Price))
		}
	}

	plan, ok := c.Exercise[goal]
	if !ok {
		plan = c.Exercise[models.HealthGoalLongevity]
	}
	recs = append(recs, exerciseRecommendation(plan))

	diet, ok := c.Diets[goal]
	if !ok {
		diet = c.Diets[dietDefault]
	}
	recs = append(recs, dietRecommendation(diet))

	return numbered(recs)
}

func supplementRecommendation(name, dosage, timing, reason string, priority int, price float64) models.Recommendation {
	if priority < 1 {
		priority = 1
	}
	return models.Recommendation{
		Type:           models.RecommendationSupplement,
		Category:       CategorySupplements,
		Title:          name,
		Description:    reason,
		Priority:       priority,
		SupplementName: &name,
		Dosage:         &dosage,
		Timing:         &timing,
		MonthlyPrice:   &price,
		Reasoning:      &reason,
	}
}

func exerciseRecommendation(plan models.ExercisePlan) models.Recommendation {
	title := plan.Title
	if title == "" {
		title = "Personalized training program"
	}
	return models.Recommendation{
		Type:         models.RecommendationExercise,
		Category:     CategoryExercise,
		Title:        title,
		Description:  strings.Join(plan.KeyPrinciples, "; "),
		Priority:     1,
		ExercisePlan: &plan,
	}
}

func dietRecommendation(diet models.DietPlan) models.Recommendation {
	return models.Recommendation{
		Type:        models.RecommendationMeal,
		Category:    CategoryDiet,
		Title:       diet.Type,
		Description: diet.Description,
		Priority:    1,
		MealPlan:    &diet,
	}
}

// numbered assigns positions in slice order.
func numbered(recs []models.Recommendation) []models.Recommendation {
	for i := range recs {
		recs[i].Position = i
	}
	return recs
}

// MonthlyCost totals supplement prices and formats them for display.
func MonthlyCost(recs []models.Recommendation) string {
	var total float64
	for _, r := range recs {
		if r.MonthlyPrice != nil {
			total += *r.MonthlyPrice
		}
	}
	return "€" + humanize.CommafWithDigits(total, 2)
}
