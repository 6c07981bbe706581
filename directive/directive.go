// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/fitfamily/models"
)

// Markers delimiting the single directive block in an assistant reply.
const (
	OpenMarker  = "<<<ACTIONS>>>"
	CloseMarker = "<<<END_ACTIONS>>>"
)

var ErrNotObject = errors.New("directive content is not a JSON object")

// ProfileFields are the profile attributes a directive may carry. A nil
// field means "no new information" and must leave the stored value alone.
type ProfileFields struct {
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activityLevel"`
	Goal          *string  `json:"goal"`
	PrimaryGoal   *string  `json:"primaryGoal"`
	StressLevel   *string  `json:"stressLevel"`
	DietType      *string  `json:"dietType"`
	SleepHours    *float64 `json:"sleepHours"`
	MonthlyBudget *float64 `json:"monthlyBudget"`
}

// Empty reports whether no field carries a value.
func (f ProfileFields) Empty() bool {
	return f.Age == nil && f.Weight == nil && f.Height == nil && f.Gender == nil &&
		f.ActivityLevel == nil && f.Goal == nil && f.PrimaryGoal == nil &&
		f.StressLevel == nil && f.DietType == nil && f.SleepHours == nil &&
		f.MonthlyBudget == nil
}

// TouchesBody reports whether any UserProfile attribute is present.
func (f ProfileFields) TouchesBody() bool {
	return f.Age != nil || f.Weight != nil || f.Height != nil || f.Gender != nil ||
		f.ActivityLevel != nil || f.Goal != nil
}

// Actions is the decoded directive object.
type Actions struct {
	UpdateProfile           bool          `json:"updateProfile"`
	ProfileData             ProfileFields `json:"profileData"`
	GenerateRecommendations bool          `json:"generateRecommendations"`
}

// Reply is an assistant reply split into what the user sees and what the
// application should do.
type Reply struct {
	// Visible is the reply with the directive block removed and trimmed, or
	// the raw reply when no complete block was found.
	Visible string
	// Actions is nil when there was no block or its content did not decode.
	Actions *Actions
	// Found reports that a complete marker pair was located.
	Found bool
	// Err holds the decode error of a malformed block.
	Err error
}

// Malformed reports a located block whose content could not be decoded.
func (r Reply) Malformed() bool {
	return r.Found && r.Actions == nil
}

// Parse locates the first directive block in reply. The block is stripped
// whenever both markers are present, whether or not its content decodes.
func Parse(reply string) Reply {
	start := strings.Index(reply, OpenMarker)
	if start < 0 {
		return Reply{Visible: reply}
	}
	bodyStart := start + len(OpenMarker)
	end := strings.Index(reply[bodyStart:], CloseMarker)
	if end < 0 {
		return Reply{Visible: reply}
	}
	end += bodyStart

	visible := strings.TrimSpace(reply[:start] + reply[end+len(CloseMarker):])
	out := Reply{Visible: visible, Found: true}

	actions, err := decodeActions(reply[bodyStart:end])
	if err != nil {
		out.Err = err
		return out
	}
	out.Actions = actions
	return out
}

func decodeActions(body string) (*Actions, error) {
	body = stripFence(strings.TrimSpace(body))
	if !strings.HasPrefix(body, "{") {
		return nil, ErrNotObject
	}

	var a Actions
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return nil, fmt.Errorf("decode directive: %w", err)
	}
	a.ProfileData = normalize(a.ProfileData)
	return &a, nil
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var (
	genders = []string{models.GenderMale, models.GenderFemale}

	activityLevels = []string{
		models.ActivitySedentary, models.ActivityLight, models.ActivityModerate,
		models.ActivityActive, models.ActivityVeryActive,
	}

	weightGoals = []string{models.GoalLose, models.GoalMaintain, models.GoalGain}

	healthGoals = []string{
		models.HealthGoalLongevity, models.HealthGoalWeightLoss, models.HealthGoalMuscleGain,
		models.HealthGoalEnergy, models.HealthGoalCognitive, models.HealthGoalSleep,
		models.HealthGoalStress, models.HealthGoalGeneralHealth,
	}

	stressLevels = []string{models.StressLow, models.StressModerate, models.StressHigh}

	dietTypes = []string{
		models.DietOmnivore, models.DietVegetarian, models.DietVegan,
		models.DietPescatarian, models.DietKeto, models.DietPaleo,
	}
)

// normalize upper-cases enum fields and drops values outside their enum.
// Non-positive measurements are dropped too.
func normalize(f ProfileFields) ProfileFields {
	f.Gender = Enum(f.Gender, genders)
	f.ActivityLevel = Enum(f.ActivityLevel, activityLevels)
	f.Goal = Enum(f.Goal, weightGoals)
	f.PrimaryGoal = Enum(f.PrimaryGoal, healthGoals)
	f.StressLevel = Enum(f.StressLevel, stressLevels)
	f.DietType = Enum(f.DietType, dietTypes)

	if f.Age != nil && (*f.Age <= 0 || *f.Age > 130) {
		f.Age = nil
	}
	f.Weight = positive(f.Weight)
	f.Height = positive(f.Height)
	f.SleepHours = positive(f.SleepHours)
	if f.MonthlyBudget != nil && *f.MonthlyBudget < 0 {
		f.MonthlyBudget = nil
	}
	return f
}

// Enum returns the canonical spelling of v when it names one of allowed,
// and nil otherwise.
func Enum(v *string, allowed []string) *string {
	if v == nil {
		return nil
	}
	s := strings.ToUpper(strings.TrimSpace(*v))
	s = strings.ReplaceAll(s, " ", "_")
	for _, a := range allowed {
		if s == a {
			return &a
		}
	}
	return nil
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

// ExtractObject returns the outermost {...} span of text, ignoring any code
// fence or prose around it.
func ExtractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
