// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/fitfamily/metabolism"
)

// ProfileCompleteSentinel marks the end of the onboarding conversation. It
// must be followed by the collected profile as a JSON object.
const ProfileCompleteSentinel = "PROFILE_COMPLETE"

var ErrNoProfileObject = errors.New("no profile object after sentinel")

// OnboardingProfile is everything the onboarding conversation may collect.
type OnboardingProfile struct {
	PrimaryGoal      *string  `json:"primaryGoal"`
	BirthDate        *string  `json:"birthDate"`
	BirthYear        *int     `json:"birthYear"`
	Age              *int     `json:"age"`
	Height           *float64 `json:"height"`
	Weight           *float64 `json:"weight"`
	Gender           *string  `json:"gender"`
	ActivityLevel    *string  `json:"activityLevel"`
	Goal             *string  `json:"goal"`
	SleepHours       *float64 `json:"sleepHours"`
	StressLevel      *string  `json:"stressLevel"`
	DietType         *string  `json:"dietType"`
	Allergies        []string `json:"allergies"`
	Conditions       []string `json:"conditions"`
	Medications      []string `json:"medications"`
	CholesterolTotal *float64 `json:"cholesterolTotal"`
	CholesterolHDL   *float64 `json:"cholesterolHDL"`
	CholesterolLDL   *float64 `json:"cholesterolLDL"`
	VitaminD         *float64 `json:"vitaminD"`
	VitaminB12       *float64 `json:"vitaminB12"`
	MonthlyBudget    *float64 `json:"monthlyBudget"`
}

// ResolveBirthDate picks the most precise birth information available:
// an explicit date, then an age (counted back from now), then a birth year
// (January 1st). ok is false when none is present or parseable.
func (p OnboardingProfile) ResolveBirthDate(now time.Time) (time.Time, bool) {
	if p.BirthDate != nil {
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(*p.BirthDate)); err == nil {
			return t, true
		}
	}
	if p.Age != nil && *p.Age > 0 && *p.Age <= 130 {
		return metabolism.BirthDateForAge(*p.Age, now), true
	}
	if p.BirthYear != nil && *p.BirthYear > 1900 && *p.BirthYear <= now.Year() {
		return time.Date(*p.BirthYear, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Fields maps the onboarding payload onto the directive field set, with the
// same enum normalisation.
func (p OnboardingProfile) Fields() ProfileFields {
	return normalize(ProfileFields{
		Age:           p.Age,
		Weight:        p.Weight,
		Height:        p.Height,
		Gender:        p.Gender,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
		PrimaryGoal:   p.PrimaryGoal,
		StressLevel:   p.StressLevel,
		DietType:      p.DietType,
		SleepHours:    p.SleepHours,
		MonthlyBudget: p.MonthlyBudget,
	})
}

// OnboardingReply is an onboarding assistant reply after sentinel detection.
type OnboardingReply struct {
	// Visible is the prose before the sentinel, trimmed. Without a sentinel
	// it is the whole reply.
	Visible string
	// SentinelFound reports that the sentinel text appeared.
	SentinelFound bool
	// Profile is set only when the sentinel was followed by a decodable
	// object; only then does onboarding complete.
	Profile *OnboardingProfile
	Err     error
}

func (r OnboardingReply) Complete() bool {
	return r.Profile != nil
}

// ParseOnboarding looks for the completion sentinel and decodes the first
// JSON object after it. Text after the object is ignored.
func ParseOnboarding(reply string) OnboardingReply {
	idx := strings.Index(reply, ProfileCompleteSentinel)
	if idx < 0 {
		return OnboardingReply{Visible: strings.TrimSpace(reply)}
	}

	out := OnboardingReply{
		Visible:       strings.TrimSpace(reply[:idx]),
		SentinelFound: true,
	}

	rest := reply[idx+len(ProfileCompleteSentinel):]
	brace := strings.IndexByte(rest, '{')
	if brace < 0 {
		out.Err = ErrNoProfileObject
		return out
	}

	var p OnboardingProfile
	if err := json.NewDecoder(strings.NewReader(rest[brace:])).Decode(&p); err != nil {
		out.Err = fmt.Errorf("decode onboarding profile: %w", err)
		return out
	}
	out.Profile = &p
	return out
}
