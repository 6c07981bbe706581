// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/fitfamily/directive"
	"github.com/danielhkuo/fitfamily/llm"
	"github.com/danielhkuo/fitfamily/models"
)

var ErrNoMealInput = errors.New("text or image is required")

const mealPrompt = `You are a nutritionist. Estimate the nutritional content of the meal you are given.
Answer with ONE JSON object and nothing else:
{"name": "", "description": "", "calories": 0, "protein": 0, "carbs": 0, "fat": 0, "confidence": "low|medium|high", "items": [""]}
Calories are kcal, macros are grams. Estimate typical portions when the amount is not stated.`

// AnalyzeMeal asks the model for a nutrition estimate of a described or
// photographed meal. Text wins when both are given. A reply that cannot be
// read yields a low-confidence default estimate rather than an error.
func (a *Assistant) AnalyzeMeal(ctx context.Context, userID, text, imageBase64 string) (*models.MealAnalysis, error) {
	text = strings.TrimSpace(text)
	imageBase64 = strings.TrimSpace(imageBase64)
	if text == "" && imageBase64 == "" {
		return nil, ErrNoMealInput
	}

	req := llm.Request{
		System:      mealPrompt,
		MaxTokens:   500,
		Temperature: 0.3,
		JSON:        true,
	}
	if text != "" {
		req.Messages = []llm.Message{{Role: models.RoleUser, Content: "Meal: " + text}}
	} else {
		img, err := decodeImage(imageBase64)
		if err != nil {
			return nil, err
		}
		req.Image = img
		req.Messages = []llm.Message{{Role: models.RoleUser, Content: "Analyse the meal in this photo."}}
	}

	client, err := a.models.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	raw, err := client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	analysis, err := parseMealAnalysis(raw)
	if err != nil {
		slog.Warn("meal analysis unreadable, using default estimate", "user_id", userID, "error", err)
		return defaultMealAnalysis(text), nil
	}
	return analysis, nil
}

// ErrBadImage is returned for image data that is not base64.
var ErrBadImage = errors.New("image is not valid base64")

// decodeImage accepts raw base64 or a data URL. Raw data is assumed to be
// JPEG.
func decodeImage(s string) (*llm.Image, error) {
	mime := "image/jpeg"
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, ErrBadImage
		}
		if m, _, _ := strings.Cut(header, ";"); m != "" {
			mime = m
		}
		s = payload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return &llm.Image{MIMEType: mime, Data: data}, nil
}

func parseMealAnalysis(raw string) (*models.MealAnalysis, error) {
	obj, ok := directive.ExtractObject(raw)
	if !ok {
		return nil, errors.New("no JSON object in reply")
	}
	var m models.MealAnalysis
	if err := json.Unmarshal([]byte(obj), &m); err != nil {
		return nil, fmt.Errorf("decode meal analysis: %w", err)
	}
	if strings.TrimSpace(m.Name) == "" {
		m.Name = "Meal"
	}
	switch m.Confidence {
	case "low", "medium", "high":
	default:
		m.Confidence = "medium"
	}
	if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return nil, errors.New("negative nutrition values")
	}
	return &m, nil
}

func defaultMealAnalysis(text string) *models.MealAnalysis {
	desc := text
	if desc == "" {
		desc = "Unidentified meal"
	}
	return &models.MealAnalysis{
		Name:        "Meal",
		Description: desc,
		Calories:    400,
		Protein:     20,
		Carbs:       40,
		Fat:         15,
		Confidence:  "low",
	}
}
