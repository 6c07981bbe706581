// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/danielhkuo/fitfamily/models"
)

const GeminiModel = "gemini-2.0-flash"

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Provider() string { return models.ProviderGemini }

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	contents := geminiContents(req)

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

func geminiContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.Messages))
	last := lastUserIndex(req.Messages)
	for i, m := range req.Messages {
		if m.Role == models.RoleAssistant {
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
			continue
		}
		if i == last && req.Image != nil {
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromText(m.Content),
				genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType),
			}, genai.RoleUser))
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}
	return contents
}
