// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/danielhkuo/fitfamily/models"
)

const ClaudeModel = "claude-3-5-sonnet-20241022"

// ClaudeClient calls Anthropic through langchaingo.
type ClaudeClient struct {
	llm *anthropic.LLM
}

func NewClaudeClient(apiKey, model string) (*ClaudeClient, error) {
	l, err := anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}
	return &ClaudeClient{llm: l}, nil
}

func (c *ClaudeClient) Provider() string { return models.ProviderClaude }

func (c *ClaudeClient) Complete(ctx context.Context, req Request) (string, error) {
	system := req.System
	if req.JSON {
		system += "\n\nRespond with a single JSON object and no other text."
	}

	var content []llms.MessageContent
	if system != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	last := lastUserIndex(req.Messages)
	for i, m := range req.Messages {
		if m.Role == models.RoleAssistant {
			content = append(content, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
			continue
		}
		parts := []llms.ContentPart{llms.TextPart(m.Content)}
		if i == last && req.Image != nil {
			parts = append(parts, llms.BinaryPart(req.Image.MIMEType, req.Image.Data))
		}
		content = append(content, llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: parts})
	}

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}

	resp, err := c.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
