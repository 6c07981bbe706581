// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/danielhkuo/fitfamily/models"
)

// Groq exposes an OpenAI-compatible API, so one client serves both vendors.
const (
	GroqBaseURL     = "https://api.groq.com/openai/v1"
	GroqModel       = "llama-3.3-70b-versatile"
	GroqVisionModel = "llama-3.2-90b-vision-preview"
	OpenAIModel     = "gpt-4o-mini"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client      openai.Client
	provider    string
	model       string
	visionModel string
}

// NewOpenAIClient creates a client. An empty baseURL uses the SDK default.
func NewOpenAIClient(provider, apiKey, baseURL, model, visionModel string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		provider:    provider,
		model:       model,
		visionModel: visionModel,
	}
}

func (c *OpenAIClient) Provider() string { return c.provider }

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: openAIMessages(req),
	}
	if req.Image != nil {
		params.Model = openai.ChatModel(c.visionModel)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}

	last := lastUserIndex(req.Messages)
	for i, m := range req.Messages {
		switch {
		case m.Role == models.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		case i == last && req.Image != nil:
			url := "data:" + req.Image.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(req.Image.Data)
			msgs = append(msgs, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(m.Content),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}),
			}))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	return msgs
}

// lastUserIndex returns the index of the final user message, or -1.
func lastUserIndex(msgs []Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != models.RoleAssistant {
			return i
		}
	}
	return -1
}
