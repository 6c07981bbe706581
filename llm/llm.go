// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/fitfamily/cliparse"
	"github.com/danielhkuo/fitfamily/metrics"
	"github.com/danielhkuo/fitfamily/models"
)

var (
	// ErrNotConfigured means no API key is available for the provider.
	ErrNotConfigured = errors.New("model provider not configured")
	// ErrUnavailable wraps every failure of a provider call.
	ErrUnavailable = errors.New("model provider unavailable")
	// ErrEmptyResponse is returned when a provider answers with no text.
	ErrEmptyResponse = errors.New("empty model response")

	ErrUnknownProvider = errors.New("unknown model provider")
)

// Message is one turn of conversation history.
type Message struct {
	Role    string // models.RoleUser or models.RoleAssistant
	Content string
}

type Image struct {
	MIMEType string
	Data     []byte
}

// Request is a provider-neutral completion request. Image, when set, is
// attached to the last user message.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	// JSON asks the provider to answer with a single JSON object.
	JSON  bool
	Image *Image
}

// Client completes a request with one provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
}

// Source resolves the client to use for a user. Registry is the production
// implementation; tests substitute stubs.
type Source interface {
	ClientFor(ctx context.Context, userID string) (Client, error)
}

// SettingsGetter loads per-user provider settings.
type SettingsGetter interface {
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
}

// Factory builds a provider client from a key.
type Factory func(ctx context.Context, provider, apiKey string) (Client, error)

// Registry picks a provider and key per user: the user's default provider
// or the configured one, and the user's key for it or the server key.
type Registry struct {
	settings SettingsGetter
	cfg      cliparse.Config
	factory  Factory
}

func NewRegistry(settings SettingsGetter, cfg cliparse.Config) *Registry {
	return &Registry{settings: settings, cfg: cfg, factory: NewClient}
}

// WithFactory replaces the client constructor.
func (r *Registry) WithFactory(f Factory) *Registry {
	r.factory = f
	return r
}

// ClientFor returns an instrumented client for userID, or ErrNotConfigured
// when neither the user nor the server has a key for the chosen provider.
func (r *Registry) ClientFor(ctx context.Context, userID string) (Client, error) {
	st, err := r.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	provider := r.cfg.DefaultProvider
	if st.DefaultProvider != nil && *st.DefaultProvider != "" {
		provider = *st.DefaultProvider
	}

	key := userKey(st, provider)
	if key == "" {
		key = r.serverKey(provider)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, provider)
	}

	c, err := r.factory(ctx, provider, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, provider, err)
	}
	return &instrumented{next: c, timeout: r.cfg.LLMTimeout}, nil
}

func userKey(st *models.UserSettings, provider string) string {
	var k *string
	switch provider {
	case models.ProviderGroq:
		k = st.GroqAPIKey
	case models.ProviderOpenAI:
		k = st.OpenAIAPIKey
	case models.ProviderClaude:
		k = st.ClaudeAPIKey
	case models.ProviderGemini:
		k = st.GeminiAPIKey
	}
	if k == nil {
		return ""
	}
	return *k
}

func (r *Registry) serverKey(provider string) string {
	switch provider {
	case models.ProviderGroq:
		return r.cfg.GroqAPIKey
	case models.ProviderOpenAI:
		return r.cfg.OpenAIAPIKey
	case models.ProviderClaude:
		return r.cfg.ClaudeAPIKey
	case models.ProviderGemini:
		return r.cfg.GeminiAPIKey
	}
	return ""
}

// NewClient builds the SDK-backed client for provider.
func NewClient(ctx context.Context, provider, apiKey string) (Client, error) {
	switch provider {
	case models.ProviderGroq:
		return NewOpenAIClient(models.ProviderGroq, apiKey, GroqBaseURL, GroqModel, GroqVisionModel), nil
	case models.ProviderOpenAI:
		return NewOpenAIClient(models.ProviderOpenAI, apiKey, "", OpenAIModel, OpenAIModel), nil
	case models.ProviderClaude:
		return NewClaudeClient(apiKey, ClaudeModel)
	case models.ProviderGemini:
		return NewGeminiClient(ctx, apiKey, GeminiModel)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
}

// instrumented applies the call timeout, records metrics and wraps
// failures in ErrUnavailable. It never retries.
type instrumented struct {
	next    Client
	timeout time.Duration
}

func (c *instrumented) Provider() string { return c.next.Provider() }

func (c *instrumented) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	provider := c.next.Provider()
	start := time.Now()
	text, err := c.next.Complete(ctx, req)
	metrics.LLMDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		metrics.LLMCalls.WithLabelValues(provider, "error").Inc()
		slog.Error("model call failed", "provider", provider, "error", err)
		return "", fmt.Errorf("%w: %s: %v", ErrUnavailable, provider, err)
	}

	metrics.LLMCalls.WithLabelValues(provider, "success").Inc()
	return text, nil
}
