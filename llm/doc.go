// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package llm sends completion requests to the configured model provider.

# Providers

	groq    openai-go against Groq's OpenAI-compatible endpoint
	openai  openai-go
	claude  langchaingo's anthropic backend
	gemini  google.golang.org/genai

# Selection

Registry.ClientFor resolves, per user:

 1. the provider: the user's default_provider setting, else LLM_PROVIDER;
 2. the key: the user's key for that provider, else the server key.

With no key it returns ErrNotConfigured. The returned client applies
LLM_TIMEOUT, records Prometheus metrics, and wraps every failure
(including an empty reply) in ErrUnavailable. Calls are never retried.
*/
package llm
