package llm

import (
	"context"
	"net/http"
)

// MistralProvider calls the Mistral chat completions API.
type MistralProvider struct {
	Model      string // defaults to "mistral-tiny"
	BaseURL    string // override for tests
	HTTPClient *http.Client
}

var _ Provider = (*MistralProvider)(nil)

func (p *MistralProvider) GenerateResponse(ctx context.Context, messages []Message, systemPrompt string, options map[string]interface{}) (string, error) {
	c := &chatCompletionClient{
		name:         "MISTRAL",
		url:          "https://api.mistral.ai/v1/chat/completions",
		apiKeyEnv:    "MISTRAL_API_KEY",
		defaultModel: "mistral-tiny",
		httpClient:   p.HTTPClient,
	}
	if p.BaseURL != "" {
		c.url = p.BaseURL
	}
	if p.Model != "" {
		c.defaultModel = p.Model
	}
	return c.complete(ctx, messages, systemPrompt, options)
}

func (p *MistralProvider) AdaptInstructions(raw string) string {
	return raw
}
