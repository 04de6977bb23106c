package llm

import (
	"context"
	"net/http"
)

type DeepSeekProvider struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ Provider = (*DeepSeekProvider)(nil)

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, messages []Message, systemPrompt string, options map[string]interface{}) (string, error) {
	c := &chatCompletionClient{
		name:         "DEEPSEEK",
		url:          "https://api.deepseek.com/chat/completions",
		apiKeyEnv:    "DEEPSEEK_API_KEY",
		defaultModel: "deepseek-chat",
		httpClient:   p.HTTPClient,
	}
	if p.BaseURL != "" {
		c.url = p.BaseURL
	}
	return c.complete(ctx, messages, systemPrompt, options)
}

func (p *DeepSeekProvider) AdaptInstructions(raw string) string {
	return raw
}
