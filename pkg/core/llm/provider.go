package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned (wrapped) when a provider's key is not configured.
var ErrMissingAPIKey = errors.New("API key not configured")

// Roles used in Message.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the interface for all LLM providers.
type Provider interface {
	// GenerateResponse continues the conversation and returns the model's reply text.
	GenerateResponse(ctx context.Context, messages []Message, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// withSystem prepends the system prompt as a system turn.
func withSystem(systemPrompt string, messages []Message) []Message {
	out := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		out = append(out, Message{Role: RoleSystem, Content: systemPrompt})
	}
	for _, m := range messages {
		if m.Role == RoleSystem && systemPrompt != "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

func optString(options map[string]interface{}, key, fallback string) string {
	if val, ok := options[key].(string); ok && val != "" {
		return val
	}
	return fallback
}
