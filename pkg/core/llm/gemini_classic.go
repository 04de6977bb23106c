package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClassicProvider uses the older generative-ai-go SDK with a chat
// session, for deployments pinned to it.
type GeminiClassicProvider struct {
	Model string
}

var _ Provider = (*GeminiClassicProvider)(nil)

func (p *GeminiClassicProvider) GenerateResponse(ctx context.Context, messages []Message, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set: %w", ErrMissingAPIKey)
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("gemini classic: no messages to send")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	modelName := p.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := client.GenerativeModel(optString(options, "model", modelName))
	model.SetTemperature(0.2)
	if systemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	}

	// History is everything but the final turn, which is sent as the new message.
	session := model.StartChat()
	last := messages[len(messages)-1]
	for _, m := range messages[:len(messages)-1] {
		role := "user"
		switch m.Role {
		case RoleSystem:
			continue
		case RoleAssistant:
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini classic generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini classic returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func (p *GeminiClassicProvider) AdaptInstructions(raw string) string {
	return raw
}
