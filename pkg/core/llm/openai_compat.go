package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// chatCompletionClient speaks the OpenAI-style /chat/completions protocol
// shared by Mistral and DeepSeek.
type chatCompletionClient struct {
	name         string // error prefix, e.g. "MISTRAL"
	url          string
	apiKeyEnv    string
	defaultModel string
	httpClient   *http.Client
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream"`
}

// ResponseFormat selects text or json_object output.
type ResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *chatCompletionClient) complete(ctx context.Context, messages []Message, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := optString(options, "api_key", os.Getenv(c.apiKeyEnv))
	if apiKey == "" {
		return "", fmt.Errorf("%s is not set. Please add it to a .env file or your environment: %w", c.apiKeyEnv, ErrMissingAPIKey)
	}

	reqBody := chatCompletionRequest{
		Model:       optString(options, "model", c.defaultModel),
		Messages:    withSystem(systemPrompt, messages),
		Temperature: 0.2,
		MaxTokens:   2048,
	}
	if val, ok := options["response_format"].(map[string]interface{}); ok && val["type"] == "json_object" {
		reqBody.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%s_MARSHAL_ERROR: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("%s_REQ_CREATE_ERROR: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := c.httpClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s_API_CALL_ERROR: %w", c.name, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%s_READ_BODY_ERROR: %w", c.name, err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s_API_ERROR: status=%d body=%s", c.name, res.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%s_UNMARSHAL_ERROR: %w", c.name, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%s_NO_CHOICES: %s", c.name, string(body))
	}
	return response.Choices[0].Message.Content, nil
}
