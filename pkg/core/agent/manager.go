package agent

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"logistics_roi/pkg/core/llm"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "agent").Logger()

// DefaultProvider is used when the config names none, matching the
// original assistant's Mistral backend.
const DefaultProvider = "mistral"

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Model       string `yaml:"model"`    // Requires Provider
	Description string `yaml:"description"`
}

// LoadConfig reads config/models.yaml. A missing file yields the default config.
func LoadConfig(path string) (Config, error) {
	cfg := Config{ActiveProvider: DefaultProvider}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read model config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse model config %s: %w", path, err)
	}
	if cfg.ActiveProvider == "" {
		cfg.ActiveProvider = DefaultProvider
	}
	return cfg, nil
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return NewManagerWithProviders(config, map[string]llm.Provider{
		"mistral":        &llm.MistralProvider{},
		"gemini":         &llm.GeminiProvider{},
		"gemini-classic": &llm.GeminiClassicProvider{},
		"deepseek":       &llm.DeepSeekProvider{},
		"qwen":           &llm.QwenProvider{},
	})
}

// NewManagerWithProviders lets callers (and tests) supply the provider set.
func NewManagerWithProviders(config Config, providers map[string]llm.Provider) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = DefaultProvider
	}
	return &Manager{config: config, providers: providers}
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	// 2. Use global active provider
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	// 3. Fallback
	return m.providers[DefaultProvider]
}

// ExecuteChat sends a conversation to the provider configured for agentType.
func (m *Manager) ExecuteChat(ctx context.Context, agentType string, messages []llm.Message, systemPrompt string) (string, error) {
	provider := m.GetProvider(agentType)
	if provider == nil {
		return "", fmt.Errorf("no LLM provider available for agent %q", agentType)
	}

	options := map[string]interface{}{}
	m.mu.RLock()
	// A model name only makes sense for the provider it was configured with.
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" && agentConfig.Model != "" {
		options["model"] = agentConfig.Model
	}
	active := m.config.ActiveProvider
	m.mu.RUnlock()

	logger.Debug().Str("agent", agentType).Str("active_provider", active).
		Str("provider_type", fmt.Sprintf("%T", provider)).Int("turns", len(messages)).Msg("[AGENT] ExecuteChat")

	return provider.GenerateResponse(ctx, messages, provider.AdaptInstructions(systemPrompt), options)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	logger.Info().Str("provider", newProvider).Msg("[AGENT] global provider switched")
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// Available lists registered provider names, sorted.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
