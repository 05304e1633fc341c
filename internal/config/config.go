package config

import (
	"fmt"
	"os"
)

// Config represents the main naia configuration
type Config struct {
	// Agent
	Agent AgentConfig `json:"agent" mapstructure:"agent"`

	// Session
	Session SessionConfig `json:"session" mapstructure:"session"`

	// HTTP tool layer
	HTTP HTTPConfig `json:"http" mapstructure:"http"`

	// Tools
	Tools ToolPolicyConfig `json:"tools" mapstructure:"tools"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// AgentConfig holds model and prompt settings
type AgentConfig struct {
	Provider     string  `json:"provider" mapstructure:"provider"` // gemini, openai, anthropic
	Model        string  `json:"model" mapstructure:"model"`
	Temperature  float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens    int     `json:"max_tokens" mapstructure:"max_tokens"`
	SystemPrompt string  `json:"system_prompt" mapstructure:"system_prompt"`
	MaxRetries   int     `json:"max_retries" mapstructure:"max_retries"`
}

// SessionConfig bounds the conversation history
type SessionConfig struct {
	MaxExchanges  int `json:"max_exchanges" mapstructure:"max_exchanges"`
	ContextWindow int `json:"context_window" mapstructure:"context_window"`
}

// HTTPConfig holds HTTP tool settings
type HTTPConfig struct {
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ToolPolicyConfig defines tool access policies
type ToolPolicyConfig struct {
	Allow []string `json:"allow" mapstructure:"allow"`
	Deny  []string `json:"deny" mapstructure:"deny"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash-001",
			Temperature: 0.1,
			MaxTokens:   4096,
			MaxRetries:  3,
		},
		Session: SessionConfig{
			MaxExchanges:  50,
			ContextWindow: 5,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 10,
		},
		Tools: ToolPolicyConfig{
			Allow: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			Redaction: true,
		},
	}
}

// credentialEnvVars maps providers to the env var carrying their key.
var credentialEnvVars = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// ResolveAPIKey reads the credential for the configured provider from
// the environment.
func (c *Config) ResolveAPIKey() (string, error) {
	envVar, ok := credentialEnvVars[c.Agent.Provider]
	if !ok {
		return "", fmt.Errorf("unsupported provider: %s", c.Agent.Provider)
	}

	key := os.Getenv(envVar)
	if key == "" {
		return "", fmt.Errorf("%s is not set (required for provider %q)", envVar, c.Agent.Provider)
	}

	return key, nil
}
