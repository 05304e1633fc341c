package agent

import (
	"strings"
	"time"

	"github.com/alif/naia/pkg/session"
)

// Config configures agent behavior for a session.
type Config struct {
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	Temperature   float64 `json:"temperature,omitempty"`
	MaxTokens     int     `json:"max_tokens,omitempty"`
	SystemPrompt  string  `json:"system_prompt,omitempty"`
	ContextWindow int     `json:"context_window,omitempty"`
	MaxRetries    int     `json:"max_retries,omitempty"`
}

// Response is the structured reply surface consumed by the CLI.
type Response struct {
	Success   bool                      `json:"success"`
	Message   string                    `json:"message"`
	Timestamp time.Time                 `json:"timestamp"`
	ToolsUsed []string                  `json:"tools_used,omitempty"`
	APICalls  []session.ToolCallRecord  `json:"api_calls,omitempty"`
	Error     string                    `json:"error,omitempty"`
	Metadata  map[string]interface{}    `json:"metadata,omitempty"`
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// TokenUsage tracks token consumption for one run.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Message represents one entry in the conversation sent to the model.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	return Config{
		Provider:      "gemini",
		Model:         "gemini-2.0-flash-001",
		Temperature:   0.1,
		MaxTokens:     4096,
		ContextWindow: 5,
		MaxRetries:    3,
	}
}

// IsRetryableError checks if a provider error should be retried.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	// Network errors
	if strings.Contains(msg, "ECONNRESET") || strings.Contains(msg, "ETIMEDOUT") ||
		strings.Contains(msg, "connection reset") {
		return true
	}

	// Rate limits
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return true
	}

	// Server errors
	for _, code := range []string{"500", "502", "503", "504"} {
		if strings.Contains(msg, code) {
			return true
		}
	}

	return false
}
