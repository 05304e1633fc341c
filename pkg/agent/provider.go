package agent

import (
	"context"
	"fmt"
)

// LLMProvider is an interface for LLM API providers
type LLMProvider interface {
	// Call makes an LLM API call
	Call(ctx context.Context, request LLMRequest) (*LLMResponse, error)

	// Provider returns the provider name
	Provider() string
}

// LLMRequest contains the request parameters for an LLM call
type LLMRequest struct {
	Model        string
	Messages     []Message
	Tools        []ToolSchema
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// ToolSchema describes one tool in provider-neutral form.
type ToolSchema struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// LLMResponse contains the response from the model
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// ProviderCreator creates LLM providers.
type ProviderCreator interface {
	NewProvider(providerName, apiKey string) (LLMProvider, error)
}

// ProviderFactory creates the built-in LLM providers.
type ProviderFactory struct{}

// NewProvider creates a new LLM provider by name.
func (f *ProviderFactory) NewProvider(providerName, apiKey string) (LLMProvider, error) {
	switch providerName {
	case "gemini":
		return NewGeminiProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
