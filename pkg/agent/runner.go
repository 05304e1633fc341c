package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alif/naia/internal/observability"
	"github.com/alif/naia/pkg/apitools"
	"github.com/alif/naia/pkg/session"
	"github.com/alif/naia/pkg/toolexecutor"
)

// maxToolTurns bounds the tool loop to prevent runaway model behavior.
const maxToolTurns = 10

// DefaultSystemPrompt primes the model for the API-agent role.
const DefaultSystemPrompt = `You are an API agent that interacts with web APIs on the user's behalf.

You can make GET requests to retrieve data and POST requests to send data.
Explain what you are doing, present results in a structured form, show the
actual data received, and handle errors with helpful messages. Reference
previous API calls and conversation context when relevant.`

// Runner orchestrates LLM turns against the session store and tool executor.
type Runner struct {
	store       *session.Store
	executor    *toolexecutor.ToolExecutor
	provider    LLMProvider
	cfg         Config
	toolPolicy  *toolexecutor.ToolPolicy
	toolTimeout time.Duration
	logger      zerolog.Logger
}

// RunnerConfig holds runner dependencies and settings.
type RunnerConfig struct {
	Store           *session.Store
	Executor        *toolexecutor.ToolExecutor
	Agent           Config
	APIKey          string
	ToolPolicy      *toolexecutor.ToolPolicy
	ToolTimeout     time.Duration
	Logger          zerolog.Logger
	ProviderFactory ProviderCreator
}

// NewRunner creates a new agent runner
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	observability.EnsureRegistered()

	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("tool executor is required")
	}
	if err := validateAgentConfig(cfg.Agent); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	factory := cfg.ProviderFactory
	if factory == nil {
		factory = &ProviderFactory{}
	}

	provider, err := factory.NewProvider(cfg.Agent.Provider, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	return &Runner{
		store:       cfg.Store,
		executor:    cfg.Executor,
		provider:    provider,
		cfg:         cfg.Agent,
		toolPolicy:  cfg.ToolPolicy,
		toolTimeout: cfg.ToolTimeout,
		logger:      cfg.Logger,
	}, nil
}

func validateAgentConfig(cfg Config) error {
	if cfg.Provider == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	if cfg.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if cfg.MaxTokens < 0 {
		return fmt.Errorf("max tokens cannot be negative")
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// turnState accumulates what happened during one run.
type turnState struct {
	message   string
	toolsUsed []string
	apiCalls  []session.ToolCallRecord
	usage     *TokenUsage
}

// Run executes one conversational turn. Failures are returned as
// structured responses; the session loop is never interrupted.
func (r *Runner) Run(ctx context.Context, input string) Response {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With().Str("run_id", runID).Logger()

	logger.Info().Str("provider", r.provider.Provider()).Msg("Agent run started")

	state, err := r.execute(ctx, input, logger)
	duration := time.Since(start)
	observability.RecordAgentRun(r.provider.Provider(), duration, err == nil)

	metadata := map[string]interface{}{
		"run_id":            runID,
		"provider":          r.provider.Provider(),
		"model":             r.cfg.Model,
		"context_exchanges": r.store.Len(),
		"duration_ms":       duration.Milliseconds(),
	}
	if state.usage != nil {
		metadata["input_tokens"] = state.usage.InputTokens
		metadata["output_tokens"] = state.usage.OutputTokens
	}

	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("Agent run failed")
		return Response{
			Success:   false,
			Message:   "An error occurred while processing your request",
			Timestamp: time.Now(),
			ToolsUsed: state.toolsUsed,
			APICalls:  state.apiCalls,
			Error:     err.Error(),
			Metadata:  metadata,
		}
	}

	// Record the completed exchange; only then does it become context.
	r.store.Append(session.Exchange{
		UserInput:   input,
		AgentOutput: state.message,
		ToolCalls:   state.apiCalls,
	})

	logger.Info().
		Dur("duration", duration).
		Int("tool_calls", len(state.apiCalls)).
		Msg("Agent run completed")

	return Response{
		Success:   true,
		Message:   state.message,
		Timestamp: time.Now(),
		ToolsUsed: state.toolsUsed,
		APICalls:  state.apiCalls,
		Metadata:  metadata,
	}
}

// execute drives the provider and tool loop for one turn.
func (r *Runner) execute(ctx context.Context, input string, logger zerolog.Logger) (turnState, error) {
	state := turnState{}

	messages := r.buildMessages(input)
	tools := r.buildTools()

	for turn := 0; turn < maxToolTurns; turn++ {
		select {
		case <-ctx.Done():
			return state, ctx.Err()
		default:
		}

		response, err := r.callWithRetry(ctx, messages, tools, logger)
		if err != nil {
			return state, err
		}
		state.usage = response.Usage

		// No tool calls means the model produced its final answer.
		if len(response.ToolCalls) == 0 {
			state.message = response.Content
			return state, nil
		}

		messages = append(messages, Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		for _, toolCall := range response.ToolCalls {
			result := r.executor.Execute(ctx, toolCall.Name, toolCall.Parameters, &toolexecutor.ExecutionContext{
				Timeout:    r.toolTimeout,
				ToolPolicy: r.toolPolicy,
			})

			state.toolsUsed = append(state.toolsUsed, toolCall.Name)
			if record := toolCallRecord(result); record != nil {
				state.apiCalls = append(state.apiCalls, *record)
			}

			messages = append(messages, Message{
				Role:       "tool",
				Content:    toolResultContent(result),
				ToolCallID: toolCall.ID,
				ToolName:   toolCall.Name,
			})
		}
	}

	return state, fmt.Errorf("maximum tool execution turns (%d) exceeded", maxToolTurns)
}

// buildMessages primes the turn with the system prompt, recent session
// context and the current request.
func (r *Runner) buildMessages(input string) []Message {
	systemPrompt := r.cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	contextWindow := r.cfg.ContextWindow
	if contextWindow <= 0 {
		contextWindow = 5
	}

	userContent := input
	if contextPrompt := r.store.ContextPrompt(contextWindow); contextPrompt != "" {
		userContent = fmt.Sprintf("Previous conversation context:\n%s\n\nCurrent request: %s", contextPrompt, input)
	}

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userContent},
	}
}

// buildTools converts registered tool definitions to provider schemas.
func (r *Runner) buildTools() []ToolSchema {
	schemas := []ToolSchema{}

	for _, name := range r.executor.ListTools() {
		def := r.executor.GetTool(name)
		if def == nil {
			continue
		}

		properties := map[string]interface{}{}
		required := []string{}
		for _, param := range def.Parameters {
			properties[param.Name] = map[string]interface{}{
				"type":        param.Type,
				"description": param.Description,
			}
			if param.Required {
				required = append(required, param.Name)
			}
		}

		inputSchema := map[string]interface{}{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			inputSchema["required"] = required
		}

		schemas = append(schemas, ToolSchema{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: inputSchema,
		})
	}

	return schemas
}

// callWithRetry calls the provider with exponential backoff on
// retryable failures.
func (r *Runner) callWithRetry(ctx context.Context, messages []Message, tools []ToolSchema, logger zerolog.Logger) (*LLMResponse, error) {
	maxRetries := r.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	request := LLMRequest{
		Model:        r.cfg.Model,
		Messages:     messages,
		Tools:        tools,
		Temperature:  r.cfg.Temperature,
		MaxTokens:    r.cfg.MaxTokens,
		SystemPrompt: messages[0].Content,
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		response, err := r.provider.Call(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			return nil, err
		}

		if attempt == maxRetries-1 {
			break
		}

		// Exponential backoff: 1s, 2s, 4s
		delay := time.Duration(1<<attempt) * time.Second
		logger.Info().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying after provider error")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, lastErr)
}

// toolCallRecord extracts the session record from an HTTP tool result.
func toolCallRecord(result toolexecutor.ToolResult) *session.ToolCallRecord {
	apiResult, ok := result.Output.(apitools.Result)
	if !ok {
		return nil
	}

	return &session.ToolCallRecord{
		Method:     apiResult.Method,
		URL:        apiResult.URL,
		StatusCode: apiResult.StatusCode,
		Success:    apiResult.Success,
		Error:      apiResult.Error,
	}
}

// toolResultContent renders a tool result for the model.
func toolResultContent(result toolexecutor.ToolResult) string {
	if !result.Success {
		return fmt.Sprintf("tool error: %s", result.Error)
	}

	switch output := result.Output.(type) {
	case apitools.Result:
		return output.String()
	case string:
		return output
	default:
		data, err := json.Marshal(output)
		if err != nil {
			return fmt.Sprintf("%v", output)
		}
		return string(data)
	}
}
