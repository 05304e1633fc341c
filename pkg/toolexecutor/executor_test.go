package toolexecutor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool() ToolDefinition {
	return ToolDefinition{
		Name:        "echo",
		Description: "Echo the input text",
		Parameters: []ToolParameter{
			{Name: "text", Type: "string", Description: "Text to echo", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return params["text"], nil
		},
	}
}

func TestRegisterTool(t *testing.T) {
	te := New()

	err := te.RegisterTool(echoTool())
	require.NoError(t, err)

	assert.Equal(t, 1, te.GetToolCount())
	assert.NotNil(t, te.GetTool("echo"))
	assert.Equal(t, []string{"echo"}, te.ListTools())
}

func TestRegisterTool_Duplicate(t *testing.T) {
	te := New()

	require.NoError(t, te.RegisterTool(echoTool()))
	err := te.RegisterTool(echoTool())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterTool_InvalidDefinition(t *testing.T) {
	te := New()

	tests := []struct {
		name string
		def  ToolDefinition
	}{
		{"empty name", ToolDefinition{Description: "d", Handler: func(ctx context.Context, p map[string]interface{}) (interface{}, error) { return nil, nil }}},
		{"empty description", ToolDefinition{Name: "t", Handler: func(ctx context.Context, p map[string]interface{}) (interface{}, error) { return nil, nil }}},
		{"nil handler", ToolDefinition{Name: "t", Description: "d"}},
		{"bad param type", ToolDefinition{
			Name: "t", Description: "d",
			Parameters: []ToolParameter{{Name: "p", Type: "blob", Description: "x"}},
			Handler:    func(ctx context.Context, p map[string]interface{}) (interface{}, error) { return nil, nil },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, te.RegisterTool(tt.def))
		})
	}
}

func TestExecute(t *testing.T) {
	te := New()
	require.NoError(t, te.RegisterTool(echoTool()))

	result := te.Execute(context.Background(), "echo", map[string]interface{}{"text": "hello"}, nil)

	assert.True(t, result.Success)
	assert.Equal(t, "hello", result.Output)
}

func TestExecute_ToolNotFound(t *testing.T) {
	te := New()

	result := te.Execute(context.Background(), "missing", nil, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "tool not found")
}

func TestExecute_ParameterValidation(t *testing.T) {
	te := New()
	require.NoError(t, te.RegisterTool(echoTool()))

	// Missing required parameter
	result := te.Execute(context.Background(), "echo", map[string]interface{}{}, nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "parameter validation failed")

	// Unknown parameter rejected by additionalProperties
	result = te.Execute(context.Background(), "echo", map[string]interface{}{"text": "x", "extra": 1}, nil)
	assert.False(t, result.Success)
}

func TestExecute_HandlerError(t *testing.T) {
	te := New()
	require.NoError(t, te.RegisterTool(ToolDefinition{
		Name:        "fail",
		Description: "Always fails",
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		},
	}))

	result := te.Execute(context.Background(), "fail", map[string]interface{}{}, nil)

	assert.False(t, result.Success)
	assert.Equal(t, "boom", result.Error)
}

func TestExecute_Timeout(t *testing.T) {
	te := New()
	require.NoError(t, te.RegisterTool(ToolDefinition{
		Name:        "slow",
		Description: "Sleeps past the deadline",
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			select {
			case <-time.After(5 * time.Second):
				return "done", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}))

	result := te.Execute(context.Background(), "slow", map[string]interface{}{}, &ExecutionContext{
		Timeout: 50 * time.Millisecond,
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timeout")
}

func TestExecute_PolicyBlocked(t *testing.T) {
	te := New()
	require.NoError(t, te.RegisterTool(echoTool()))

	result := te.Execute(context.Background(), "echo", map[string]interface{}{"text": "x"}, &ExecutionContext{
		ToolPolicy: &ToolPolicy{Deny: []string{"echo"}},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not allowed by policy")
}

func TestExecute_TruncatesLargeOutput(t *testing.T) {
	te := New()
	require.NoError(t, te.RegisterTool(ToolDefinition{
		Name:        "big",
		Description: "Produces oversized output",
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return strings.Repeat("x", 20*1024), nil
		},
	}))

	result := te.Execute(context.Background(), "big", map[string]interface{}{}, nil)

	require.True(t, result.Success)
	assert.True(t, result.Truncated)
	assert.Contains(t, result.Output.(string), "[output truncated]")
}

func TestUnregisterTool(t *testing.T) {
	te := New()
	require.NoError(t, te.RegisterTool(echoTool()))

	te.UnregisterTool("echo")

	assert.Nil(t, te.GetTool("echo"))
	assert.Equal(t, 0, te.GetToolCount())
}
