// Package toolexecutor registers and executes structured tools via an
// explicit dispatch table.
//
// Invariants:
// - Tool names are unique.
// - Parameters are schema-validated before execution.
// - Tool output is truncated above a fixed size limit.
//
// Usage:
//
//	exec := toolexecutor.New()
//	_ = exec.RegisterTool(toolexecutor.ToolDefinition{
//		Name: "echo",
//		Description: "Echo input",
//		Parameters: []toolexecutor.ToolParameter{{Name: "text", Type: "string", Description: "text", Required: true}},
//		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) { return params["text"], nil },
//	})
package toolexecutor
