// Package agent runs session-aware LLM turns with an HTTP tool loop.
//
// Invariants:
// - Conversation context is read from the session store before each run
//   and the completed exchange is recorded after it.
// - Tool calls route through toolexecutor only.
// - Orchestration failures surface as structured responses, never as
//   panics or uncaught faults.
//
// Usage:
//
//	runner, _ := agent.NewRunner(agent.RunnerConfig{
//		Store:    store,
//		Executor: executor,
//		Agent:    agent.DefaultConfig(),
//		APIKey:   key,
//	})
//	resp := runner.Run(ctx, "fetch https://api.example.com/users")
//	_ = resp
package agent
