// Package session keeps a bounded, ordered log of conversation exchanges.
//
// Invariants:
// - The store never holds more than its configured capacity; the oldest
//   exchange is evicted first (FIFO).
// - Insertion order defines recency for context lookup.
// - Exchanges are immutable once appended; only eviction removes them.
//
// The store is in-memory only and owned by a single control flow handling
// one turn at a time. It is not safe for concurrent use.
//
// Usage:
//
//	store := session.NewStore(50)
//	store.Append(session.Exchange{UserInput: "hi", AgentOutput: "hello"})
//	recent := store.Recent(5)
//	_ = recent
package session
