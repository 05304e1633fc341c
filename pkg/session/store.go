package session

import (
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/alif/naia/internal/observability"
)

// DefaultCapacity is the exchange limit used when none is configured.
const DefaultCapacity = 50

// ToolCallRecord captures one HTTP tool invocation made during an exchange.
type ToolCallRecord struct {
	Method     string `json:"method"`
	URL        string `json:"url"`
	StatusCode *int   `json:"status_code,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// Exchange represents one completed user-turn/agent-turn pair.
type Exchange struct {
	ID          string           `json:"id"`
	UserInput   string           `json:"user_input"`
	AgentOutput string           `json:"agent_output"`
	Timestamp   time.Time        `json:"timestamp"`
	ToolCalls   []ToolCallRecord `json:"tool_calls,omitempty"`
}

// Summary describes the current state of a store.
type Summary struct {
	Count           int       `json:"count"`
	Capacity        int       `json:"capacity"`
	TotalChars      int       `json:"total_chars"`
	AvgExchangeLen  float64   `json:"avg_exchange_len"`
	OldestTimestamp time.Time `json:"oldest_timestamp,omitzero"`
	NewestTimestamp time.Time `json:"newest_timestamp,omitzero"`
}

// Store is a bounded FIFO log of exchanges for a single session.
type Store struct {
	capacity  int
	exchanges []Exchange
}

// NewStore creates a store with the given capacity. Non-positive values
// fall back to DefaultCapacity.
func NewStore(capacity int) *Store {
	observability.EnsureRegistered()

	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	log.Debug().Int("capacity", capacity).Msg("Session store initialized")

	return &Store{
		capacity:  capacity,
		exchanges: make([]Exchange, 0, capacity),
	}
}

// Append adds an exchange to the end of the log, evicting the oldest
// entry when the store is at capacity. It never rejects input; a zero
// timestamp and an empty ID are filled in.
func (s *Store) Append(ex Exchange) {
	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now()
	}
	if ex.ID == "" {
		ex.ID = gonanoid.Must()
	}

	s.exchanges = append(s.exchanges, ex)
	if len(s.exchanges) > s.capacity {
		evicted := len(s.exchanges) - s.capacity
		s.exchanges = s.exchanges[evicted:]
		observability.RecordSessionEviction(evicted)
		log.Debug().
			Int("evicted", evicted).
			Int("capacity", s.capacity).
			Msg("Oldest exchange evicted")
	}

	observability.SetSessionExchanges(len(s.exchanges))
	log.Debug().
		Str("exchange_id", ex.ID).
		Int("tool_calls", len(ex.ToolCalls)).
		Msg("Exchange appended")
}

// Recent returns the last k exchanges in chronological order. When fewer
// than k exchanges exist, all of them are returned.
func (s *Store) Recent(k int) []Exchange {
	if k <= 0 {
		return nil
	}
	if k > len(s.exchanges) {
		k = len(s.exchanges)
	}

	out := make([]Exchange, k)
	copy(out, s.exchanges[len(s.exchanges)-k:])
	return out
}

// Len returns the number of stored exchanges.
func (s *Store) Len() int {
	return len(s.exchanges)
}

// Capacity returns the configured exchange limit.
func (s *Store) Capacity() int {
	return s.capacity
}

// Clear empties the store. This is irreversible.
func (s *Store) Clear() {
	s.exchanges = s.exchanges[:0]
	observability.SetSessionExchanges(0)
	log.Info().Msg("Session cleared")
}

// Summary reports counts and the timestamp range of the stored exchanges.
func (s *Store) Summary() Summary {
	sum := Summary{
		Count:    len(s.exchanges),
		Capacity: s.capacity,
	}

	for _, ex := range s.exchanges {
		sum.TotalChars += len(ex.UserInput) + len(ex.AgentOutput)
	}
	if sum.Count > 0 {
		sum.AvgExchangeLen = float64(sum.TotalChars) / float64(sum.Count)
		sum.OldestTimestamp = s.exchanges[0].Timestamp
		sum.NewestTimestamp = s.exchanges[len(s.exchanges)-1].Timestamp
	}

	return sum
}

// ContextPrompt renders the last k exchanges as a "User:/Agent:"
// transcript for priming the model with prior context. It returns the
// empty string when no history exists.
func (s *Store) ContextPrompt(k int) string {
	recent := s.Recent(k)
	if len(recent) == 0 {
		return ""
	}

	var b strings.Builder
	for _, ex := range recent {
		fmt.Fprintf(&b, "User: %s\n", ex.UserInput)
		fmt.Fprintf(&b, "Agent: %s\n", ex.AgentOutput)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
