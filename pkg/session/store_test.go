package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendFillsDefaults(t *testing.T) {
	store := NewStore(10)

	store.Append(Exchange{UserInput: "hi", AgentOutput: "hello"})

	entries := store.Recent(1)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	const capacity = 5
	store := NewStore(capacity)

	for i := 0; i < capacity+5; i++ {
		store.Append(Exchange{
			UserInput:   fmt.Sprintf("question %d", i),
			AgentOutput: fmt.Sprintf("answer %d", i),
		})
	}

	assert.Equal(t, capacity, store.Len())

	recent := store.Recent(capacity)
	require.Len(t, recent, capacity)
	for i, ex := range recent {
		assert.Equal(t, fmt.Sprintf("question %d", i+5), ex.UserInput)
	}
}

func TestStore_RecentMoreThanSize(t *testing.T) {
	store := NewStore(10)

	store.Append(Exchange{UserInput: "a", AgentOutput: "b"})
	store.Append(Exchange{UserInput: "c", AgentOutput: "d"})

	recent := store.Recent(100)
	assert.Len(t, recent, 2)
	assert.Equal(t, "a", recent[0].UserInput)
	assert.Equal(t, "c", recent[1].UserInput)
}

func TestStore_RecentZero(t *testing.T) {
	store := NewStore(10)
	store.Append(Exchange{UserInput: "a", AgentOutput: "b"})

	assert.Empty(t, store.Recent(0))
	assert.Empty(t, store.Recent(-1))
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(10)

	for i := 0; i < 3; i++ {
		store.Append(Exchange{UserInput: "q", AgentOutput: "a"})
	}
	store.Clear()

	sum := store.Summary()
	assert.Equal(t, 0, sum.Count)
	assert.Equal(t, 0, sum.TotalChars)
	assert.True(t, sum.OldestTimestamp.IsZero())
	assert.Empty(t, store.Recent(10))
}

func TestStore_Summary(t *testing.T) {
	store := NewStore(10)

	oldest := time.Now().Add(-time.Hour)
	newest := time.Now()

	store.Append(Exchange{UserInput: "ab", AgentOutput: "cd", Timestamp: oldest})
	store.Append(Exchange{UserInput: "ef", AgentOutput: "gh", Timestamp: newest})

	sum := store.Summary()
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, 10, sum.Capacity)
	assert.Equal(t, 8, sum.TotalChars)
	assert.InDelta(t, 4.0, sum.AvgExchangeLen, 0.001)
	assert.Equal(t, oldest, sum.OldestTimestamp)
	assert.Equal(t, newest, sum.NewestTimestamp)
}

func TestStore_DefaultCapacity(t *testing.T) {
	store := NewStore(0)
	assert.Equal(t, DefaultCapacity, store.Capacity())

	store = NewStore(-3)
	assert.Equal(t, DefaultCapacity, store.Capacity())
}

func TestStore_ContextPrompt(t *testing.T) {
	store := NewStore(10)

	assert.Empty(t, store.ContextPrompt(5))

	store.Append(Exchange{UserInput: "what is 2+2", AgentOutput: "4"})
	store.Append(Exchange{UserInput: "and times 3", AgentOutput: "12"})

	got := store.ContextPrompt(5)
	want := "User: what is 2+2\nAgent: 4\nUser: and times 3\nAgent: 12"
	assert.Equal(t, want, got)

	// Only the last exchange when k=1.
	assert.Equal(t, "User: and times 3\nAgent: 12", store.ContextPrompt(1))
}

func TestStore_ToolCallsPreserved(t *testing.T) {
	store := NewStore(10)

	status := 200
	store.Append(Exchange{
		UserInput:   "fetch it",
		AgentOutput: "done",
		ToolCalls: []ToolCallRecord{
			{Method: "GET", URL: "https://api.example.com/users", StatusCode: &status, Success: true},
		},
	})

	recent := store.Recent(1)
	require.Len(t, recent, 1)
	require.Len(t, recent[0].ToolCalls, 1)
	assert.Equal(t, "GET", recent[0].ToolCalls[0].Method)
	require.NotNil(t, recent[0].ToolCalls[0].StatusCode)
	assert.Equal(t, 200, *recent[0].ToolCalls[0].StatusCode)
}
