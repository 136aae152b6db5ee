package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentfold/agentfold/core"
)

func turn(query, response string) core.ConversationTurn {
	return core.ConversationTurn{Query: query, Response: response, Timestamp: time.Now()}
}

func TestStoreRecency(t *testing.T) {
	store := NewStore()
	for i := 0; i < 5; i++ {
		store.Append("s1", turn(fmt.Sprintf("query %d", i), fmt.Sprintf("response %d", i)))
	}

	got := store.RelevantContext("s1", "anything", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "query 3", got[0].Query)
	assert.Equal(t, "query 4", got[1].Query)

	// Limit larger than history returns everything in order.
	all := store.RelevantContext("s1", "anything", 10)
	require.Len(t, all, 5)
	assert.Equal(t, "query 0", all[0].Query)
}

func TestStoreRelevantContextEmpty(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.RelevantContext("missing", "query", 3))
	assert.Nil(t, store.RelevantContext("missing", "query", 0))
}

func TestStoreSemantic(t *testing.T) {
	store := NewStore(func(o *StoreOptions) {
		o.Mode = Semantic
	})
	store.Append("s1", turn("what is the weather in Berlin", "sunny, 22 degrees"))
	store.Append("s1", turn("calculate 55+55", "the result is 110"))
	store.Append("s1", turn("weather in Paris tomorrow", "rainy, 15 degrees"))

	got := store.RelevantContext("s1", "weather forecast", 2)
	require.Len(t, got, 2)
	// Both weather turns overlap equally on "weather"; the tie goes to the
	// more recent turn.
	assert.Equal(t, "weather in Paris tomorrow", got[0].Query)
	assert.Equal(t, "what is the weather in Berlin", got[1].Query)
}

func TestStoreSemanticFallsBackToRecency(t *testing.T) {
	store := NewStore(func(o *StoreOptions) {
		o.Mode = Semantic
	})
	store.Append("s1", turn("first question", "first answer"))
	store.Append("s1", turn("second question", "second answer"))

	got := store.RelevantContext("s1", "xylophone", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "second question", got[0].Query)
}

func TestStoreSessionIsolation(t *testing.T) {
	store := NewStore()
	store.Append("a", turn("query a", "response a"))
	store.Append("b", turn("query b", "response b"))

	assert.Equal(t, 1, store.Len("a"))
	assert.Equal(t, 1, store.Len("b"))
	assert.Equal(t, 0, store.Len("c"))

	got := store.RelevantContext("a", "query", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "query a", got[0].Query)

	assert.Equal(t, map[string]int{"a": 1, "b": 1}, store.Stats())
}

func TestStoreTurnsCopyIsolation(t *testing.T) {
	store := NewStore()
	store.Append("s1", turn("original", "answer"))

	turns := store.Turns("s1")
	require.Len(t, turns, 1)
	turns[0].Query = "mutated"

	again := store.Turns("s1")
	assert.Equal(t, "original", again[0].Query)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := fmt.Sprintf("s%d", i%5)
			store.Append(session, turn(fmt.Sprintf("query %d", i), "response"))
			store.RelevantContext(session, "query", 3)
			store.Len(session)
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range store.Stats() {
		total += n
	}
	assert.Equal(t, 25, total)
}
