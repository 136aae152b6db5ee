package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, name := range []string{"web_search", "calculator", "weather", "time"} {
		require.NoError(t, reg.Register(echoTool(name)))
	}
	return reg
}

func TestSelectorKeywords(t *testing.T) {
	sel := NewSelector(builtinRegistry(t))

	tests := []struct {
		query string
		want  []string
	}{
		{"search for AI news", []string{"web_search"}},
		{"find the population of France", []string{"web_search"}},
		{"look up golang generics", []string{"web_search"}},
		{"calculate 32*23", []string{"calculator"}},
		{"55+55", []string{"calculator"}},
		{"10 / 2", []string{"calculator"}},
		{"what's the weather in Berlin", []string{"weather"}},
		{"what time is it", []string{"time"}},
		{"tell me a joke", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, sel.Select(tt.query, nil))
		})
	}
}

func TestSelectorOperatorAdjacency(t *testing.T) {
	sel := NewSelector(builtinRegistry(t))

	assert.Contains(t, sel.Select("what is 7*6", nil), "calculator")
	assert.Contains(t, sel.Select("3 - 1", nil), "calculator")

	// Hyphenated words are not subtraction.
	assert.NotContains(t, sel.Select("state-of-the-art research", nil), "calculator")
	assert.NotContains(t, sel.Select("a/b testing basics", nil), "calculator")
}

func TestSelectorRegistrationOrder(t *testing.T) {
	sel := NewSelector(builtinRegistry(t))

	// Both rules match; the result follows registration order, not the
	// order keywords appear in the query.
	got := sel.Select("calculate 2+2 then search for the answer", nil)
	assert.Equal(t, []string{"web_search", "calculator"}, got)
}

func TestSelectorHints(t *testing.T) {
	sel := NewSelector(builtinRegistry(t))

	// Hints merge with rule matches, dedupe and keep registration order.
	got := sel.Select("search for weather data", []string{"weather", "web_search"})
	assert.Equal(t, []string{"web_search", "weather"}, got)

	// Hints for unregistered tools are dropped.
	got = sel.Select("tell me a joke", []string{"database", "calculator"})
	assert.Equal(t, []string{"calculator"}, got)
}

func TestSelectorScan(t *testing.T) {
	sel := NewSelector(builtinRegistry(t))

	// Scan reports rule-order matches regardless of the registry.
	assert.Equal(t, []string{"web_search", "weather"}, sel.Scan("Find the WEATHER report"))
	assert.Nil(t, sel.Scan("hello"))

	// Known limitation of the substring rule: "sometimes" selects "time".
	assert.Equal(t, []string{"time"}, sel.Scan("it rains sometimes"))
}
