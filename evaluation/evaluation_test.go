package evaluation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentfold/agentfold/core"
)

func expecting(tools ...string) func(string) []string {
	return func(string) []string { return tools }
}

func TestEvaluatePerfectCalculationRun(t *testing.T) {
	e := NewEvaluator(expecting("calculator"))

	result := core.OrchestrationResult{
		Query:         "55+55",
		FinalResponse: "The result of 55+55 is 110.",
		AgentsUsed:    []string{"general"},
		ToolResults: map[string]core.ToolInvocationResult{
			"calculator": {ToolName: "calculator", Input: "55+55", Output: 110.0},
		},
		ProcessingTime: 120 * time.Millisecond,
	}

	card := e.Evaluate("55+55", result)

	// Relevance 40 + base 30 + length 15.
	assert.InDelta(t, 85, card.QualityScore, 0.001)
	// Exact tool match with full success rate.
	assert.InDelta(t, 100, card.ToolUsageScore, 0.001)
	assert.InDelta(t, 100, card.PerformanceScore, 0.001)
	assert.InDelta(t, 92.5, card.Overall, 0.001)
	assert.Equal(t, "A", card.Grade)
}

func TestEvaluateNeutralToolScore(t *testing.T) {
	e := NewEvaluator(expecting())

	result := core.OrchestrationResult{
		Query:          "tell me a joke",
		FinalResponse:  "Here is a joke about a gopher walking into a bar.",
		ProcessingTime: 50 * time.Millisecond,
	}

	card := e.Evaluate("tell me a joke", result)
	assert.InDelta(t, 50, card.ToolUsageScore, 0.001)
}

func TestEvaluateToolFailureLowersScore(t *testing.T) {
	e := NewEvaluator(expecting("web_search"))

	failed := core.OrchestrationResult{
		Query:         "search for news",
		FinalResponse: "Search was unavailable.",
		ToolResults: map[string]core.ToolInvocationResult{
			"web_search": {ToolName: "web_search", Err: errors.New("backend down")},
		},
		Errors:         []core.RunError{{Stage: "tool:web_search", Err: errors.New("backend down")}},
		ProcessingTime: 100 * time.Millisecond,
	}

	card := e.Evaluate("search for news", failed)

	// Right tool, zero success rate: precision/recall part only.
	assert.InDelta(t, 70, card.ToolUsageScore, 0.001)
}

func TestEvaluateWrongToolPenalized(t *testing.T) {
	e := NewEvaluator(expecting("calculator"))

	result := core.OrchestrationResult{
		Query:         "calculate 2+2",
		FinalResponse: "Looked at the weather instead.",
		ToolResults: map[string]core.ToolInvocationResult{
			"weather": {ToolName: "weather", Output: "sunny"},
		},
		ProcessingTime: 100 * time.Millisecond,
	}

	card := e.Evaluate("calculate 2+2", result)

	// No overlap between used and expected; only the success rate counts.
	assert.InDelta(t, 30, card.ToolUsageScore, 0.001)
}

func TestEvaluateEmptyResponse(t *testing.T) {
	e := NewEvaluator(expecting())

	card := e.Evaluate("query", core.OrchestrationResult{})
	assert.Zero(t, card.QualityScore)
}

func TestEvaluateDegradedRunReducesQuality(t *testing.T) {
	e := NewEvaluator(expecting())

	clean := core.OrchestrationResult{
		Query:          "hello",
		FinalResponse:  "hello back, this is a sufficiently long response text",
		ProcessingTime: 100 * time.Millisecond,
	}
	degraded := clean
	degraded.Errors = []core.RunError{{Stage: "process", Err: errors.New("boom")}}

	cleanCard := e.Evaluate("hello", clean)
	degradedCard := e.Evaluate("hello", degraded)
	assert.Greater(t, cleanCard.QualityScore, degradedCard.QualityScore)
}

func TestPerformanceTiers(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{500 * time.Millisecond, 100},
		{2 * time.Second, 90},
		{4 * time.Second, 75},
		{8 * time.Second, 50},
		{20 * time.Second, 25},
		{time.Minute, 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, performanceScore(tt.d), 0.001, "duration %v", tt.d)
	}
}

func TestGradeThresholds(t *testing.T) {
	assert.Equal(t, "A", grade(95))
	assert.Equal(t, "A", grade(90))
	assert.Equal(t, "B", grade(85))
	assert.Equal(t, "C", grade(72))
	assert.Equal(t, "D", grade(61))
	assert.Equal(t, "F", grade(59.9))
}
