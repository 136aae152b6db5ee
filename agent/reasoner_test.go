package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentfold/agentfold/model"
)

func staticScan(hints ...string) func(string) []string {
	return func(string) []string { return hints }
}

func TestReasonerFallback(t *testing.T) {
	r := NewReasoner(staticScan("calculator"))

	analysis := r.Analyze(context.Background(), "55+55", "")

	assert.Equal(t, "fallback", analysis.Provider)
	assert.Equal(t, []string{"calculator"}, analysis.ToolHints)
	assert.Contains(t, analysis.Text, "calculator")
	assert.Contains(t, analysis.Text, "55+55")
}

func TestReasonerFallbackNoHints(t *testing.T) {
	r := NewReasoner(staticScan())

	analysis := r.Analyze(context.Background(), "tell me a joke", "")

	assert.Equal(t, "fallback", analysis.Provider)
	assert.Empty(t, analysis.ToolHints)
	assert.NotEmpty(t, analysis.Text)
}

func TestReasonerWithModel(t *testing.T) {
	m := model.NewMockModel("test-model")
	m.AddResponse("what time is it", "The user wants the current time.")

	r := NewReasoner(staticScan("time"), func(o *ReasonerOptions) {
		o.Model = m
	})

	analysis := r.Analyze(context.Background(), "what time is it", "")

	assert.Equal(t, "mock", analysis.Provider)
	assert.Equal(t, "The user wants the current time.", analysis.Text)
	// Hints always come from the deterministic scan, not the model.
	assert.Equal(t, []string{"time"}, analysis.ToolHints)
}

func TestReasonerModelFailureDegrades(t *testing.T) {
	m := model.NewMockModel("test-model")
	r := NewReasoner(staticScan("web_search"), func(o *ReasonerOptions) {
		o.Model = m
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analysis := r.Analyze(ctx, "search for news", "")

	assert.Equal(t, "fallback", analysis.Provider)
	assert.Equal(t, []string{"web_search"}, analysis.ToolHints)
	assert.NotEmpty(t, analysis.Text)
}
