package agentfold

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentfold/agentfold/export"
	"github.com/agentfold/agentfold/trace"
)

func TestProcessCalculation(t *testing.T) {
	af := New()

	result := af.Process(context.Background(), "s1", "55+55")

	assert.Equal(t, []string{"general"}, result.AgentsUsed)
	assert.Equal(t, []string{"calculator"}, result.ToolsUsed())
	assert.Contains(t, result.FinalResponse, "110")
	assert.False(t, result.Degraded())
}

func TestProcessSearchFallback(t *testing.T) {
	af := New()

	result := af.Process(context.Background(), "s1", "search for AI news")

	assert.Equal(t, []string{"web_search"}, result.ToolsUsed())
	assert.Contains(t, result.FinalResponse, "simulated")
	assert.Empty(t, result.Errors)
}

func TestProcessMultiSpecialist(t *testing.T) {
	af := New()

	result := af.Process(context.Background(), "s1", "research X and write a summary")

	assert.Equal(t, []string{"research", "writing"}, result.AgentsUsed)
	assert.NotEmpty(t, result.FinalResponse)
}

func TestProcessRecordsHistoryAndStats(t *testing.T) {
	af := New()

	af.Process(context.Background(), "s1", "55+55")
	af.Process(context.Background(), "s1", "what's the weather in Berlin")

	history := af.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, "55+55", history[0].Query)
	assert.Equal(t, []string{"calculator"}, history[0].ToolsUsed)

	stats := af.ToolStats()
	assert.Equal(t, int64(1), stats["calculator"].Calls)
	assert.Equal(t, int64(1), stats["weather"].Calls)
}

func TestProcessEmitsSpansAndTrainingRecords(t *testing.T) {
	spans := trace.NewMemorySink()
	training := export.NewMemorySink()

	af := New(func(o *Options) {
		o.Tracer = spans
		o.Training = training
	})

	result := af.Process(context.Background(), "s1", "55+55")

	runSpans := spans.ByRun(result.RunID)
	require.NotEmpty(t, runSpans)
	names := make([]string, 0, len(runSpans))
	for _, span := range runSpans {
		names = append(names, span.Name)
	}
	assert.Contains(t, names, "coordinator.coordinate")

	records := training.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "55+55", records[0].Query)
	assert.Equal(t, []string{"calculator"}, records[0].ToolsUsed)
}

func TestProcessAsyncAndCancel(t *testing.T) {
	af := New()

	runID, results := af.ProcessAsync(context.Background(), "s1", "55+55")
	require.NotEmpty(t, runID)

	result := <-results
	assert.Equal(t, runID, result.RunID)
	assert.Contains(t, result.FinalResponse, "110")

	// The run is deregistered once finished.
	assert.Error(t, af.Cancel(runID))
}

func TestCancelUnknownRun(t *testing.T) {
	af := New()
	assert.Error(t, af.Cancel("no-such-run"))
}

func TestEvaluateRun(t *testing.T) {
	af := New()

	result := af.Process(context.Background(), "s1", "55+55")
	card := af.Evaluate("55+55", result)

	assert.GreaterOrEqual(t, card.Overall, 60.0)
	assert.Contains(t, []string{"A", "B", "C", "D"}, card.Grade)
	assert.InDelta(t, 100, card.ToolUsageScore, 0.001)
}

func TestAnalyzeRouting(t *testing.T) {
	af := New()

	assert.Equal(t, []string{"research", "writing"}, af.Analyze("research X and write a summary").Specialists)
	assert.Equal(t, []string{"general"}, af.Analyze("hello").Specialists)
}

func TestToolsSnapshot(t *testing.T) {
	af := New()

	descs := af.Tools()
	require.Len(t, descs, 4)
	assert.Equal(t, "web_search", descs[0].Name)
	assert.Equal(t, "calculator", descs[1].Name)
	assert.Equal(t, "weather", descs[2].Name)
	assert.Equal(t, "time", descs[3].Name)
}
