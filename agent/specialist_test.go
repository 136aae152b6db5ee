package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/memory"
	"github.com/agentfold/agentfold/model"
	"github.com/agentfold/agentfold/search"
	"github.com/agentfold/agentfold/tool"
	"github.com/agentfold/agentfold/weather"
)

func turnFixture(query, response string) core.ConversationTurn {
	return core.ConversationTurn{Query: query, Response: response, Timestamp: time.Now()}
}

func builtinToolkit(t *testing.T) (*tool.Registry, *tool.Selector) {
	t.Helper()
	reg := tool.NewRegistry()
	require.NoError(t, reg.Register(tool.NewWebSearch(search.NewSimulated())))
	require.NoError(t, reg.Register(tool.NewCalculator()))
	require.NoError(t, reg.Register(tool.NewWeather(weather.NewSimulated())))
	require.NoError(t, reg.Register(tool.NewClock()))
	return reg, tool.NewSelector(reg)
}

func newTestSpecialist(t *testing.T, role Role, optFns ...func(o *SpecialistOptions)) *Specialist {
	t.Helper()
	reg, sel := builtinToolkit(t)
	return NewSpecialist(role, reg, sel, NewReasoner(sel.Scan), optFns...)
}

func TestSpecialistCalculation(t *testing.T) {
	sp := newTestSpecialist(t, RoleGeneral)

	res, err := sp.Process(context.Background(), "s1", "55+55", "")
	require.NoError(t, err)

	assert.Equal(t, "general", res.Specialist)
	assert.Equal(t, []string{"calculator"}, res.ToolsUsed())

	calc := res.ToolResults["calculator"]
	assert.Equal(t, "55+55", calc.Input)
	require.False(t, calc.Failed())

	assert.Contains(t, res.Response, "110")
	assert.Positive(t, res.ProcessingTime)
}

func TestSpecialistSearchFallbackProvider(t *testing.T) {
	sp := newTestSpecialist(t, RoleResearch)

	res, err := sp.Process(context.Background(), "s1", "search for AI news", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"web_search"}, res.ToolsUsed())
	require.False(t, res.ToolResults["web_search"].Failed())
	assert.Contains(t, res.Response, "simulated")
}

func TestSpecialistNoTools(t *testing.T) {
	sp := newTestSpecialist(t, RoleGeneral)

	res, err := sp.Process(context.Background(), "s1", "tell me a joke", "")
	require.NoError(t, err)

	assert.Empty(t, res.ToolResults)
	assert.NotEmpty(t, res.Response)
}

func TestSpecialistWritingRoleDeniesCalculator(t *testing.T) {
	sp := newTestSpecialist(t, RoleWriting)

	res, err := sp.Process(context.Background(), "s1", "write about 2+2", "")
	require.NoError(t, err)

	assert.NotContains(t, res.ToolsUsed(), "calculator")
}

func TestSpecialistToleratesToolFailure(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, reg.Register(tool.NewFunc("web_search", "always fails", nil,
		func(_ context.Context, _ string) (any, error) {
			return nil, errors.New("backend down")
		})))
	sel := tool.NewSelector(reg)
	sp := NewSpecialist(RoleResearch, reg, sel, NewReasoner(sel.Scan))

	res, err := sp.Process(context.Background(), "s1", "search for news", "")
	require.NoError(t, err)

	require.True(t, res.ToolResults["web_search"].Failed())
	assert.NotEmpty(t, res.Response)
}

func TestSpecialistCancelledContext(t *testing.T) {
	sp := newTestSpecialist(t, RoleGeneral)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sp.Process(ctx, "s1", "55+55", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSpecialistModelSynthesis(t *testing.T) {
	m := model.NewMockModel("test-model")
	reg, sel := builtinToolkit(t)
	sp := NewSpecialist(RoleGeneral, reg, sel, NewReasoner(sel.Scan), func(o *SpecialistOptions) {
		o.Model = m
	})

	res, err := sp.Process(context.Background(), "s1", "55+55", "")
	require.NoError(t, err)

	// The synthesis prompt carries the tool findings through to the model.
	require.Len(t, m.Calls(), 1)
	assert.Contains(t, m.Calls()[0], "110")
	assert.Contains(t, res.Response, "Mock response")
}

func TestSpecialistMemoryContext(t *testing.T) {
	store := memory.NewStore()
	m := model.NewMockModel("test-model")
	reg, sel := builtinToolkit(t)
	sp := NewSpecialist(RoleGeneral, reg, sel, NewReasoner(sel.Scan), func(o *SpecialistOptions) {
		o.Model = m
		o.Memory = store
	})

	store.Append("s1", turnFixture("earlier question", "earlier answer"))

	_, err := sp.Process(context.Background(), "s1", "tell me a joke", "")
	require.NoError(t, err)

	require.Len(t, m.Calls(), 1)
	assert.Contains(t, m.Calls()[0], "earlier answer")
}
