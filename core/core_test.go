package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToolExecutionErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ToolExecutionError{Tool: "calculator", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "calculator")
}

func TestRunErrorUnwrap(t *testing.T) {
	cause := &InvalidExpressionError{Expression: "abc", Reason: "no digits"}
	err := RunError{Specialist: "technical", Stage: "execute_tools", Err: cause}

	var target *InvalidExpressionError
	assert.ErrorAs(t, err, &target)
	assert.Contains(t, err.Error(), "technical")
}

func TestSpecialistResultToolsUsedSorted(t *testing.T) {
	res := SpecialistResult{
		ToolResults: map[string]ToolInvocationResult{
			"weather":    {ToolName: "weather"},
			"calculator": {ToolName: "calculator"},
			"time":       {ToolName: "time"},
		},
	}
	assert.Equal(t, []string{"calculator", "time", "weather"}, res.ToolsUsed())
}

func TestOrchestrationResultDegraded(t *testing.T) {
	res := OrchestrationResult{}
	assert.False(t, res.Degraded())

	res.Errors = append(res.Errors, RunError{Stage: "coordinate", Err: errors.New("x")})
	assert.True(t, res.Degraded())
}

type panickingSink struct{}

func (panickingSink) Record(Span) { panic("sink exploded") }

func TestEmitSpanNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitSpan(panickingSink{}, Span{Name: "coordinator.analyze", Start: time.Now()})
	})
	assert.NotPanics(t, func() {
		EmitSpan(nil, Span{Name: "noop"})
	})
}

func TestNewIDUnique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
