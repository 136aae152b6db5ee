package core

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is one completed query/response interaction. Turns are
// created once per orchestration run, appended to the memory store and never
// mutated afterwards.
type ConversationTurn struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
	ToolsUsed []string  `json:"tools_used,omitempty"`
}

// ToolInvocationResult captures a single tool call: the input expression that
// was passed to the handler, the structured output on success, or the failure.
// Results are consumed immediately by the invoking specialist and only
// persist beyond the run when copied into a ConversationTurn.
type ToolInvocationResult struct {
	ToolName string        `json:"tool_name"`
	Input    string        `json:"input"`
	Output   any           `json:"output,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Failed reports whether the invocation ended in an error.
func (r ToolInvocationResult) Failed() bool { return r.Err != nil }

// ReasoningAnalysis is the transient output of the reasoning step: an
// analysis of query intent (never a direct answer) plus candidate tool names
// the tool selector may refine. Produced and consumed within one specialist
// step.
type ReasoningAnalysis struct {
	Text      string   `json:"text"`
	ToolHints []string `json:"tool_hints,omitempty"`
	Provider  string   `json:"provider"`
}

// TaskAnalysis is the coordinator's decision about which specialists a query
// needs and in what order.
type TaskAnalysis struct {
	Specialists []string `json:"specialists"`
	Reasoning   string   `json:"reasoning"`
}

// SpecialistResult is the output of one specialist invocation. Ownership
// passes to the coordinator, which folds an ordered sequence of these into
// the final OrchestrationResult.
type SpecialistResult struct {
	Specialist     string                          `json:"specialist"`
	Response       string                          `json:"response"`
	ToolResults    map[string]ToolInvocationResult `json:"tool_results,omitempty"`
	ProcessingTime time.Duration                   `json:"processing_time"`
}

// ToolsUsed returns the names of all tools invoked by the specialist in
// lexical order, giving a deterministic view of the result map.
func (r SpecialistResult) ToolsUsed() []string {
	names := make([]string, 0, len(r.ToolResults))
	for name := range r.ToolResults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunError records a failure that occurred during an orchestration run
// without aborting it.
type RunError struct {
	Specialist string `json:"specialist,omitempty"`
	Stage      string `json:"stage"`
	Err        error  `json:"-"`
}

func (e RunError) Error() string {
	if e.Specialist != "" {
		return e.Stage + " (" + e.Specialist + "): " + e.Err.Error()
	}
	return e.Stage + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e RunError) Unwrap() error { return e.Err }

// OrchestrationResult is the terminal artifact of a run, immutable once
// constructed. FinalResponse is always non-empty, even for degraded runs;
// Errors lists every recorded failure.
type OrchestrationResult struct {
	RunID          string                          `json:"run_id"`
	Query          string                          `json:"query"`
	FinalResponse  string                          `json:"final_response"`
	AgentsUsed     []string                        `json:"agents_used"`
	ToolResults    map[string]ToolInvocationResult `json:"tool_results,omitempty"`
	ProcessingTime time.Duration                   `json:"processing_time"`
	Errors         []RunError                      `json:"errors,omitempty"`
}

// ToolsUsed returns the merged tool names in lexical order.
func (r OrchestrationResult) ToolsUsed() []string {
	names := make([]string, 0, len(r.ToolResults))
	for name := range r.ToolResults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Degraded reports whether any failure was recorded during the run.
func (r OrchestrationResult) Degraded() bool { return len(r.Errors) > 0 }

// NewID generates a unique identifier used for runs and trace spans.
func NewID() string { return uuid.NewString() }
