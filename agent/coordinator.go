package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/logging"
	"github.com/agentfold/agentfold/memory"
	"github.com/agentfold/agentfold/model"
)

const synthesisDirective = `You are a coordinator. Combine the specialist responses below into one coherent final answer to the user's query. Preserve concrete findings (numbers, facts, sources) exactly.`

// SpecialistRule maps a query predicate to a specialist name. Rules are
// evaluated independently in table order, so one query can require several
// specialists and the table can be reordered or extended without touching
// control flow.
type SpecialistRule struct {
	Specialist string
	Match      func(query string) bool
}

// DefaultSpecialistRules returns the built-in routing table. Order defines
// the execution order of matched specialists.
func DefaultSpecialistRules() []SpecialistRule {
	keyword := func(words ...string) func(string) bool {
		return func(q string) bool {
			for _, w := range words {
				if strings.Contains(q, w) {
					return true
				}
			}
			return false
		}
	}
	return []SpecialistRule{
		{Specialist: string(RoleResearch), Match: keyword("research", "information", "data")},
		{Specialist: string(RoleAnalysis), Match: keyword("analyze", "analysis", "trend", "insight")},
		{Specialist: string(RoleWriting), Match: keyword("write", "summary", "document", "report")},
		{Specialist: string(RoleTechnical), Match: keyword("technical", "implement", "code")},
	}
}

// CoordinatorOptions configure a Coordinator.
type CoordinatorOptions struct {
	// Rules override the routing table.
	Rules []SpecialistRule

	// Default is the specialist used when no rule matches. Empty disables
	// the default, in which case unroutable queries produce a degraded
	// result with an explanation.
	Default string

	// Model is the final-synthesis provider. Nil switches synthesis into
	// the deterministic fallback path.
	Model model.Model

	// Memory receives a ConversationTurn per completed run.
	Memory *memory.Store

	// Training receives a TrainingRecord per completed run.
	Training core.TrainingDataSink

	// SynthesisTimeout bounds the final-synthesis provider call.
	SynthesisTimeout time.Duration

	Tracer core.TracingSink
	Logger logging.Logger
}

// Coordinator is the top-level controller of an orchestration run. It decides
// which specialists a query needs, invokes them strictly sequentially with
// each output threaded forward as the next one's context, and folds all
// responses into a final answer.
//
// A specialist failure is recorded and skipped, never propagated; Coordinate
// always returns a well-formed result with a non-empty final response.
type Coordinator struct {
	specialists      map[string]*Specialist
	rules            []SpecialistRule
	defaultName      string
	model            model.Model
	memory           *memory.Store
	training         core.TrainingDataSink
	synthesisTimeout time.Duration
	tracer           core.TracingSink
	logger           logging.Logger
}

// NewCoordinator constructs a Coordinator over the given specialists. The
// default specialist is "general" when such a specialist exists.
func NewCoordinator(specialists []*Specialist, optFns ...func(o *CoordinatorOptions)) *Coordinator {
	opts := CoordinatorOptions{
		Rules:            DefaultSpecialistRules(),
		SynthesisTimeout: 30 * time.Second,
		Tracer:           core.NoOpTracingSink{},
		Logger:           logging.NoOpLogger{},
	}
	byName := make(map[string]*Specialist, len(specialists))
	for _, sp := range specialists {
		byName[sp.Name()] = sp
	}
	if _, ok := byName[string(RoleGeneral)]; ok {
		opts.Default = string(RoleGeneral)
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Coordinator{
		specialists:      byName,
		rules:            opts.Rules,
		defaultName:      opts.Default,
		model:            opts.Model,
		memory:           opts.Memory,
		training:         opts.Training,
		synthesisTimeout: opts.SynthesisTimeout,
		tracer:           opts.Tracer,
		logger:           logging.OrNoOp(opts.Logger),
	}
}

// Analyze decides which specialists the query needs and in what order. Rules
// are evaluated against the lowercased query; a query matching no rule falls
// back to the default specialist.
func (c *Coordinator) Analyze(query string) core.TaskAnalysis {
	lower := strings.ToLower(query)

	var matched []string
	for _, rule := range c.rules {
		if rule.Match(lower) {
			matched = append(matched, rule.Specialist)
		}
	}
	if len(matched) > 0 {
		return core.TaskAnalysis{
			Specialists: matched,
			Reasoning:   fmt.Sprintf("query keywords require: %s", strings.Join(matched, ", ")),
		}
	}
	if c.defaultName != "" {
		return core.TaskAnalysis{
			Specialists: []string{c.defaultName},
			Reasoning:   "no routing rule matched; using the default specialist",
		}
	}
	return core.TaskAnalysis{Reasoning: "no routing rule matched and no default specialist is configured"}
}

// Coordinate runs one orchestration for query under a fresh run ID. It never
// returns an error: every operational failure is recorded in the result's
// Errors and reflected in a degraded but non-empty final response.
func (c *Coordinator) Coordinate(ctx context.Context, sessionID, query string) core.OrchestrationResult {
	return c.CoordinateRun(ctx, core.NewID(), sessionID, query)
}

// CoordinateRun is Coordinate with a caller-supplied run ID, letting callers
// register cancellation handles before the run starts.
func (c *Coordinator) CoordinateRun(ctx context.Context, runID, sessionID, query string) core.OrchestrationResult {
	start := time.Now()
	result := core.OrchestrationResult{
		RunID:       runID,
		Query:       query,
		ToolResults: make(map[string]core.ToolInvocationResult),
	}

	span := core.Span{
		ID:     core.NewID(),
		RunID:  result.RunID,
		Name:   "coordinator.coordinate",
		Inputs: map[string]any{"query": query, "session_id": sessionID},
		Start:  start,
	}

	analysis := c.Analyze(query)
	c.logger.Info("coordinator.analyze",
		"run_id", result.RunID, "specialists", strings.Join(analysis.Specialists, ","), "reasoning", analysis.Reasoning)

	var responses []core.SpecialistResult
	chainContext := ""

	for _, name := range analysis.Specialists {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, core.RunError{Specialist: name, Stage: "checkpoint", Err: err})
			break
		}

		sp, ok := c.specialists[name]
		if !ok {
			result.Errors = append(result.Errors, core.RunError{
				Specialist: name,
				Stage:      "dispatch",
				Err:        fmt.Errorf("specialist %q is not configured", name),
			})
			continue
		}

		res, err := sp.Process(ctx, sessionID, query, chainContext)
		result.AgentsUsed = append(result.AgentsUsed, name)

		if err != nil {
			result.Errors = append(result.Errors, core.RunError{Specialist: name, Stage: "process", Err: err})
			continue
		}

		for toolName, tr := range res.ToolResults {
			result.ToolResults[toolName] = tr
			if tr.Failed() {
				result.Errors = append(result.Errors, core.RunError{
					Specialist: name,
					Stage:      "tool:" + toolName,
					Err:        tr.Err,
				})
			}
		}

		responses = append(responses, res)
		chainContext = res.Response
	}

	result.FinalResponse = c.synthesizeFinal(ctx, query, responses, result.Errors)
	result.ProcessingTime = time.Since(start)

	span.Outputs = map[string]any{
		"final_response": result.FinalResponse,
		"agents_used":    result.AgentsUsed,
		"degraded":       result.Degraded(),
	}
	span.Duration = result.ProcessingTime
	core.EmitSpan(c.tracer, span)

	c.record(sessionID, result)

	c.logger.Info("coordinator.done",
		"run_id", result.RunID,
		"agents_used", strings.Join(result.AgentsUsed, ","),
		"errors", len(result.Errors),
		"duration_ms", result.ProcessingTime.Milliseconds())

	return result
}

// synthesizeFinal folds the successful specialist responses into the final
// answer. With no successful response it produces an explanation instead;
// the return value is never empty.
func (c *Coordinator) synthesizeFinal(ctx context.Context, query string, responses []core.SpecialistResult, errs []core.RunError) string {
	if len(responses) == 0 {
		if len(errs) > 0 {
			return fmt.Sprintf("I was unable to process %q: %s. Please try rephrasing the request.", query, errs[0].Error())
		}
		return fmt.Sprintf("I was unable to process %q: no specialist produced a response. Please try rephrasing the request.", query)
	}

	if len(responses) == 1 && c.model == nil {
		return responses[0].Response
	}

	if c.model != nil {
		callCtx, cancel := context.WithTimeout(ctx, c.synthesisTimeout)
		defer cancel()

		var sb strings.Builder
		fmt.Fprintf(&sb, "Query: %s\n", query)
		for _, res := range responses {
			fmt.Fprintf(&sb, "\n[%s]\n%s\n", res.Specialist, res.Response)
		}
		messages := []model.Message{
			model.System(synthesisDirective),
			model.User(sb.String()),
		}
		if text, err := c.model.Complete(callCtx, messages); err == nil && text != "" {
			return text
		} else if err != nil {
			c.logger.Warn("coordinator.synthesize.fallback", "error", err.Error())
		}
	}

	var parts []string
	for _, res := range responses {
		parts = append(parts, fmt.Sprintf("[%s]\n%s", res.Specialist, res.Response))
	}
	return strings.Join(parts, "\n\n")
}

// record persists the completed run into memory and the training sink.
// Neither failure path affects the returned result.
func (c *Coordinator) record(sessionID string, result core.OrchestrationResult) {
	if c.memory != nil {
		c.memory.Append(sessionID, core.ConversationTurn{
			Query:     result.Query,
			Response:  result.FinalResponse,
			Timestamp: time.Now(),
			ToolsUsed: result.ToolsUsed(),
		})
	}
	if c.training != nil {
		rec := core.TrainingRecord{
			Query:          result.Query,
			Response:       result.FinalResponse,
			ToolsUsed:      result.ToolsUsed(),
			ProcessingTime: result.ProcessingTime.Seconds(),
			Timestamp:      time.Now(),
		}
		if err := c.training.Record(rec); err != nil {
			c.logger.Warn("coordinator.training.record_failed", "error", err.Error())
		}
	}
}
