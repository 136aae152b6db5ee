package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/logging"
	"github.com/agentfold/agentfold/memory"
	"github.com/agentfold/agentfold/model"
	"github.com/agentfold/agentfold/tool"
)

// Role identifies a specialist variant. Variants differ only in their
// synthesis directive and tool permissions; the processing pipeline is shared.
type Role string

const (
	RoleResearch  Role = "research"
	RoleAnalysis  Role = "analysis"
	RoleWriting   Role = "writing"
	RoleTechnical Role = "technical"
	RoleGeneral   Role = "general"
)

// roleDirectives are the role-specific synthesis system prompts.
var roleDirectives = map[Role]string{
	RoleResearch:  "You are a research specialist. Gather relevant facts for the query, cite the tool findings you used, and present them as concise research notes.",
	RoleAnalysis:  "You are an analysis specialist. Examine the query and the available data, identify patterns and trends, and present clear insights.",
	RoleWriting:   "You are a writing specialist. Turn the query, context and findings into well-structured, readable prose.",
	RoleTechnical: "You are a technical specialist. Address implementation details precisely and include concrete technical steps where relevant.",
	RoleGeneral:   "You are a helpful assistant. Answer the query directly using the context and tool findings available.",
}

// roleDeniedTools restricts which tools a role may invoke. Selection results
// are filtered against this before execution.
var roleDeniedTools = map[Role][]string{
	RoleWriting: {"calculator"},
}

// Pipeline stages, recorded in logs and trace spans.
const (
	stageReceiveQuery    = "RECEIVE_QUERY"
	stageRetrieveContext = "RETRIEVE_CONTEXT"
	stageReason          = "REASON"
	stageSelectTools     = "SELECT_TOOLS"
	stageExecuteTools    = "EXECUTE_TOOLS"
	stageSynthesize      = "SYNTHESIZE_RESPONSE"
	stageDone            = "DONE"
	stageFailed          = "FAILED"
)

// SpecialistOptions configure a Specialist.
type SpecialistOptions struct {
	// Model is the synthesis provider. Nil switches synthesis into the
	// deterministic fallback path.
	Model model.Model

	// Memory supplies prior-turn context. Nil disables retrieval.
	Memory *memory.Store

	// ContextLimit caps the number of prior turns retrieved per step.
	ContextLimit int

	// SynthesisTimeout bounds the synthesis provider call.
	SynthesisTimeout time.Duration

	Tracer core.TracingSink
	Logger logging.Logger
}

// Specialist is one role-scoped processing unit. Each invocation runs the
// pipeline RECEIVE_QUERY through SYNTHESIZE_RESPONSE and ends in DONE or
// FAILED. Tool failures never fail the pipeline; they are recorded in the
// result and synthesis proceeds from whatever succeeded.
type Specialist struct {
	role             Role
	registry         *tool.Registry
	selector         *tool.Selector
	reasoner         *Reasoner
	model            model.Model
	memory           *memory.Store
	contextLimit     int
	synthesisTimeout time.Duration
	tracer           core.TracingSink
	logger           logging.Logger
}

// NewSpecialist constructs a specialist for role over the shared registry,
// selector and reasoner.
func NewSpecialist(
	role Role,
	registry *tool.Registry,
	selector *tool.Selector,
	reasoner *Reasoner,
	optFns ...func(o *SpecialistOptions),
) *Specialist {
	opts := SpecialistOptions{
		ContextLimit:     3,
		SynthesisTimeout: 30 * time.Second,
		Tracer:           core.NoOpTracingSink{},
		Logger:           logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Specialist{
		role:             role,
		registry:         registry,
		selector:         selector,
		reasoner:         reasoner,
		model:            opts.Model,
		memory:           opts.Memory,
		contextLimit:     opts.ContextLimit,
		synthesisTimeout: opts.SynthesisTimeout,
		tracer:           opts.Tracer,
		logger:           logging.OrNoOp(opts.Logger),
	}
}

// Role returns the specialist's role.
func (s *Specialist) Role() Role { return s.role }

// Name returns the specialist's name, which equals its role string.
func (s *Specialist) Name() string { return string(s.role) }

// Process runs one pipeline invocation for query with chainContext being the
// previous specialist's response ("" for the first). A non-nil error means
// the pipeline ended in FAILED; tool failures alone never cause that.
func (s *Specialist) Process(ctx context.Context, sessionID, query, chainContext string) (core.SpecialistResult, error) {
	start := time.Now()
	result := core.SpecialistResult{Specialist: s.Name()}

	span := core.Span{
		ID:     core.NewID(),
		Name:   "specialist." + s.Name(),
		Inputs: map[string]any{"query": query, "context": chainContext},
		Start:  start,
	}
	defer func() {
		span.Duration = time.Since(start)
		core.EmitSpan(s.tracer, span)
	}()

	s.logger.Debug("specialist.stage", "specialist", s.Name(), "stage", stageReceiveQuery)
	if err := ctx.Err(); err != nil {
		span.Error = err.Error()
		return result, s.failed(err)
	}

	s.logger.Debug("specialist.stage", "specialist", s.Name(), "stage", stageRetrieveContext)
	contextText := s.retrieveContext(sessionID, query, chainContext)

	s.logger.Debug("specialist.stage", "specialist", s.Name(), "stage", stageReason)
	analysis := s.reasoner.Analyze(ctx, query, contextText)

	s.logger.Debug("specialist.stage", "specialist", s.Name(), "stage", stageSelectTools)
	selected := s.permittedTools(s.selector.Select(query, analysis.ToolHints))

	s.logger.Debug("specialist.stage", "specialist", s.Name(), "stage", stageExecuteTools, "tools", strings.Join(selected, ","))
	result.ToolResults = s.executeTools(ctx, query, selected)
	if err := ctx.Err(); err != nil {
		span.Error = err.Error()
		return result, s.failed(err)
	}

	s.logger.Debug("specialist.stage", "specialist", s.Name(), "stage", stageSynthesize)
	result.Response = s.synthesize(ctx, query, contextText, analysis, result.ToolResults)
	result.ProcessingTime = time.Since(start)

	span.Outputs = map[string]any{"response": result.Response, "tools_used": result.ToolsUsed()}

	s.logger.Info("specialist.stage",
		"specialist", s.Name(), "stage", stageDone,
		"tools_used", strings.Join(result.ToolsUsed(), ","),
		"duration_ms", result.ProcessingTime.Milliseconds())

	return result, nil
}

func (s *Specialist) failed(err error) error {
	s.logger.Warn("specialist.stage", "specialist", s.Name(), "stage", stageFailed, "error", err.Error())
	return fmt.Errorf("specialist %s failed: %w", s.Name(), err)
}

// retrieveContext combines the chained context from the previous specialist
// with relevant prior turns from memory.
func (s *Specialist) retrieveContext(sessionID, query, chainContext string) string {
	var parts []string
	if chainContext != "" {
		parts = append(parts, chainContext)
	}
	if s.memory != nil {
		for _, turn := range s.memory.RelevantContext(sessionID, query, s.contextLimit) {
			parts = append(parts, fmt.Sprintf("Q: %s\nA: %s", turn.Query, turn.Response))
		}
	}
	return strings.Join(parts, "\n\n")
}

// permittedTools filters the selection against the role's denied tools.
func (s *Specialist) permittedTools(selected []string) []string {
	denied := roleDeniedTools[s.role]
	if len(denied) == 0 {
		return selected
	}
	var permitted []string
	for _, name := range selected {
		blocked := false
		for _, d := range denied {
			if name == d {
				blocked = true
				break
			}
		}
		if !blocked {
			permitted = append(permitted, name)
		}
	}
	return permitted
}

// executeTools dispatches the selected tools concurrently and merges results
// by tool name. The calculator receives the extracted arithmetic
// sub-expression rather than the raw query.
func (s *Specialist) executeTools(ctx context.Context, query string, selected []string) map[string]core.ToolInvocationResult {
	if len(selected) == 0 {
		return nil
	}

	results := make(map[string]core.ToolInvocationResult, len(selected))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range selected {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			input := toolInput(name, query)
			res, _ := s.registry.Execute(ctx, name, input)
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	return results
}

// toolInput derives the handler input for a tool from the query.
func toolInput(name, query string) string {
	if name == "calculator" {
		if expr := tool.ExtractExpression(query); expr != "" {
			return expr
		}
	}
	return query
}

// synthesize produces the role-scoped response, via the model when configured
// and via the deterministic template otherwise. Both paths return non-empty
// text.
func (s *Specialist) synthesize(ctx context.Context, query, contextText string, analysis core.ReasoningAnalysis, toolResults map[string]core.ToolInvocationResult) string {
	findings := formatFindings(toolResults)

	if s.model != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.synthesisTimeout)
		defer cancel()

		var sb strings.Builder
		fmt.Fprintf(&sb, "Query: %s\n", query)
		if contextText != "" {
			fmt.Fprintf(&sb, "\nContext:\n%s\n", contextText)
		}
		if findings != "" {
			fmt.Fprintf(&sb, "\nTool findings:\n%s\n", findings)
		}

		messages := []model.Message{
			model.System(roleDirectives[s.role]),
			model.User(sb.String()),
		}
		if text, err := s.model.Complete(callCtx, messages); err == nil && text != "" {
			return text
		} else if err != nil {
			s.logger.Warn("specialist.synthesize.fallback", "specialist", s.Name(), "error", err.Error())
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", s.Name(), analysis.Text)
	if findings != "" {
		fmt.Fprintf(&sb, "\nFindings:\n%s", findings)
	}
	return sb.String()
}

// formatFindings renders tool outputs as one line per tool in lexical name
// order; failed calls are noted but carry no output.
func formatFindings(toolResults map[string]core.ToolInvocationResult) string {
	if len(toolResults) == 0 {
		return ""
	}
	names := make([]string, 0, len(toolResults))
	for name := range toolResults {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		res := toolResults[name]
		if res.Failed() {
			lines = append(lines, fmt.Sprintf("- %s: unavailable (%s)", name, res.Err.Error()))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", name, formatOutput(res.Output)))
	}
	return strings.Join(lines, "\n")
}

// formatOutput renders a tool output value compactly; structured values are
// JSON-encoded so numeric results stay readable in the response text.
func formatOutput(output any) string {
	switch v := output.(type) {
	case nil:
		return "no output"
	case string:
		return v
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", v)
	}
}
