package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/logging"
	"github.com/agentfold/agentfold/model"
)

const reasonerDirective = `You are a reasoning assistant. Analyze the user's query and describe its intent, the information needed to answer it, and which capabilities (tools) would help. Do NOT answer the query itself; produce only the analysis.`

// ReasonerOptions configure a Reasoner.
type ReasonerOptions struct {
	// Model is the analysis provider. Nil switches the reasoner into its
	// deterministic fallback mode.
	Model model.Model

	// Timeout bounds each provider call.
	Timeout time.Duration

	Logger logging.Logger
}

// Reasoner produces a ReasoningAnalysis for a query: intent text plus
// candidate tool hints. The text is an analysis, never an answer, so the tool
// selector sees unbiased capability signals. Tool hints always come from the
// deterministic keyword scan regardless of provider, keeping the degraded
// mode self-consistent with the live one.
type Reasoner struct {
	scan    func(query string) []string
	model   model.Model
	timeout time.Duration
	logger  logging.Logger
}

// NewReasoner constructs a Reasoner over the given keyword scan, typically
// (*tool.Selector).Scan.
func NewReasoner(scan func(query string) []string, optFns ...func(o *ReasonerOptions)) *Reasoner {
	opts := ReasonerOptions{
		Timeout: 15 * time.Second,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reasoner{
		scan:    scan,
		model:   opts.Model,
		timeout: opts.Timeout,
		logger:  logging.OrNoOp(opts.Logger),
	}
}

// Analyze produces the reasoning analysis for query given the accumulated
// context. Provider failures degrade to the deterministic fallback analysis;
// Analyze itself never fails.
func (r *Reasoner) Analyze(ctx context.Context, query, contextText string) core.ReasoningAnalysis {
	hints := r.scan(query)

	if r.model == nil {
		return r.fallback(query, hints)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	messages := []model.Message{model.System(reasonerDirective)}
	if contextText != "" {
		messages = append(messages, model.System("Prior context:\n"+contextText))
	}
	messages = append(messages, model.User(query))

	text, err := r.model.Complete(callCtx, messages)
	if err != nil {
		r.logger.Warn("reasoner.fallback", "error", err.Error())
		return r.fallback(query, hints)
	}

	return core.ReasoningAnalysis{
		Text:      text,
		ToolHints: hints,
		Provider:  r.model.Info().Provider,
	}
}

// fallback builds a template analysis from the keyword scan alone.
func (r *Reasoner) fallback(query string, hints []string) core.ReasoningAnalysis {
	var text string
	if len(hints) > 0 {
		text = fmt.Sprintf("The query %q likely requires the following capabilities: %s.",
			query, strings.Join(hints, ", "))
	} else {
		text = fmt.Sprintf("The query %q requires no external capabilities; it can be addressed from reasoning and prior context alone.", query)
	}
	return core.ReasoningAnalysis{
		Text:      text,
		ToolHints: hints,
		Provider:  "fallback",
	}
}
