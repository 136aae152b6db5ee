// Package agentfold provides a high-level façade over the orchestration
// engine: the coordinator, role specialists, tool registry, conversation
// memory and evaluation. Most applications interact with this package by:
//  1. Creating an AgentFold via New() (optionally supplying a language model
//     provider, live search/weather providers, and sinks)
//  2. Processing queries with Process or ProcessAsync
//  3. Optionally scoring completed runs with Evaluate
//
// All defaults are safe for local development: without a model provider the
// engine runs in deterministic fallback mode, and the search and weather
// tools use simulated providers.
package agentfold

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agentfold/agentfold/agent"
	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/evaluation"
	"github.com/agentfold/agentfold/logging"
	"github.com/agentfold/agentfold/memory"
	"github.com/agentfold/agentfold/model"
	"github.com/agentfold/agentfold/search"
	"github.com/agentfold/agentfold/tool"
	"github.com/agentfold/agentfold/weather"
)

// Options configures the AgentFold instance.
type Options struct {
	// Model is the language model provider used for reasoning and
	// synthesis. Nil switches the whole engine into deterministic
	// fallback mode; it never causes a failure.
	Model model.Model

	// SearchProvider backs the web_search tool (defaults to simulated).
	SearchProvider search.Provider

	// WeatherProvider backs the weather tool (defaults to simulated).
	WeatherProvider weather.Provider

	// MemoryMode selects the context retrieval policy.
	MemoryMode memory.RetrievalMode

	// ContextLimit caps prior turns retrieved per specialist step.
	ContextLimit int

	// ToolTimeout bounds each tool execution.
	ToolTimeout time.Duration

	// Tracer receives a span per orchestration step (fire-and-forget).
	Tracer core.TracingSink

	// Training receives one record per completed run.
	Training core.TrainingDataSink

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentFold is the high-level façade aggregating the coordinator and the
// services it depends on. Public methods are safe for concurrent use;
// independent runs may execute concurrently.
type AgentFold struct {
	registry    *tool.Registry
	selector    *tool.Selector
	memory      *memory.Store
	coordinator *agent.Coordinator
	evaluator   *evaluation.Evaluator
	logger      logging.Logger

	mu         sync.Mutex
	activeRuns map[string]context.CancelFunc
}

// New creates an AgentFold instance with optional overrides. Any unset
// collaborator gets a safe in-process default.
func New(optFns ...func(o *Options)) *AgentFold {
	opts := Options{
		SearchProvider:  search.NewSimulated(),
		WeatherProvider: weather.NewSimulated(),
		MemoryMode:      memory.Recency,
		ContextLimit:    3,
		ToolTimeout:     10 * time.Second,
		Tracer:          core.NoOpTracingSink{},
		Training:        core.NoOpTrainingSink{},
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.CallTimeout = opts.ToolTimeout
		o.Logger = logger
	})
	registry.MustRegister(tool.NewWebSearch(opts.SearchProvider))
	registry.MustRegister(tool.NewCalculator())
	registry.MustRegister(tool.NewWeather(opts.WeatherProvider))
	registry.MustRegister(tool.NewClock())

	selector := tool.NewSelector(registry)

	store := memory.NewStore(func(o *memory.StoreOptions) {
		o.Mode = opts.MemoryMode
		o.Logger = logger
	})

	reasoner := agent.NewReasoner(selector.Scan, func(o *agent.ReasonerOptions) {
		o.Model = opts.Model
		o.Logger = logger
	})

	roles := []agent.Role{
		agent.RoleResearch,
		agent.RoleAnalysis,
		agent.RoleWriting,
		agent.RoleTechnical,
		agent.RoleGeneral,
	}
	specialists := make([]*agent.Specialist, 0, len(roles))
	for _, role := range roles {
		specialists = append(specialists, agent.NewSpecialist(role, registry, selector, reasoner,
			func(o *agent.SpecialistOptions) {
				o.Model = opts.Model
				o.Memory = store
				o.ContextLimit = opts.ContextLimit
				o.Tracer = opts.Tracer
				o.Logger = logger
			}))
	}

	coordinator := agent.NewCoordinator(specialists, func(o *agent.CoordinatorOptions) {
		o.Model = opts.Model
		o.Memory = store
		o.Training = opts.Training
		o.Tracer = opts.Tracer
		o.Logger = logger
	})

	return &AgentFold{
		registry:    registry,
		selector:    selector,
		memory:      store,
		coordinator: coordinator,
		evaluator:   evaluation.NewEvaluator(selector.Scan, func(o *evaluation.Options) {
			o.Logger = logger
		}),
		logger:     logger,
		activeRuns: make(map[string]context.CancelFunc),
	}
}

// Process runs one orchestration for query within the session and blocks
// until it completes. It always returns a well-formed result with a
// non-empty final response; operational failures are recorded in the
// result's Errors.
func (a *AgentFold) Process(ctx context.Context, sessionID, query string) core.OrchestrationResult {
	runID := core.NewID()

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.activeRuns[runID] = cancel
	a.mu.Unlock()
	defer func() {
		cancel()
		a.mu.Lock()
		delete(a.activeRuns, runID)
		a.mu.Unlock()
	}()

	return a.coordinator.CoordinateRun(ctx, runID, sessionID, query)
}

// ProcessAsync starts an orchestration run and returns its run ID plus a
// channel delivering the single result. The run can be aborted with Cancel
// between specialist steps.
func (a *AgentFold) ProcessAsync(ctx context.Context, sessionID, query string) (string, <-chan core.OrchestrationResult) {
	runID := core.NewID()

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.activeRuns[runID] = cancel
	a.mu.Unlock()

	results := make(chan core.OrchestrationResult, 1)
	go func() {
		defer func() {
			cancel()
			a.mu.Lock()
			delete(a.activeRuns, runID)
			a.mu.Unlock()
			close(results)
		}()
		results <- a.coordinator.CoordinateRun(ctx, runID, sessionID, query)
	}()

	return runID, results
}

// Cancel aborts an in-flight run by ID. The run still yields a well-formed,
// degraded result.
func (a *AgentFold) Cancel(runID string) error {
	a.mu.Lock()
	cancel, exists := a.activeRuns[runID]
	a.mu.Unlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}
	cancel()
	return nil
}

// Evaluate scores a completed run.
func (a *AgentFold) Evaluate(query string, result core.OrchestrationResult) evaluation.Scorecard {
	return a.evaluator.Evaluate(query, result)
}

// Analyze exposes the coordinator's routing decision for a query without
// running it.
func (a *AgentFold) Analyze(query string) core.TaskAnalysis {
	return a.coordinator.Analyze(query)
}

// Tools returns descriptor snapshots of the registered tools in
// registration order.
func (a *AgentFold) Tools() []tool.Descriptor {
	return a.registry.List()
}

// ToolStats returns the per-tool usage counters.
func (a *AgentFold) ToolStats() map[string]tool.Stats {
	return a.registry.GetStats()
}

// History returns the session's conversation turns, oldest first.
func (a *AgentFold) History(sessionID string) []core.ConversationTurn {
	return a.memory.Turns(sessionID)
}
