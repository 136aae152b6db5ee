package tool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/logging"
)

// Stats is a snapshot of one tool's usage counters.
type Stats struct {
	Description string  `json:"description"`
	Calls       int64   `json:"calls"`
	Successes   int64   `json:"successes"`
	Failures    int64   `json:"failures"`
	SuccessRate float64 `json:"success_rate"`
	LastError   string  `json:"last_error,omitempty"`
}

type entry struct {
	tool      Tool
	calls     atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64
	lastErr   atomic.Value // string
}

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// CallTimeout bounds every tool execution. A call exceeding it fails
	// with a wrapped ProviderTimeoutError instead of blocking the run.
	CallTimeout time.Duration
	Logger      logging.Logger
}

// Registry holds the process-scoped mapping from tool name to capability.
// It is explicitly constructed and injected into specialists; there is no
// ambient singleton. Registration order is preserved and defines the
// execution order the selector reports. Safe for concurrent use; the usage
// counters are atomic.
type Registry struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	order       []string
	callTimeout time.Duration
	logger      logging.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		CallTimeout: 10 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		entries:     make(map[string]*entry),
		callTimeout: opts.CallTimeout,
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// Register adds a tool under its name. Registering a duplicate name fails
// with *core.DuplicateToolError and leaves the registry unchanged.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.entries[name]; exists {
		return &core.DuplicateToolError{Name: name}
	}
	r.entries[name] = &entry{tool: t}
	r.order = append(r.order, name)

	r.logger.Debug("tool.registered", "tool", name)

	return nil
}

// MustRegister registers t and panics on failure. Tool wiring happens once
// at startup where a duplicate name is a configuration error, which is the
// one class of failure allowed to be fatal.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Execute runs the named tool against input. The returned result always
// carries the tool name and input; on failure its Err field is set to the
// same error Execute returns. Handler failures (including panics and
// timeouts) are wrapped in *core.ToolExecutionError, never surfaced as their
// raw type. Unknown names fail with *core.UnknownToolError.
func (r *Registry) Execute(ctx context.Context, name, input string) (core.ToolInvocationResult, error) {
	result := core.ToolInvocationResult{ToolName: name, Input: input}

	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		result.Err = &core.UnknownToolError{Name: name}
		return result, result.Err
	}

	e.calls.Add(1)
	r.logger.Debug("tool.execute.start", "tool", name, "input", input)

	start := time.Now()
	output, err := r.callBounded(ctx, e.tool, input)
	result.Duration = time.Since(start)

	if err != nil {
		wrapped := &core.ToolExecutionError{Tool: name, Err: err}
		e.failures.Add(1)
		e.lastErr.Store(wrapped.Error())
		result.Err = wrapped

		r.logger.Warn("tool.execute.failed",
			"tool", name, "duration_ms", result.Duration.Milliseconds(), "error", err.Error())

		return result, wrapped
	}

	e.successes.Add(1)
	result.Output = output

	r.logger.Info("tool.execute.success",
		"tool", name, "duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// callBounded runs the tool under the registry call timeout with panic
// recovery, so a stuck or misbehaving handler becomes a step failure rather
// than a hung or crashed run.
func (r *Registry) callBounded(ctx context.Context, t Tool, input string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	type outcome struct {
		output any
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		output, err := t.Call(ctx, input)
		done <- outcome{output: output, err: err}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &core.ProviderTimeoutError{Provider: t.Name(), Timeout: r.callTimeout}
		}
		return nil, ctx.Err()
	case out := <-done:
		return out.output, out.err
	}
}

// Has reports whether a tool name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// List returns descriptor snapshots in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descs := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.entries[name].tool
		descs = append(descs, Descriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return descs
}

// GetStats returns a usage snapshot per tool.
func (r *Registry) GetStats() map[string]Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := make(map[string]Stats, len(r.entries))
	for name, e := range r.entries {
		calls := e.calls.Load()
		s := Stats{
			Description: e.tool.Description(),
			Calls:       calls,
			Successes:   e.successes.Load(),
			Failures:    e.failures.Load(),
		}
		if calls > 0 {
			s.SuccessRate = float64(s.Successes) / float64(calls)
		}
		if lastErr, ok := e.lastErr.Load().(string); ok {
			s.LastError = lastErr
		}
		stats[name] = s
	}
	return stats
}
