package core

import (
	"fmt"
	"time"
)

// Error taxonomy shared across component boundaries.
//
// Tool and provider failures are caught at the specialist step boundary and
// recorded in results; they never propagate to the coordinator's caller.
// Only startup configuration errors are fatal.

// DuplicateToolError is returned when registering a tool whose name is
// already present in the registry. The failed registration leaves the
// registry unchanged.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// UnknownToolError is returned when executing a tool name that was never
// registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool %q is not registered", e.Name)
}

// InvalidExpressionError is returned by the calculator when its input is not
// a pure arithmetic expression. Rejecting anything outside the arithmetic
// character set is what keeps the calculator from evaluating arbitrary input.
type InvalidExpressionError struct {
	Expression string
	Reason     string
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", e.Expression, e.Reason)
}

// ToolExecutionError wraps any failure raised by a tool handler so callers
// see a single error type regardless of what the handler returned or
// panicked with.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

// Unwrap exposes the handler failure for errors.Is / errors.As.
func (e *ToolExecutionError) Unwrap() error { return e.Err }

// ProviderTimeoutError indicates an external capability call exceeded its
// deadline. It is treated as a step failure, never as a crash.
type ProviderTimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *ProviderTimeoutError) Error() string {
	return fmt.Sprintf("provider %q timed out after %s", e.Provider, e.Timeout)
}

// ProviderUnavailableError indicates an external provider is not configured
// or not reachable. Components receiving it switch into deterministic
// fallback mode instead of failing the request.
type ProviderUnavailableError struct {
	Provider string
	Reason   string
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %q unavailable: %s", e.Provider, e.Reason)
}
