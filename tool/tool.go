// Package tool implements the capability subsystem: the Tool interface, the
// registry that executes named tools with uniform error wrapping and usage
// tracking, the built-in tools (calculator, clock, weather, web search) and
// the rule-table selector that maps queries to tool names.
package tool

import "context"

// Tool is a named external capability. Input is the already-extracted
// argument expression for the call (for the calculator the arithmetic
// sub-expression, for search the query text, and so on).
//
// Implementations must respect ctx cancellation; the registry bounds every
// call with a timeout. Tools must be safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case).
	Name() string

	// Description returns a human-readable description of what the tool does.
	Description() string

	// Parameters returns a minimal JSON-Schema-like description of the
	// expected input.
	Parameters() map[string]any

	// Call executes the tool against the supplied input.
	Call(ctx context.Context, input string) (any, error)
}

// Descriptor is an immutable snapshot of a registered tool's metadata.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Func adapts a plain Go function to the Tool interface.
type Func struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, input string) (any, error)
}

// NewFunc constructs a Func tool from explicit metadata and implementation.
func NewFunc(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, input string) (any, error),
) *Func {
	return &Func{name: name, description: description, parameters: parameters, fn: fn}
}

// Name implements Tool.
func (t *Func) Name() string { return t.name }

// Description implements Tool.
func (t *Func) Description() string { return t.description }

// Parameters implements Tool.
func (t *Func) Parameters() map[string]any { return t.parameters }

// Call implements Tool.
func (t *Func) Call(ctx context.Context, input string) (any, error) { return t.fn(ctx, input) }

// stringParameters is the shared schema shape for tools taking one string
// input.
func stringParameters(field, description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: map[string]any{"type": "string", "description": description},
		},
		"required": []string{field},
	}
}
