// Package model defines the language-model provider interface used by the
// reasoning and synthesis steps, plus a deterministic mock for tests. A nil
// Model anywhere in the engine switches that component into fallback mode
// rather than failing the request.
package model

import (
	"context"
	"fmt"
	"strings"
)

// Message is one chat message handed to a provider. Role is "system",
// "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System constructs a system message.
func System(content string) Message { return Message{Role: "system", Content: content} }

// User constructs a user message.
func User(content string) Message { return Message{Role: "user", Content: content} }

// Assistant constructs an assistant message.
func Assistant(content string) Message { return Message{Role: "assistant", Content: content} }

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the single-method completion interface required by the engine.
// Implementations must respect ctx cancellation and deadlines; the caller
// bounds every call with a timeout.
type Model interface {
	Complete(ctx context.Context, messages []Message) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model for tests and examples. Canned
// responses are keyed on the last user message; unmatched prompts get a
// generated echo response.
type MockModel struct {
	info      Info
	responses map[string]string
	calls     []string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a user prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Calls returns the user prompts seen so far, in order.
func (m *MockModel) Calls() []string { return m.calls }

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var last string
	for _, msg := range messages {
		if msg.Role == "user" {
			last = msg.Content
		}
	}
	m.calls = append(m.calls, last)
	if resp, ok := m.responses[last]; ok {
		return resp, nil
	}
	for prompt, resp := range m.responses {
		if strings.Contains(last, prompt) {
			return resp, nil
		}
	}
	return fmt.Sprintf("Mock response to: %s", last), nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
