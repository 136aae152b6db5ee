// Package trace provides TracingSink implementations: a structured-log sink
// for operational visibility and an in-memory sink for tests and inspection.
package trace

import (
	"sync"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/logging"
)

// SlogSink writes one structured log line per span.
type SlogSink struct {
	logger logging.Logger
}

// NewSlogSink constructs a SlogSink over the given logger.
func NewSlogSink(logger logging.Logger) *SlogSink {
	return &SlogSink{logger: logging.OrNoOp(logger)}
}

// Record implements core.TracingSink.
func (s *SlogSink) Record(span core.Span) {
	s.logger.Info("trace.span",
		"span_id", span.ID,
		"run_id", span.RunID,
		"name", span.Name,
		"error", span.Error,
		"duration_ms", span.Duration.Milliseconds())
}

// MemorySink collects spans in memory. Safe for concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	spans []core.Span
}

// NewMemorySink constructs an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record implements core.TracingSink.
func (m *MemorySink) Record(span core.Span) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = append(m.spans, span)
}

// Spans returns a copy of all recorded spans in arrival order.
func (m *MemorySink) Spans() []core.Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Span, len(m.spans))
	copy(out, m.spans)
	return out
}

// ByRun returns the spans recorded for one run.
func (m *MemorySink) ByRun(runID string) []core.Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Span
	for _, span := range m.spans {
		if span.RunID == runID {
			out = append(out, span)
		}
	}
	return out
}

// Reset drops all recorded spans.
func (m *MemorySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = nil
}

var (
	_ core.TracingSink = (*SlogSink)(nil)
	_ core.TracingSink = (*MemorySink)(nil)
)
