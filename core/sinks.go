package core

import "time"

// Span is one nested call record emitted per orchestration step: component
// method name, inputs, outputs and timing. Spans form a tree through
// ParentID.
type Span struct {
	ID       string         `json:"id"`
	ParentID string         `json:"parent_id,omitempty"`
	RunID    string         `json:"run_id"`
	Name     string         `json:"name"`
	Inputs   map[string]any `json:"inputs,omitempty"`
	Outputs  map[string]any `json:"outputs,omitempty"`
	Error    string         `json:"error,omitempty"`
	Start    time.Time      `json:"start"`
	Duration time.Duration  `json:"duration"`
}

// TracingSink receives span records. Implementations must return quickly;
// the engine treats tracing as fire-and-forget and a sink can never fail or
// block an orchestration run (see EmitSpan).
type TracingSink interface {
	Record(span Span)
}

// NoOpTracingSink discards all spans.
type NoOpTracingSink struct{}

// Record implements TracingSink.
func (NoOpTracingSink) Record(Span) {}

// EmitSpan delivers a span to the sink, swallowing panics so a misbehaving
// sink cannot take down the run. A nil sink is a no-op.
func EmitSpan(sink TracingSink, span Span) {
	if sink == nil {
		return
	}
	defer func() { _ = recover() }()
	sink.Record(span)
}

// TrainingRecord is the per-run record optionally handed to a
// TrainingDataSink for later export as fine-tuning data.
type TrainingRecord struct {
	Query          string    `json:"query"`
	Response       string    `json:"response"`
	ToolsUsed      []string  `json:"tools_used,omitempty"`
	ProcessingTime float64   `json:"processing_time"`
	Timestamp      time.Time `json:"timestamp"`
}

// TrainingDataSink receives one record per completed run. Failures are
// logged by the caller and never propagated into the orchestration result.
type TrainingDataSink interface {
	Record(rec TrainingRecord) error
}

// NoOpTrainingSink discards all records.
type NoOpTrainingSink struct{}

// Record implements TrainingDataSink.
func (NoOpTrainingSink) Record(TrainingRecord) error { return nil }
