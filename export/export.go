// Package export provides TrainingDataSink implementations for persisting
// per-run training records: a JSONL file writer and an in-memory collector.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/agentfold/agentfold/core"
)

// JSONLSink appends one JSON line per training record to a file. Writes are
// serialized; the file is created on first use and flushed per record so a
// crash loses at most the in-flight line.
type JSONLSink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewJSONLSink constructs a sink writing to path. The file is opened lazily
// on the first Record call.
func NewJSONLSink(path string) *JSONLSink {
	return &JSONLSink{path: path}
}

// Record implements core.TrainingDataSink.
func (s *JSONLSink) Record(rec core.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open training data file: %w", err)
		}
		s.file = f
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode training record: %w", err)
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write training record: %w", err)
	}
	return nil
}

// Close closes the underlying file if one was opened.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// MemorySink collects training records in memory. Safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	records []core.TrainingRecord
}

// NewMemorySink constructs an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record implements core.TrainingDataSink.
func (m *MemorySink) Record(rec core.TrainingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of all collected records in arrival order.
func (m *MemorySink) Records() []core.TrainingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.TrainingRecord, len(m.records))
	copy(out, m.records)
	return out
}

var (
	_ core.TrainingDataSink = (*JSONLSink)(nil)
	_ core.TrainingDataSink = (*MemorySink)(nil)
)
