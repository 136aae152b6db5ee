// Package memory provides the conversation memory store: an append-only,
// session-scoped log of conversation turns with recency-based and
// lexical-overlap-based context retrieval.
package memory

import (
	"sort"
	"sync"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/internal/textutil"
	"github.com/agentfold/agentfold/logging"
)

// RetrievalMode selects how RelevantContext picks prior turns.
type RetrievalMode int

const (
	// Recency returns the most recent turns, oldest first.
	Recency RetrievalMode = iota

	// Semantic scores turns by lexical overlap with the query and returns
	// the best matches. When nothing overlaps it falls back to Recency.
	Semantic
)

// StoreOptions configure a Store.
type StoreOptions struct {
	Mode   RetrievalMode
	Logger logging.Logger
}

// Store is a process-local conversation memory. Turns are appended once per
// completed interaction and never mutated afterward; there is no internal
// eviction, retention is a collaborator's responsibility.
//
// Concurrency: protected by RWMutex, so appends are serialized and retrieval
// may run concurrently. Retrieval is a linear scan; swap for an indexed or
// vector-backed store for production-scale retrieval.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]core.ConversationTurn
	mode     RetrievalMode
	logger   logging.Logger
}

// NewStore creates an empty Store in Recency mode unless overridden.
func NewStore(optFns ...func(o *StoreOptions)) *Store {
	opts := StoreOptions{
		Mode:   Recency,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		sessions: make(map[string][]core.ConversationTurn),
		mode:     opts.Mode,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Append records a completed turn for the session.
func (s *Store) Append(sessionID string, turn core.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID], turn)

	s.logger.Debug("memory.append", "session_id", sessionID, "turns", len(s.sessions[sessionID]))
}

// RelevantContext returns up to limit prior turns for the session judged
// relevant to query. In Recency mode these are the most recent turns in
// chronological order. In Semantic mode turns are scored by token overlap
// between the query and the turn's query and response text; only positive
// scores qualify, ordered best first with ties going to the more recent turn.
// A semantic scan with no positive score degrades to the recency result.
func (s *Store) RelevantContext(sessionID, query string, limit int) []core.ConversationTurn {
	if limit <= 0 {
		return nil
	}

	s.mu.RLock()
	turns := s.sessions[sessionID]
	s.mu.RUnlock()

	if len(turns) == 0 {
		return nil
	}

	if s.mode == Semantic {
		if matched := semanticMatches(turns, query, limit); len(matched) > 0 {
			return matched
		}
	}

	start := len(turns) - limit
	if start < 0 {
		start = 0
	}
	recent := make([]core.ConversationTurn, len(turns)-start)
	copy(recent, turns[start:])
	return recent
}

func semanticMatches(turns []core.ConversationTurn, query string, limit int) []core.ConversationTurn {
	type scored struct {
		turn  core.ConversationTurn
		score float64
		index int
	}

	var candidates []scored
	for i, turn := range turns {
		score := textutil.Overlap(query, turn.Query+" "+turn.Response)
		if score > 0 {
			candidates = append(candidates, scored{turn: turn, score: score, index: i})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].index > candidates[j].index
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	matched := make([]core.ConversationTurn, len(candidates))
	for i, c := range candidates {
		matched[i] = c.turn
	}
	return matched
}

// Turns returns a copy of the session's full turn history, oldest first.
func (s *Store) Turns(sessionID string) []core.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]core.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the number of turns stored for the session.
func (s *Store) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sessionID])
}

// Stats returns the turn count per session.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int, len(s.sessions))
	for sessionID, turns := range s.sessions {
		stats[sessionID] = len(turns)
	}
	return stats
}
