// Package agent implements the orchestration layer: the Reasoner that turns a
// query into an intent analysis, role-scoped Specialists that execute the
// reason/select/execute/synthesize pipeline, and the Coordinator that chains
// specialists sequentially and folds their outputs into one final response.
//
// Every component degrades deterministically when no language model provider
// is configured; a missing provider is fallback mode, never an error.
package agent
