// Package core contains the shared data model of the orchestration engine:
// the record types that flow between coordinator, specialists, tools and
// memory, the error taxonomy used across component boundaries, and the
// collaborator interfaces (tracing and training-data sinks) the engine emits
// into without depending on any concrete backend.
//
// Nothing in this package performs I/O; it exists so the higher-level
// packages (agent, tool, memory, evaluation) can exchange values without
// importing each other.
package core
