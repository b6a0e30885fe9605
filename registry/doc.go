// Package registry persists and queries agent records: the discoverable
// directory of agent identities and capabilities, distinct from live
// orchestrator sessions.
//
// Records form a small property graph (agent nodes with capability edges)
// stored in SQLite. Every operation is a single transaction acquired at the
// start of the call and released on every exit path. Store failures surface
// to the caller as a typed *Error; no retry happens at this layer.
package registry
