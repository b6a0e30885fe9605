// Package core provides the foundational domain types shared by the
// orchestrator and its collaborators. It defines:
//
//   - Personas (named role definitions with declared capabilities)
//   - Sessions (a persona bound to an AI backend plus task/response history)
//   - RetryPolicy (bounded retry budget for task execution)
//   - Typed errors for caller misuse (unknown persona, session or binding)
//
// The package intentionally keeps implementation concerns (persistence,
// backend adapters, HTTP transport) out of scope, exposing small types so
// higher layers stay decoupled from each other.
package core
