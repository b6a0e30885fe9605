// Package a2a exposes the agent-to-agent HTTP surface: task lifecycle routes
// backed by the orchestrator, agent directory routes backed by the registry,
// and a JSON-RPC endpoint whose envelopes are validated exhaustively before
// any method dispatch.
package a2a
