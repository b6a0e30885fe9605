// Package backend contains concrete core.Backend implementations and the
// typed error surface backends are required to produce. The interface itself
// resides in the core package; select an implementation (Anthropic, OpenAI,
// or the Mock below) at wiring time.
//
// Providers implement core.Backend so higher layers (orchestrator, HTTP
// surface) remain decoupled from vendor SDKs.
package backend
