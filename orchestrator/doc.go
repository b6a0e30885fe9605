// Package orchestrator drives persona sessions through ordered task batches
// with bounded retry and partial-failure recovery.
//
// The Orchestrator owns the table of active sessions, each pairing a persona
// from the catalog with the backend bound to it. Tasks within one batch run
// strictly sequentially; a task that exhausts its retry budget is logged and
// skipped without aborting the rest of the batch. Different sessions execute
// independently and concurrently; only the shared session table is locked,
// and each session carries its own lock.
//
// Submit/Cancel wrap the sequential loop in a tracked, cancellable run so an
// HTTP surface can expose task lifecycle operations.
package orchestrator
