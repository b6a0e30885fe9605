// Package envelope validates the JSON-RPC style message wrapper exchanged
// between agents. The envelope is the sole external protocol contract, so
// validation is exhaustive: every violation is collected and reported in one
// pass, never just the first, and no business payload is inspected.
package envelope
