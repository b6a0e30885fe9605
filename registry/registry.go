package registry

import (
	"context"
	"fmt"
)

// Record describes a discoverable agent's identity and capabilities.
// Props carries arbitrary additional properties merged on update.
type Record struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Capabilities []string       `json:"capabilities"`
	Status       string         `json:"status"` // free-form, e.g. "active"/"inactive"
	Props        map[string]any `json:"props,omitempty"`
}

// Patch is a partial record applied by Update. Nil pointer fields are left
// unchanged; a nil Capabilities slice leaves capabilities unchanged while an
// empty one clears them. Props entries are merged onto the existing set.
type Patch struct {
	Name         *string        `json:"name,omitempty"`
	Type         *string        `json:"type,omitempty"`
	Status       *string        `json:"status,omitempty"`
	Capabilities []string       `json:"capabilities,omitempty"`
	Props        map[string]any `json:"props,omitempty"`
}

// Registry is the CRUD surface over the agent directory.
//
// Register is an upsert: it merges onto a matching record or creates one.
// Update never creates; it returns (nil, nil) for an unknown id.
type Registry interface {
	// Register upserts the record by id and returns the resulting record.
	Register(ctx context.Context, rec Record) (*Record, error)

	// Get returns the record or nil when the id is unknown. Absence is not
	// an error; the error return is reserved for store failures.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records. No pagination, no ordering guarantee beyond
	// the store default.
	List(ctx context.Context) ([]Record, error)

	// ListByCapability returns all records declaring the capability.
	ListByCapability(ctx context.Context, capability string) ([]Record, error)

	// Update merges the patch onto an existing record and returns the result,
	// or (nil, nil) when the id is unknown. It performs no write in that case.
	Update(ctx context.Context, id string, patch Patch) (*Record, error)

	// Remove deletes the record and all its capability edges. Removing an
	// unknown id succeeds silently.
	Remove(ctx context.Context, id string) error
}

// Error wraps any store-level failure with the operation that produced it.
type Error struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("registry %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }
