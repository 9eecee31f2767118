// Package autosave persists flow documents: a Store abstraction with SQLite
// and in-memory implementations, and a debounced per-flow save scheduler
// that absorbs bursty edits.
package autosave

import (
	"context"
	"errors"
	"time"

	"github.com/promptflow/promptflow/pkg/promptflow"
)

// Store errors.
var (
	// ErrNotFound indicates no flow exists with the given id.
	ErrNotFound = errors.New("flow not found")

	// ErrStoreClosed indicates an operation on a closed store.
	ErrStoreClosed = errors.New("store is closed")
)

// FlowRecord is the persisted shape of a flow. Execution runtime state
// (statuses, outputs, the running flag) is never part of it.
type FlowRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Nodes      []promptflow.Node `json:"nodes"`
	Edges      []promptflow.Edge `json:"edges"`
	ProviderID string            `json:"provider_id"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Store persists flow records keyed by flow id.
type Store interface {
	// Save upserts a record. The stored UpdatedAt is set to now; CreatedAt
	// of an existing record is preserved.
	Save(ctx context.Context, rec FlowRecord) error

	// Load returns the record for flowID, or ErrNotFound.
	Load(ctx context.Context, flowID string) (FlowRecord, error)

	// List returns all records, most recently updated first.
	List(ctx context.Context) ([]FlowRecord, error)

	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, flowID string) error

	// Close releases resources. Operations after Close fail.
	Close() error
}
