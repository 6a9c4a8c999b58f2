package record

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for the requested kind
// and ID.
var ErrNotFound = errors.New("record not found")

// ErrRecordUnavailable wraps backend failures of durable stores.
var ErrRecordUnavailable = errors.New("record store unavailable")

// Record is one committed document in the system of record.
type Record struct {
	ID        string
	Kind      string
	OwnerID   string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the durable commit surface. Every mutation must be durable
// before the call returns.
type Store interface {
	// Create persists a new record and returns it with its assigned ID
	// and timestamps filled in.
	Create(ctx context.Context, kind, ownerID string, fields map[string]any) (*Record, error)

	// Get returns the record, or ErrNotFound.
	Get(ctx context.Context, kind, id string) (*Record, error)

	// Update replaces the record's fields and bumps UpdatedAt. Returns
	// ErrNotFound if the record does not exist.
	Update(ctx context.Context, kind, id string, fields map[string]any) (*Record, error)

	// Delete removes the record. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, kind, id string) error

	// ListByOwner returns the owner's records of the kind, newest first.
	ListByOwner(ctx context.Context, kind, ownerID string) ([]*Record, error)

	// Close releases backend resources.
	Close() error
}
