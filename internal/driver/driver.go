package driver

import (
	"context"

	"github.com/roach88/tabula/internal/column"
)

// Driver opens connections to one kind of storage backend.
type Driver interface {
	// Connect opens or creates the store at location.
	Connect(ctx context.Context, location string) (Connection, error)
}

// Connection is an open store.
type Connection interface {
	// Execute runs query without parameters, discarding any rows.
	Execute(ctx context.Context, query string) error

	// Prepare compiles query once into a reusable statement.
	Prepare(ctx context.Context, query string) (Prepared, error)

	// Close releases the backend connection.
	Close() error
}

// Prepared is a backend-compiled statement.
type Prepared interface {
	// Execute resets any previous cursor, binds values positionally and
	// runs the statement. The value count must equal the placeholder count.
	Execute(ctx context.Context, values []column.Value) error

	// Next returns the next row of the current execution, or nil once
	// exhausted. The returned Record is overwritten by the following Next.
	Next() (Record, error)

	// Close releases the backend statement.
	Close() error
}

// Record is one result row, indexed by zero-based column position.
// It is valid until the next cursor advance; use Clone to retain it.
type Record []column.Value

// Clone returns a copy of r that survives further Next calls.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for i, v := range r {
		out[i] = column.Clone(v)
	}
	return out
}
