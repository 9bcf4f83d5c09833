package database

import (
	"context"
	"errors"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/driver"
)

// Statement is a prepared statement holding its own reference to the
// connection. It is reusable: every Execute starts a fresh cursor.
type Statement struct {
	query    string
	prepared driver.Prepared
	handle   *driver.Handle
	closed   bool
}

// Query returns the compiled text.
func (s *Statement) Query() string {
	return s.query
}

// Execute binds values positionally and runs the statement.
func (s *Statement) Execute(ctx context.Context, values ...column.Value) error {
	if s.closed {
		return ErrClosed
	}
	return s.prepared.Execute(ctx, values)
}

// Next returns the next row, or nil once the execution is exhausted.
// The Record is overwritten by the following Next.
func (s *Statement) Next() (driver.Record, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.prepared.Next()
}

// Collect reads the remaining rows of the current execution, copying each.
func (s *Statement) Collect() ([]driver.Record, error) {
	var rows []driver.Record
	for {
		rec, err := s.Next()
		if err != nil {
			return rows, err
		}
		if rec == nil {
			return rows, nil
		}
		rows = append(rows, rec.Clone())
	}
}

// Close releases the prepared statement and its connection reference.
// Further calls are no-ops.
func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.prepared.Close(), s.handle.Release())
}
