package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/driver"
)

// Statement is a driver.Prepared backed by a *sql.Stmt.
//
// Execute pre-fetches the first row so an execution that yields nothing
// is Done immediately. Column variants are decided on the first row of
// each execution and the Record buffer is reused until the next Execute.
type Statement struct {
	query  string
	stmt   *sql.Stmt
	params int

	rows   *sql.Rows
	hasRow bool
	err    error

	kinds  []column.Type
	cells  []any
	dest   []any
	record driver.Record
}

// Execute implements driver.Prepared.
func (s *Statement) Execute(ctx context.Context, values []column.Value) error {
	if err := s.reset(); err != nil {
		return err
	}

	if len(values) != s.params {
		return driver.Errorf(driver.KindBind, s.query,
			"statement expects %d values, got %d", s.params, len(values))
	}

	args := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			return driver.Errorf(driver.KindBind, s.query, "value %d is nil", i+1)
		}
		var b binder
		if err := v.Accept(&b); err != nil {
			return driver.NewError(driver.KindBind, s.query, fmt.Errorf("value %d: %w", i+1, err))
		}
		args[i] = b.arg
	}

	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return driver.NewError(driver.KindExec, s.query, err)
	}

	s.rows = rows
	s.hasRow = rows.Next()
	if !s.hasRow {
		err := rows.Err()
		s.closeRows()
		if err != nil {
			return driver.NewError(driver.KindExec, s.query, err)
		}
	}
	return nil
}

// Next implements driver.Prepared.
func (s *Statement) Next() (driver.Record, error) {
	if !s.hasRow {
		err := s.err
		s.err = nil
		return nil, err
	}

	if s.record == nil {
		if err := s.describe(); err != nil {
			return nil, err
		}
	}

	if err := s.rows.Scan(s.dest...); err != nil {
		return nil, s.fail(err)
	}

	if s.kinds == nil {
		if err := s.inferKinds(); err != nil {
			return nil, s.fail(err)
		}
	}

	for i, cell := range s.cells {
		v, err := column.Convert(cell, s.kinds[i])
		if err != nil {
			return nil, s.fail(fmt.Errorf("column %d: %w", i, err))
		}
		s.record[i] = v
	}

	s.hasRow = s.rows.Next()
	if !s.hasRow {
		if err := s.rows.Err(); err != nil {
			s.err = driver.NewError(driver.KindRead, s.query, err)
		}
		s.closeRows()
	}
	return s.record, nil
}

// Close implements driver.Prepared.
func (s *Statement) Close() error {
	return errors.Join(s.reset(), s.stmt.Close())
}

// Query returns the compiled text this statement was prepared from.
func (s *Statement) Query() string {
	return s.query
}

// reset drops the cursor of the previous execution.
func (s *Statement) reset() error {
	s.hasRow = false
	s.err = nil
	s.kinds = nil
	s.cells = nil
	s.dest = nil
	s.record = nil
	if s.rows == nil {
		return nil
	}
	err := s.rows.Close()
	s.rows = nil
	if err != nil {
		return driver.NewError(driver.KindRead, s.query, err)
	}
	return nil
}

func (s *Statement) closeRows() {
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}
}

// fail ends the execution after a read error.
func (s *Statement) fail(err error) error {
	s.hasRow = false
	s.closeRows()
	return driver.NewError(driver.KindRead, s.query, err)
}

// describe allocates the scan buffers and reads the declared column types.
// Columns without a usable declared type are inferred from the first row.
func (s *Statement) describe() error {
	types, err := s.rows.ColumnTypes()
	if err != nil {
		return s.fail(err)
	}

	n := len(types)
	s.cells = make([]any, n)
	s.dest = make([]any, n)
	for i := range s.cells {
		s.dest[i] = &s.cells[i]
	}
	s.record = make(driver.Record, n)

	kinds := make([]column.Type, n)
	for i, ct := range types {
		kind, ok := Affinity(ct.DatabaseTypeName())
		if !ok {
			return nil
		}
		kinds[i] = kind
	}
	s.kinds = kinds
	return nil
}

func (s *Statement) inferKinds() error {
	types, err := s.rows.ColumnTypes()
	if err != nil {
		return err
	}
	kinds := make([]column.Type, len(s.cells))
	for i, cell := range s.cells {
		if kind, ok := Affinity(types[i].DatabaseTypeName()); ok {
			kinds[i] = kind
			continue
		}
		kind, err := column.TypeOf(cell)
		if err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		kinds[i] = kind
	}
	s.kinds = kinds
	return nil
}

// Affinity maps a backend-declared column type name to a column type,
// following SQLite's affinity rules:
//   - a name containing INT is an integer
//   - CHAR, CLOB or TEXT is a string
//   - BLOB or BINARY is binary
//   - REAL, FLOA or DOUB is a float
//
// ok is false for an empty or unrecognized name.
func Affinity(declared string) (kind column.Type, ok bool) {
	name := strings.ToUpper(declared)
	switch {
	case name == "":
		return 0, false
	case strings.Contains(name, "INT"):
		return column.Integer, true
	case strings.Contains(name, "CHAR"), strings.Contains(name, "CLOB"), strings.Contains(name, "TEXT"):
		return column.String, true
	case strings.Contains(name, "BLOB"), strings.Contains(name, "BINARY"):
		return column.Binary, true
	case strings.Contains(name, "REAL"), strings.Contains(name, "FLOA"), strings.Contains(name, "DOUB"):
		return column.Float, true
	default:
		return 0, false
	}
}

// binder converts a Value into a database/sql argument.
type binder struct {
	arg any
}

func (b *binder) VisitBinary(v []byte) error {
	if v == nil {
		// a nil slice binds as NULL
		v = []byte{}
	}
	b.arg = v
	return nil
}

func (b *binder) VisitFloat(v float64) error {
	b.arg = v
	return nil
}

func (b *binder) VisitInteger(v int64) error {
	b.arg = v
	return nil
}

func (b *binder) VisitString(v string) error {
	b.arg = v
	return nil
}

var _ driver.Prepared = (*Statement)(nil)
