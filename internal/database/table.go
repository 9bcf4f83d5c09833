package database

import (
	"context"
	"log/slog"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/driver"
	"github.com/roach88/tabula/internal/statement"
)

// Table is a client-side record of a table created through NewTable.
// It caches the name and columns it was created with and never re-reads
// the live schema.
type Table struct {
	name    string
	columns []column.Column
	create  string
	handle  *driver.Handle
	logger  *slog.Logger
}

// NewTable runs CREATE TABLE IF NOT EXISTS for name and columns and
// returns the cached description.
func NewTable(ctx context.Context, db *Database, name string, columns []column.Column) (*Table, error) {
	if db.handle.Released() {
		return nil, ErrClosed
	}

	create, err := statement.CreateTable().Name(name).IfNotExists().Columns(columns...).Compile()
	if err != nil {
		return nil, err
	}
	if err := executeQuery(ctx, db.handle, db.logger, create); err != nil {
		return nil, err
	}

	db.logger.Info("table ready", "table", name, "columns", len(columns))
	return &Table{
		name:    name,
		columns: append([]column.Column(nil), columns...),
		create:  create,
		handle:  db.handle.Clone(),
		logger:  db.logger,
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Columns returns a copy of the columns the table was created with.
func (t *Table) Columns() []column.Column {
	return append([]column.Column(nil), t.columns...)
}

// CreateQuery returns the CREATE TABLE text NewTable executed.
func (t *Table) CreateQuery() string {
	return t.create
}

// Select starts a SELECT over this table.
func (t *Table) Select() *statement.SelectBuilder {
	return statement.Select().Table(t.name)
}

// Insert starts an INSERT into this table over all its columns.
func (t *Table) Insert() *statement.InsertIntoBuilder {
	return statement.InsertInto().Table(t.name).Columns(column.Names(t.columns)...)
}

// Prepare compiles stmt on the table's connection.
func (t *Table) Prepare(ctx context.Context, stmt statement.Statement) (*Statement, error) {
	if t.handle.Released() {
		return nil, ErrClosed
	}
	return prepare(ctx, t.handle, t.logger, stmt)
}

// Close releases the table's connection reference.
func (t *Table) Close() error {
	return t.handle.Release()
}
