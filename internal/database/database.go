package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/tabula/internal/driver"
	"github.com/roach88/tabula/internal/statement"
)

// ErrClosed is returned by operations on a closed Database, Table or Writer.
var ErrClosed = errors.New("database: closed")

// Database is an open connection with compile-and-run helpers.
type Database struct {
	handle *driver.Handle
	logger *slog.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used by the database and everything derived
// from it. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(db *Database) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// Open connects d to location.
func Open(ctx context.Context, d driver.Driver, location string, opts ...Option) (*Database, error) {
	conn, err := d.Connect(ctx, location)
	if err != nil {
		return nil, err
	}

	db := &Database{
		handle: driver.Share(conn),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}

	db.logger.Debug("database opened", "location", location)
	return db, nil
}

// OpenNamed connects the registered driver called name to location.
func OpenNamed(ctx context.Context, name, location string, opts ...Option) (*Database, error) {
	d, err := driver.Lookup(name)
	if err != nil {
		return nil, driver.NewError(driver.KindConnect, "", err)
	}
	return Open(ctx, d, location, opts...)
}

// Execute compiles stmt and runs it without parameters.
func (db *Database) Execute(ctx context.Context, stmt statement.Statement) error {
	if db.handle.Released() {
		return ErrClosed
	}
	return execute(ctx, db.handle, db.logger, stmt)
}

// Prepare compiles stmt into a reusable prepared Statement.
func (db *Database) Prepare(ctx context.Context, stmt statement.Statement) (*Statement, error) {
	if db.handle.Released() {
		return nil, ErrClosed
	}
	return prepare(ctx, db.handle, db.logger, stmt)
}

// Logger returns the database logger.
func (db *Database) Logger() *slog.Logger {
	return db.logger
}

// Close releases the database's hold on the connection. The connection
// closes once every derived Statement, Table and Writer is closed too.
func (db *Database) Close() error {
	return db.handle.Release()
}

func execute(ctx context.Context, h *driver.Handle, logger *slog.Logger, stmt statement.Statement) error {
	query, err := stmt.Compile()
	if err != nil {
		return err
	}
	return executeQuery(ctx, h, logger, query)
}

func executeQuery(ctx context.Context, h *driver.Handle, logger *slog.Logger, query string) error {
	logger.Debug("executing statement", "query", query)
	return h.Conn().Execute(ctx, query)
}

func prepare(ctx context.Context, h *driver.Handle, logger *slog.Logger, stmt statement.Statement) (*Statement, error) {
	query, err := stmt.Compile()
	if err != nil {
		return nil, err
	}
	logger.Debug("preparing statement", "query", query)
	prepared, err := h.Conn().Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Statement{
		query:    query,
		prepared: prepared,
		handle:   h.Clone(),
	}, nil
}

func (db *Database) String() string {
	return fmt.Sprintf("Database(%s)", db.handle)
}
