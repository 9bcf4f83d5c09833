// Package sqldb implements the driver contract on top of database/sql.
// Concrete backends open a *sql.DB and hand it to Open.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tabula/internal/driver"
)

// Conn is a driver.Connection backed by one dedicated *sql.Conn.
//
// All statements run on the same backend connection, so:
//   - in-memory SQLite databases stay coherent across statements
//   - session settings applied at open (pragmas) hold for every statement
type Conn struct {
	db   *sql.DB
	conn *sql.Conn
}

// Open reserves one connection from db and runs each setup statement on
// it. On failure db is closed and a KindConnect error returned.
func Open(ctx context.Context, db *sql.DB, setup ...string) (*Conn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, driver.NewError(driver.KindConnect, "", fmt.Errorf("failed to connect to database: %w", err))
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, driver.NewError(driver.KindConnect, "", fmt.Errorf("failed to connect to database: %w", err))
	}

	for _, stmt := range setup {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			db.Close()
			return nil, driver.NewError(driver.KindConnect, stmt, fmt.Errorf("failed to execute %q: %w", stmt, err))
		}
	}

	return &Conn{db: db, conn: conn}, nil
}

// Execute implements driver.Connection.
func (c *Conn) Execute(ctx context.Context, query string) error {
	if _, err := c.conn.ExecContext(ctx, query); err != nil {
		return driver.NewError(driver.KindExec, query, err)
	}
	return nil
}

// Prepare implements driver.Connection.
func (c *Conn) Prepare(ctx context.Context, query string) (driver.Prepared, error) {
	stmt, err := c.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, driver.NewError(driver.KindPrepare, query, err)
	}
	params, err := numInput(ctx, c.conn, query)
	if err != nil {
		stmt.Close()
		return nil, driver.NewError(driver.KindPrepare, query, err)
	}
	return &Statement{query: query, stmt: stmt, params: params}, nil
}

// Close implements driver.Connection. Prepared statements must be closed
// first; database/sql waits for their open cursors.
func (c *Conn) Close() error {
	return errors.Join(c.conn.Close(), c.db.Close())
}

// Raw returns the underlying connection for backend-specific calls.
func (c *Conn) Raw() *sql.Conn {
	return c.conn
}

var _ driver.Connection = (*Conn)(nil)
