// Package sqlite is the SQLite backend, built on github.com/mattn/go-sqlite3.
//
// Importing the package registers it with the driver registry as "sqlite".
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/tabula/internal/driver"
	"github.com/roach88/tabula/internal/driver/sqldb"
)

// Name is the registry name of this backend.
const Name = "sqlite"

// Memory is the location of a private in-memory database.
const Memory = ":memory:"

// Pragmas are applied to every connection:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
var Pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Driver opens SQLite databases. The location is a file path (created if
// missing) or Memory.
type Driver struct{}

// New returns the SQLite driver.
func New() *Driver {
	return &Driver{}
}

// Connect implements driver.Driver.
func (d *Driver) Connect(ctx context.Context, location string) (driver.Connection, error) {
	if location == "" {
		return nil, driver.Errorf(driver.KindConnect, "", "sqlite location must not be empty")
	}

	db, err := sql.Open("sqlite3", location)
	if err != nil {
		return nil, driver.NewError(driver.KindConnect, "", fmt.Errorf("failed to open database: %w", err))
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return sqldb.Open(ctx, db, Pragmas...)
}

func init() {
	driver.Register(Name, New())
}

var _ driver.Driver = (*Driver)(nil)
