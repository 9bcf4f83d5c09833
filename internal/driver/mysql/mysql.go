// Package mysql is the MySQL backend, built on github.com/go-sql-driver/mysql.
//
// MySQL shares the fixed dialect (backtick identifiers and ? placeholders).
// Importing the package registers it with the driver registry as "mysql".
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/roach88/tabula/internal/driver"
	"github.com/roach88/tabula/internal/driver/sqldb"
)

// Name is the registry name of this backend.
const Name = "mysql"

// Driver opens MySQL connections. The location is a go-sql-driver DSN,
// e.g. "user:pass@tcp(127.0.0.1:3306)/tabula".
type Driver struct{}

// New returns the MySQL driver.
func New() *Driver {
	return &Driver{}
}

// Config parses a DSN into a driver configuration. Malformed DSNs are
// KindConnect errors.
func Config(location string) (*gomysql.Config, error) {
	if location == "" {
		return nil, driver.Errorf(driver.KindConnect, "", "mysql DSN must not be empty")
	}
	cfg, err := gomysql.ParseDSN(location)
	if err != nil {
		return nil, driver.NewError(driver.KindConnect, "", fmt.Errorf("parse DSN: %w", err))
	}
	return cfg, nil
}

// Connect implements driver.Driver.
func (d *Driver) Connect(ctx context.Context, location string) (driver.Connection, error) {
	cfg, err := Config(location)
	if err != nil {
		return nil, err
	}

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, driver.NewError(driver.KindConnect, "", fmt.Errorf("create connector: %w", err))
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return sqldb.Open(ctx, db)
}

func init() {
	driver.Register(Name, New())
}

var _ driver.Driver = (*Driver)(nil)
