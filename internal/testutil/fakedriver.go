package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/driver"
	"github.com/roach88/tabula/internal/driver/sqldb"
)

// ErrInjected is the backend error behind every injected execution failure.
var ErrInjected = errors.New("injected failure")

// FakeDriver is an in-memory driver.Driver for tests. Every Connect
// returns the same FakeConn.
type FakeDriver struct {
	Conn *FakeConn

	// ConnectErr, when set, fails Connect with a KindConnect error.
	ConnectErr error
}

// NewFakeDriver creates a driver with a fresh FakeConn.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{Conn: NewFakeConn()}
}

// Connect implements driver.Driver.
func (d *FakeDriver) Connect(_ context.Context, location string) (driver.Connection, error) {
	if d.ConnectErr != nil {
		return nil, driver.NewError(driver.KindConnect, "", d.ConnectErr)
	}
	d.Conn.mu.Lock()
	d.Conn.location = location
	d.Conn.mu.Unlock()
	return d.Conn, nil
}

// FakeConn records the calls made on it and injects execution failures
// into its prepared statements.
type FakeConn struct {
	mu sync.Mutex

	location   string
	executed   []string
	prepared   []string
	executions int
	bound      [][]column.Value
	closes     int

	failRemaining int
	failAlways    bool
	rows          map[string][]driver.Record
}

// NewFakeConn creates an empty connection.
func NewFakeConn() *FakeConn {
	return &FakeConn{rows: make(map[string][]driver.Record)}
}

// FailExecutions makes the next n prepared executions fail with KindExec.
func (c *FakeConn) FailExecutions(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failRemaining = n
}

// FailAlways makes every prepared execution fail with KindExec.
func (c *FakeConn) FailAlways() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAlways = true
}

// SetRows sets the rows every execution of query yields.
func (c *FakeConn) SetRows(query string, rows ...driver.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[query] = rows
}

// Location returns the location passed to Connect.
func (c *FakeConn) Location() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

// Executed returns the queries run through Connection.Execute.
func (c *FakeConn) Executed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.executed...)
}

// Prepared returns the queries passed to Prepare.
func (c *FakeConn) Prepared() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prepared...)
}

// Executions returns how many prepared executions were attempted,
// including injected failures but not bind errors.
func (c *FakeConn) Executions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executions
}

// Bound returns the value sets of the successful prepared executions.
func (c *FakeConn) Bound() [][]column.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]column.Value(nil), c.bound...)
}

// Closes returns how many times Close was called.
func (c *FakeConn) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Execute implements driver.Connection.
func (c *FakeConn) Execute(_ context.Context, query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closes > 0 {
		return driver.Errorf(driver.KindExec, query, "connection closed")
	}
	c.executed = append(c.executed, query)
	return nil
}

// Prepare implements driver.Connection.
func (c *FakeConn) Prepare(_ context.Context, query string) (driver.Prepared, error) {
	params, err := sqldb.CountPlaceholders(query)
	if err != nil {
		return nil, driver.NewError(driver.KindPrepare, query, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closes > 0 {
		return nil, driver.Errorf(driver.KindPrepare, query, "connection closed")
	}
	c.prepared = append(c.prepared, query)
	return &fakePrepared{conn: c, query: query, params: params}, nil
}

// Close implements driver.Connection.
func (c *FakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

type fakePrepared struct {
	conn   *FakeConn
	query  string
	params int

	pending []driver.Record
	record  driver.Record
}

func (p *fakePrepared) Execute(_ context.Context, values []column.Value) error {
	p.pending = nil
	p.record = nil

	if len(values) != p.params {
		return driver.Errorf(driver.KindBind, p.query,
			"statement expects %d values, got %d", p.params, len(values))
	}

	c := p.conn
	c.mu.Lock()
	defer c.mu.Unlock()

	c.executions++
	if c.failAlways || c.failRemaining > 0 {
		if c.failRemaining > 0 {
			c.failRemaining--
		}
		return driver.NewError(driver.KindExec, p.query, ErrInjected)
	}

	bound := make([]column.Value, len(values))
	for i, v := range values {
		bound[i] = column.Clone(v)
	}
	c.bound = append(c.bound, bound)
	p.pending = c.rows[p.query]
	return nil
}

func (p *fakePrepared) Next() (driver.Record, error) {
	if len(p.pending) == 0 {
		return nil, nil
	}
	row := p.pending[0]
	p.pending = p.pending[1:]
	if len(p.record) != len(row) {
		p.record = make(driver.Record, len(row))
	}
	copy(p.record, row)
	return p.record, nil
}

func (p *fakePrepared) Close() error {
	p.pending = nil
	return nil
}

var (
	_ driver.Driver     = (*FakeDriver)(nil)
	_ driver.Connection = (*FakeConn)(nil)
)
