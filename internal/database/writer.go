package database

import (
	"context"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/statement"
)

// Writer inserts one row per Write through a single prepared INSERT.
type Writer struct {
	table   string
	columns []string
	stmt    *Statement

	policy   *RetryPolicy
	observer RetryObserver
	sleep    sleeper
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithRetry retries failed executions under p. Only KindExec errors are
// retried; bind errors return immediately.
func WithRetry(p RetryPolicy) WriterOption {
	return func(w *Writer) {
		w.policy = &p
	}
}

// WithRetryObserver replaces the default observer, which logs every
// retried failure at warn level.
func WithRetryObserver(observer RetryObserver) WriterOption {
	return func(w *Writer) {
		w.observer = observer
	}
}

// NewWriter prepares an INSERT over every column of t.
func NewWriter(ctx context.Context, t *Table, opts ...WriterOption) (*Writer, error) {
	return NewWriterColumns(ctx, t, column.Names(t.columns), opts...)
}

// NewWriterColumns prepares an INSERT over the given columns of t.
func NewWriterColumns(ctx context.Context, t *Table, columns []string, opts ...WriterOption) (*Writer, error) {
	insert := statement.InsertInto().Table(t.name).Columns(columns...).Multiplex(1)
	stmt, err := t.Prepare(ctx, insert)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		table:   t.name,
		columns: append([]string(nil), columns...),
		stmt:    stmt,
		sleep:   sleepContext,
	}
	w.observer = func(attempt int, err error) {
		t.logger.Warn("failed to insert a record, trying again",
			"table", w.table,
			"attempt", attempt,
			"error", err)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Columns returns the columns each Write binds, in order.
func (w *Writer) Columns() []string {
	return append([]string(nil), w.columns...)
}

// Query returns the compiled INSERT.
func (w *Writer) Query() string {
	return w.stmt.Query()
}

// Write binds values to the INSERT and executes it once, or under the
// retry policy when one is set.
func (w *Writer) Write(ctx context.Context, values ...column.Value) error {
	if w.policy == nil {
		return w.stmt.Execute(ctx, values...)
	}
	return retry(ctx, *w.policy, func() error {
		return w.stmt.Execute(ctx, values...)
	}, w.observer, w.sleep)
}

// Close releases the prepared INSERT.
func (w *Writer) Close() error {
	return w.stmt.Close()
}
