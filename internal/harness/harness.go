package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/database"
	"github.com/roach88/tabula/internal/driver"
	"github.com/roach88/tabula/internal/statement"
	"github.com/roach88/tabula/internal/testutil"
)

// Harness executes the steps of one scenario.
type Harness struct {
	db     *database.Database
	tables map[string]*database.Table
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a freshly opened database. Tables from Schema and
// Tables are created first, then the steps run in order. A step that fails
// without declaring that error stops the run; the remaining steps are
// skipped and the result fails.
//
// The returned error covers setup problems only (open, schema, table
// creation). Step outcomes are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	defs, err := scenario.Definitions()
	if err != nil {
		return nil, err
	}

	db, err := database.OpenNamed(ctx, scenario.DriverName(), scenario.DriverLocation(), database.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	h := &Harness{
		db:     db,
		tables: make(map[string]*database.Table, len(defs)),
		clock:  testutil.NewDeterministicClock(),
		logger: logger,
	}
	defer h.close()

	result := NewResult()
	for _, def := range defs {
		table, err := database.NewTable(ctx, db, def.Name, def.Columns)
		if err != nil {
			return nil, fmt.Errorf("create table %s: %w", def.Name, err)
		}
		h.tables[def.Name] = table
		result.AddTrace(TraceEvent{Seq: h.clock.Next(), Kind: KindCreateTable, Query: table.CreateQuery()})
	}

	for i, step := range scenario.Steps {
		if !h.executeStep(ctx, i, step, result) {
			break
		}
	}
	return result, nil
}

// executeStep runs one step and records it. It reports whether the
// scenario may continue.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) bool {
	event := TraceEvent{Kind: step.Kind()}

	var err error
	switch event.Kind {
	case KindExec:
		err = h.exec(ctx, step.Exec, &event)
	case KindInsert:
		err = h.insert(ctx, step.Insert, &event)
	case KindSelect:
		err = h.query(ctx, index, step.Select, &event, result)
	default:
		result.AddError(fmt.Sprintf("step %d: malformed step", index))
		return false
	}

	kind := ErrorKind(err)
	switch {
	case err == nil && step.Error != "":
		result.AddError(fmt.Sprintf("step %d: expected %s error, got success", index, step.Error))
	case err != nil && step.Error == "":
		result.AddError(fmt.Sprintf("step %d: %v", index, err))
		return false
	case err != nil && kind != step.Error:
		result.AddError(fmt.Sprintf("step %d: expected %s error, got %s: %v", index, step.Error, kind, err))
		return false
	case err != nil:
		event.Error = kind
		h.logger.Debug("step failed as expected", "step", index, "kind", kind)
	}

	event.Seq = h.clock.Next()
	result.AddTrace(event)
	return true
}

func (h *Harness) exec(ctx context.Context, sql string, event *TraceEvent) error {
	event.Query = sql
	return h.db.Execute(ctx, statement.Raw(sql))
}

func (h *Harness) insert(ctx context.Context, step *InsertStep, event *TraceEvent) error {
	table, ok := h.tables[step.Table]
	if !ok {
		return fmt.Errorf("unknown table %q", step.Table)
	}

	var (
		w   *database.Writer
		err error
	)
	if len(step.Columns) == 0 {
		w, err = database.NewWriter(ctx, table)
	} else {
		w, err = database.NewWriterColumns(ctx, table, step.Columns)
	}
	if err != nil {
		return err
	}
	defer w.Close()

	event.Query = w.Query()
	for i, raw := range step.Rows {
		values, err := column.FromAnySlice(raw)
		if err != nil {
			return fmt.Errorf("rows[%d]: %w", i, err)
		}
		if err := w.Write(ctx, values...); err != nil {
			return fmt.Errorf("rows[%d]: %w", i, err)
		}
		event.Count++
	}
	return nil
}

func (h *Harness) query(ctx context.Context, index int, step *SelectStep, event *TraceEvent, result *Result) error {
	builder := statement.Select().Table(step.Table).Columns(step.Columns...)
	if step.Limit != nil {
		builder.Limit(*step.Limit)
	}
	query, err := builder.Compile()
	if err != nil {
		return err
	}
	event.Query = query

	stmt, err := h.db.Prepare(ctx, statement.Raw(query))
	if err != nil {
		return err
	}
	defer stmt.Close()

	if err := stmt.Execute(ctx); err != nil {
		return err
	}
	rows, err := stmt.Collect()
	if err != nil {
		return err
	}
	event.Rows = rows

	if step.Expect != nil {
		h.compareRows(index, step.Expect, rows, result)
	}
	return nil
}

// compareRows adds an error to result for every difference between the
// expected and actual rows.
func (h *Harness) compareRows(index int, expect [][]any, rows []driver.Record, result *Result) {
	if len(expect) != len(rows) {
		result.AddError(fmt.Sprintf("step %d: expected %d rows, got %d", index, len(expect), len(rows)))
		return
	}
	for i, raw := range expect {
		want, err := column.FromAnySlice(raw)
		if err != nil {
			result.AddError(fmt.Sprintf("step %d: expect[%d]: %v", index, i, err))
			continue
		}
		if !column.EqualAll(want, rows[i]) {
			result.AddError(fmt.Sprintf("step %d: row %d: expected [%s], got [%s]",
				index, i, formatRow(want), formatRow(rows[i])))
		}
	}
}

func (h *Harness) close() {
	var errs []error
	for _, table := range h.tables {
		errs = append(errs, table.Close())
	}
	errs = append(errs, h.db.Close())
	if err := errors.Join(errs...); err != nil {
		h.logger.Warn("failed to close scenario database", "error", err)
	}
}

func formatRow(row []column.Value) string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = fmt.Sprintf("%s(%s)", v.Type(), column.Format(v))
	}
	return strings.Join(cells, ", ")
}
