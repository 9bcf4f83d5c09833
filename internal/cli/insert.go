package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/database"
)

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	Table   string
	Columns []string
	NoRetry bool
}

// InsertResult is the JSON payload of the insert command.
type InsertResult struct {
	Table string `json:"table"`
	Query string `json:"query"`
	Rows  int    `json:"rows"`
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert <json-row>...",
		Short: "Write rows through a prepared INSERT",
		Long: `Write rows through a prepared INSERT, one execution per row.

The table is created first if it does not exist. Each row is a JSON array:
numbers with a fraction or exponent are floats, other numbers integers,
strings are strings and {"binary": "<base64>"} is binary.

Failed executions are retried under the configured retry policy
(retry.attempts, retry.delay) unless --no-retry is given.

Example:
  tabula --db ./data.db insert --table foo --column bar:float --column baz:integer '[42.0, 69]'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "target table (required)")
	cmd.Flags().StringArrayVar(&opts.Columns, "column", nil, "column as name:type (repeatable, required)")
	cmd.Flags().BoolVar(&opts.NoRetry, "no-retry", false, "execute each row once")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runInsert(opts *InsertOptions, args []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	columns, err := parseColumnSpecs(opts.Columns)
	if err != nil {
		return f.Usage(err.Error())
	}
	if len(columns) == 0 {
		return f.Usage("at least one --column is required")
	}

	rows := make([][]column.Value, len(args))
	for i, arg := range args {
		row, err := column.ParseJSONRow([]byte(arg))
		if err != nil {
			return f.Usage(fmt.Sprintf("row %d: %v", i, err))
		}
		rows[i] = row
	}

	s, err := opts.open(cmd, f)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	table, err := database.NewTable(ctx, s.db, opts.Table, columns)
	if err != nil {
		return f.Fail("create table failed", err)
	}
	defer table.Close()

	var writerOpts []database.WriterOption
	if !opts.NoRetry {
		writerOpts = append(writerOpts, database.WithRetry(s.cfg.RetryPolicy()))
	}
	w, err := database.NewWriter(ctx, table, writerOpts...)
	if err != nil {
		return f.Fail("prepare insert failed", err)
	}
	defer w.Close()

	for i, row := range rows {
		if err := w.Write(ctx, row...); err != nil {
			return f.Fail(fmt.Sprintf("row %d", i), err)
		}
	}
	s.logger.Info("rows inserted", "table", opts.Table, "rows", len(rows), "trace_id", f.TraceID)

	if f.Format == "json" {
		return f.Success(InsertResult{Table: opts.Table, Query: w.Query(), Rows: len(rows)})
	}
	fmt.Fprintf(f.Writer, "✓ Inserted %d row(s) into %s\n", len(rows), opts.Table)
	return nil
}
