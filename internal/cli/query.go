package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/statement"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Table   string
	Columns []string
	Limit   uint64
}

// QueryResult is the JSON payload of the query command. Each cell is in
// the JSON form accepted by insert.
type QueryResult struct {
	Query string              `json:"query"`
	Rows  [][]json.RawMessage `json:"rows"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the rows of a SELECT",
		Long: `Print the rows of a SELECT, one line per row with tab-separated cells.

Examples:
  tabula --db ./data.db query --table foo
  tabula --db ./data.db query --table foo --column baz --limit 1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "source table (required)")
	cmd.Flags().StringArrayVar(&opts.Columns, "column", nil, "result column (repeatable, default *)")
	cmd.Flags().Uint64Var(&opts.Limit, "limit", 0, "maximum number of rows")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	b := statement.Select().Table(opts.Table).Columns(opts.Columns...)
	if cmd.Flags().Changed("limit") {
		b.Limit(opts.Limit)
	}

	s, err := opts.open(cmd, f)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	stmt, err := s.db.Prepare(ctx, b)
	if err != nil {
		return f.Fail("prepare failed", err)
	}
	defer stmt.Close()

	if err := stmt.Execute(ctx); err != nil {
		return f.Fail("query failed", err)
	}
	rows, err := stmt.Collect()
	if err != nil {
		return f.Fail("read failed", err)
	}
	f.VerboseLog("%s: %d row(s)", stmt.Query(), len(rows))

	if f.Format == "json" {
		result := QueryResult{Query: stmt.Query(), Rows: make([][]json.RawMessage, len(rows))}
		for i, row := range rows {
			cells := make([]json.RawMessage, len(row))
			for j, v := range row {
				encoded, err := column.MarshalJSON(v)
				if err != nil {
					return f.Fail("encode failed", err)
				}
				cells[j] = encoded
			}
			result.Rows[i] = cells
		}
		return f.Success(result)
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = column.Format(v)
		}
		fmt.Fprintln(f.Writer, strings.Join(cells, "\t"))
	}
	return nil
}
