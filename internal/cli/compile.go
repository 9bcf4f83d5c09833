package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/statement"
)

// CompileOptions holds flags for the compile subcommands.
type CompileOptions struct {
	*RootOptions
	Name        string
	Table       string
	IfNotExists bool
	Columns     []string
	Multiplex   int
	Limit       uint64
}

// CompileResult is the JSON payload of every compile subcommand.
type CompileResult struct {
	Query string `json:"query"`
}

// NewCompileCommand creates the compile command and its subcommands.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the SQL a statement builder compiles to",
		Long: `Print the SQL a statement builder compiles to, without touching a database.

Builder fields are only set for flags that are given, so a missing
required field fails the same way it does in code.

Examples:
  tabula compile create-table --name foo --if-not-exists --column bar:float
  tabula compile insert --table foo --column bar --column baz --multiplex 2
  tabula compile select --table foo --column bar --limit 10`,
	}

	cmd.AddCommand(newCompileCreateTableCommand(&CompileOptions{RootOptions: rootOpts}))
	cmd.AddCommand(newCompileInsertCommand(&CompileOptions{RootOptions: rootOpts}))
	cmd.AddCommand(newCompileSelectCommand(&CompileOptions{RootOptions: rootOpts}))

	return cmd
}

func newCompileCreateTableCommand(opts *CompileOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "create-table",
		Short:         "Compile CREATE TABLE",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			b := statement.CreateTable()
			if cmd.Flags().Changed("name") {
				b.Name(opts.Name)
			}
			if opts.IfNotExists {
				b.IfNotExists()
			}
			columns, err := parseColumnSpecs(opts.Columns)
			if err != nil {
				return f.Usage(err.Error())
			}
			b.Columns(columns...)
			return outputCompiled(f, b)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "table name")
	cmd.Flags().BoolVar(&opts.IfNotExists, "if-not-exists", false, "add IF NOT EXISTS")
	cmd.Flags().StringArrayVar(&opts.Columns, "column", nil, "column as name:type (repeatable)")

	return cmd
}

func newCompileInsertCommand(opts *CompileOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "insert",
		Short:         "Compile INSERT INTO",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			b := statement.InsertInto().Columns(opts.Columns...)
			if cmd.Flags().Changed("table") {
				b.Table(opts.Table)
			}
			if cmd.Flags().Changed("multiplex") {
				b.Multiplex(opts.Multiplex)
			}
			return outputCompiled(f, b)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "target table")
	cmd.Flags().StringArrayVar(&opts.Columns, "column", nil, "target column (repeatable)")
	cmd.Flags().IntVar(&opts.Multiplex, "multiplex", 1, "rows per execution")

	return cmd
}

func newCompileSelectCommand(opts *CompileOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "select",
		Short:         "Compile SELECT",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			b := statement.Select().Columns(opts.Columns...)
			if cmd.Flags().Changed("table") {
				b.Table(opts.Table)
			}
			if cmd.Flags().Changed("limit") {
				b.Limit(opts.Limit)
			}
			return outputCompiled(f, b)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "source table")
	cmd.Flags().StringArrayVar(&opts.Columns, "column", nil, "result column (repeatable, default *)")
	cmd.Flags().Uint64Var(&opts.Limit, "limit", 0, "maximum number of rows")

	return cmd
}

func outputCompiled(f *OutputFormatter, stmt statement.Statement) error {
	query, err := stmt.Compile()
	if err != nil {
		return f.Fail("compile failed", err)
	}
	if f.Format == "json" {
		return f.Success(CompileResult{Query: query})
	}
	fmt.Fprintln(f.Writer, query)
	return nil
}

// parseColumnSpecs parses name:type pairs.
func parseColumnSpecs(specs []string) ([]column.Column, error) {
	columns := make([]column.Column, 0, len(specs))
	for _, spec := range specs {
		name, typeName, ok := strings.Cut(spec, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid column %q: expected name:type", spec)
		}
		kind, err := column.ParseType(typeName)
		if err != nil {
			return nil, fmt.Errorf("invalid column %q: %w", spec, err)
		}
		columns = append(columns, column.New(name, kind))
	}
	return columns, nil
}
