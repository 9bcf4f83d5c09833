package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/statement"
)

// ExecResult is the JSON payload of the exec command.
type ExecResult struct {
	Query string `json:"query"`
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a raw statement",
		Long: `Run a raw statement without parameters on the configured database.

Example:
  tabula --db ./data.db exec "DELETE FROM `+"`foo`"+`"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(rootOpts, args[0], cmd)
		},
	}
}

func runExec(opts *RootOptions, sql string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s, err := opts.open(cmd, f)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.db.Execute(cmd.Context(), statement.Raw(sql)); err != nil {
		return f.Fail("exec failed", err)
	}
	s.logger.Info("statement executed", "trace_id", f.TraceID)

	if f.Format == "json" {
		return f.Success(ExecResult{Query: sql})
	}
	fmt.Fprintln(f.Writer, "✓ OK")
	return nil
}
