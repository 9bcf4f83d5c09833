package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/schema"
)

// ApplyResult is the JSON payload of the apply command.
type ApplyResult struct {
	Tables []schema.Definition `json:"tables"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file.cue|dir>",
		Short: "Create the tables declared in CUE",
		Long: `Create every table declared in a CUE file or directory.

Tables are created with CREATE TABLE IF NOT EXISTS, so applying the same
definitions twice is a no-op.

Examples:
  tabula --db ./data.db apply ./tables.cue
  tabula --db ./data.db apply ./schema/`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, args[0], cmd)
		},
	}
}

func runApply(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	defs, err := schema.Load(path)
	if err != nil {
		_ = f.Error(ErrCodeSchema, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}
	f.VerboseLog("Loaded %d table definition(s) from %s", len(defs), path)

	s, err := opts.open(cmd, f)
	if err != nil {
		return err
	}
	defer s.close()

	if err := schema.Apply(cmd.Context(), s.db, defs); err != nil {
		return f.Fail("apply failed", err)
	}

	if f.Format == "json" {
		return f.Success(ApplyResult{Tables: defs})
	}
	fmt.Fprintf(f.Writer, "✓ Applied %d table(s)\n", len(defs))
	for _, def := range defs {
		fmt.Fprintf(f.Writer, "  %s: %d column(s)\n", def.Name, len(def.Columns))
	}
	return nil
}
