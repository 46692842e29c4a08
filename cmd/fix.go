package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/skillmark-go/internal/fixer"
)

// FixRunner defines the interface for running frontmatter repairs.
type FixRunner interface {
	Fix(ctx context.Context, root, pattern string, apply bool) (*fixer.Result, error)
}

// fixerFixRunner wires FixRunner to the real fixer.
type fixerFixRunner struct{}

func (*fixerFixRunner) Fix(ctx context.Context, root, pattern string, apply bool) (*fixer.Result, error) {
	return fixer.New(root, pattern, apply).Fix(ctx)
}

// formatFixHuman writes the repair plan or outcome as human-readable text.
func formatFixHuman(w io.Writer, result *fixer.Result) {
	verb := "fixed"
	if result.Planned {
		verb = "would fix"
	}
	for _, c := range result.Changes {
		if len(c.Fields) > 0 {
			fmt.Fprintf(w, "%s %s (%s)\n", verb, c.Path, strings.Join(c.Fields, ", "))
		} else {
			fmt.Fprintf(w, "%s %s (frontmatter normalized)\n", verb, c.Path)
		}
	}
	fmt.Fprintf(w, "\n%d file(s) need fixes, %d clean\n", len(result.Changes), result.Clean)
	if result.BackupDir != "" {
		fmt.Fprintf(w, "backups written to %s\n", result.BackupDir)
	}
	if result.Planned && len(result.Changes) > 0 {
		fmt.Fprintln(w, "re-run with --apply to write changes")
	}
}

// NewFixCmd creates the fix command with the given runner.
func NewFixCmd(runner FixRunner) *cobra.Command {
	var (
		apply      bool
		pattern    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:          "fix [root]",
		Short:        "Repair broken frontmatter in skill documents",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			pat := pattern
			if pat == "" {
				pat = defaultSkillPattern
			}

			if GetVerbose() {
				fmt.Fprintf(cmd.ErrOrStderr(), "fixing %s (pattern %s, apply %t)\n", root, pat, apply)
			}

			result, err := runner.Fix(cmd.Context(), root, pat, apply)
			if err != nil {
				return err
			}

			if jsonOutput || GetJSON() {
				writeJSONImpl(cmd.OutOrStdout(), result)
			} else {
				formatFixHuman(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write repairs to disk (default is a dry run)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob for document discovery")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
