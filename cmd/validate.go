package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/skillmark-go/internal/domain"
	"github.com/eykd/skillmark-go/internal/report"
	"github.com/eykd/skillmark-go/internal/rules"
	"github.com/eykd/skillmark-go/internal/scan"
)

// Default discovery globs, keyed by profile.
const (
	defaultSkillPattern     = "**/SKILL.md"
	defaultStandardsPattern = "{*_STANDARDS.md,UNIFIED_STANDARDS.md}"
)

// ValidateOptions carries the resolved inputs for one validation run.
type ValidateOptions struct {
	Root    string
	Pattern string
	Profile string
}

// ValidateRunner defines the interface for running repository validation.
type ValidateRunner interface {
	Validate(ctx context.Context, opts ValidateOptions) (*domain.Report, error)
}

// scanValidateRunner wires ValidateRunner to the real scanner.
type scanValidateRunner struct{}

func (*scanValidateRunner) Validate(ctx context.Context, opts ValidateOptions) (*domain.Report, error) {
	profile, ok := rules.ByName(opts.Profile)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (expected skill or standards)", opts.Profile)
	}
	return scan.New(opts.Root, opts.Pattern, profile).Scan(ctx)
}

// defaultPattern returns the discovery glob for a profile when the user
// did not pass --pattern.
func defaultPattern(profile string) string {
	if profile == rules.Standards().Name {
		return defaultStandardsPattern
	}
	return defaultSkillPattern
}

// runValidateAndReport runs the validator and renders the report.
// It returns a FindingsDetectedError when the run should exit 2.
func runValidateAndReport(cmd *cobra.Command, runner ValidateRunner, opts ValidateOptions, mode report.Mode, strict bool) error {
	result, err := runner.Validate(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out, err := report.Format(result, mode)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if result.ErrorCount > 0 || (strict && result.WarningCount > 0) {
		return &FindingsDetectedError{Errors: result.ErrorCount, Warnings: result.WarningCount}
	}
	return nil
}

// NewValidateCmd creates the validate command with the given runner.
func NewValidateCmd(runner ValidateRunner) *cobra.Command {
	var (
		format  string
		pattern string
		profile string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:          "validate [root]",
		Short:        "Validate documents under a repository root",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			pat := pattern
			if pat == "" {
				pat = defaultPattern(profile)
			}

			mode, err := report.ParseMode(format)
			if err != nil {
				return err
			}
			if GetJSON() {
				mode = report.ModeJSON
			}

			if GetVerbose() {
				fmt.Fprintf(cmd.ErrOrStderr(), "validating %s (profile %s, pattern %s)\n", root, profile, pat)
			}

			opts := ValidateOptions{Root: root, Pattern: pat, Profile: profile}
			return runValidateAndReport(cmd, runner, opts, mode, strict)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Report format: text, json, or markdown")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob for document discovery (default depends on profile)")
	cmd.Flags().StringVar(&profile, "profile", "skill", "Rule profile: skill or standards")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")

	return cmd
}
