// Package cmd contains the CLI commands for the skm application.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// jsonOutput holds the global --json flag state.
var jsonOutput bool

func init() {
	rootCmd = NewRootCmd()
	rootCmd.AddCommand(NewValidateCmd(&scanValidateRunner{}))
	rootCmd.AddCommand(NewFixCmd(&fixerFixRunner{}))
}

// GetVerbose returns the current verbose flag state.
// This is used by other packages to check if debug logging is enabled.
func GetVerbose() bool {
	return verbose
}

// GetJSON returns the current global --json flag state.
func GetJSON() bool {
	return jsonOutput
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "skm",
		Short:         "Validate and repair skill and standards documents",
		Long:          "skm is a CLI tool for checking Markdown skill and standards documents against repository compliance rules.",
		SilenceErrors: true,
	}

	// Add persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

// Execute runs the root command and returns any error.
// Deprecated: Use ExecuteContext instead for proper signal handling.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
