// Package commands provides the CLI commands for the tarn tool.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tarn-lang/tarn/internal/kernel"
)

var rootCmd = &cobra.Command{
	Use:   "tarn [file.tarn...]",
	Short: "Tarn proof language checker and evaluator",
	Long: `Tarn is a small dependently typed proof language.

This tool provides:
  - Type checking of tarn source files (tarn check)
  - Expression evaluation against a checked file (tarn eval)
  - An interactive session (tarn repl)
  - Library fetching into the local cache (tarn get)

Usage:
  tarn file.tarn                    Check files (shorthand for tarn check)
  tarn check --strict file.tarn     Stop at the first error
  tarn eval -e "add two two" nat.tarn
  tarn repl                         Start the interactive session
  tarn version                      Print version`,
	// Accept any arguments - we'll handle .tarn files
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Run check by default if .tarn files are provided as arguments
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && strings.HasSuffix(args[0], ".tarn") {
			runCheck(cmd, args)
			return nil
		}

		if len(args) == 0 {
			return cmd.Help()
		}

		return fmt.Errorf("unknown command %q for \"tarn\"\nRun 'tarn --help' for usage", args[0])
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(versionCmd)

	// Mirror check flags so `tarn file.tarn` behaves like `tarn check file.tarn`
	rootCmd.Flags().BoolVar(&checkStrict, "strict", false, "Stop at the first error")
	rootCmd.Flags().IntVar(&checkMaxSteps, "max-steps", kernel.DefaultMaxSteps, "Reduction step budget per declaration")
	rootCmd.Flags().StringVarP(&checkSearch, "path", "p", "", "Comma-separated extra search paths for imports")
}
