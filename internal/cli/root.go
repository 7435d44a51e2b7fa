// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for apisynth.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/apisynth/apisynth/internal/config"
	"github.com/apisynth/apisynth/internal/openapi"
	"github.com/apisynth/apisynth/pkg/types"
)

// Global flags
var (
	cfgFile string
	output  string
	format  string
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "apisynth",
	Short: "OpenAPI document synthesizer for AdonisJS applications",
	Long: `apisynth builds an OpenAPI 3.0 document for an AdonisJS application from
its exported route table, controller annotation comments, Lucid models,
TypeScript interfaces and enums, serializers and VineJS validators.

Example:
  apisynth generate                    # Write openapi.yml and openapi.json
  apisynth print -f json               # Print the document
  apisynth docs --ui scalar            # Print a documentation viewer page
  apisynth watch                       # Regenerate when app/ changes
  apisynth init                        # Create a config file`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: apisynth.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output directory (default: project path)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: yaml, json, both")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(docsCmd)
}

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// GetOutput returns the output directory from the flag.
func GetOutput() string {
	return output
}

// GetFormat returns the output format from the flag.
func GetFormat() string {
	return format
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return verbose
}

// IsQuiet returns whether quiet mode is enabled.
func IsQuiet() bool {
	return quiet
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if output != "" {
		cfg.Output = output
	}
	if format != "" {
		cfg.OutputFileExtensions = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger returns the tracing logger. Tracing goes to stderr and is only
// enabled by the debug setting or --verbose.
func newLogger(cfg *config.Config) openapi.Logger {
	if !cfg.Debug && !verbose {
		return openapi.NopLogger{}
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return openapi.NewSlogAdapter(slog.New(handler))
}

// printDiagnostics reports the problems of a run. Errors are always
// printed; warnings are suppressed by --quiet.
func printDiagnostics(diags []types.Diagnostic) {
	for _, d := range diags {
		if d.Severity == types.SeverityError || !quiet {
			fmt.Fprintln(os.Stderr, d.String())
		}
	}
}

// printInfo prints a message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
