// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apisynth/apisynth/internal/config"
	"github.com/apisynth/apisynth/internal/openapi"
	"github.com/apisynth/apisynth/internal/routes"
	"github.com/apisynth/apisynth/pkg/types"
)

var (
	generateRoutes   string
	generateDryRun   bool
	generateValidate bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the OpenAPI document",
	Long: `Generate an OpenAPI document from the application's route table.

The route table is the JSON (or YAML) export of the application's router,
read from the configured routes file. Schemas are collected from app/models,
app/interfaces, app/types, app/serializers and app/validators (or their
package.json import aliases), and controller annotation comments describe
each action.

Example:
  apisynth generate                           # Write openapi.yml and openapi.json
  apisynth generate --routes routes.yaml      # Use another route table
  apisynth generate -f json -o ./public       # Write only openapi.json to ./public
  apisynth generate --dry-run                 # Print instead of writing
  apisynth generate --validate                # Check the result with kin-openapi`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateRoutes, "routes", "", "route table file (default: routes.json in the project path)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "preview output without writing files")
	generateCmd.Flags().BoolVar(&generateValidate, "validate", false, "validate the generated document")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if generateRoutes != "" {
		cfg.Routes = generateRoutes
	}

	printVerbose("Configuration:")
	printVerbose("  Path: %s", cfg.Path)
	printVerbose("  Routes: %s", cfg.RoutesPath())
	printVerbose("  Output: %s", cfg.OutputDir())
	printVerbose("  Extensions: %s", cfg.OutputFileExtensions)

	doc, err := buildDocument(contextOf(cmd), cfg)
	if err != nil {
		return err
	}

	if generateValidate {
		if err := openapi.Validate(contextOf(cmd), doc); err != nil {
			return err
		}
		printVerbose("Document is valid")
	}

	writer := openapi.NewWriter()
	if generateDryRun {
		printInfo("Dry run mode - no files will be written")
		out, err := writer.ToYAML(doc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	written, err := writer.WriteOutputs(doc, cfg.OutputDir(), cfg.OutputFileExtensions)
	if err != nil {
		return err
	}
	for _, path := range written {
		printInfo("Wrote %s", path)
	}
	printInfo("Generated %d paths and %d schemas", doc.Paths.Len(), doc.Components.Schemas.Len())
	return nil
}

// buildDocument loads the route table and runs one generation. Zero routes
// fail the command; every other problem is printed as a diagnostic.
func buildDocument(ctx context.Context, cfg *config.Config) (*types.OpenAPI, error) {
	records, err := routes.Load(cfg.RoutesPath())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %s", routes.ErrNoRoutes, cfg.RoutesPath())
	}

	run := openapi.NewRun(cfg, newLogger(cfg))
	doc, err := run.Generate(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}
	printDiagnostics(run.Diagnostics())
	printVerbose("Processed %d routes, %d schemas", len(records), run.Registry().Count())
	return doc, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
