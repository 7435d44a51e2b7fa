// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apisynth/apisynth/internal/openapi"
	"github.com/apisynth/apisynth/pkg/types"
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print the OpenAPI document to stdout",
	Long: `Print the OpenAPI document to standard output.

If a file is provided, it is read and printed in the requested format.
Otherwise the document is generated from the current project. When APP_ENV
or NODE_ENV names the configured production environment, the previously
written openapi.yml or openapi.json is printed without regenerating.

Example:
  apisynth print                      # Generate and print YAML
  apisynth print -f json              # Generate and print JSON
  apisynth print openapi.yml -f json  # Convert an existing file
  apisynth print | yq '.paths'        # Pipe to other tools`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	outputFormat := printFormat(format)
	printVerbose("Print configuration:")
	printVerbose("  Format: %s", outputFormat)

	if len(args) > 0 {
		doc, err := openapi.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return encode(cmd.OutOrStdout(), doc, outputFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if openapi.IsProduction(cfg.ProductionEnv) {
		data, err := openapi.ReadPrecomputed(cfg.OutputDir(), outputFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	doc, err := buildDocument(contextOf(cmd), cfg)
	if err != nil {
		return err
	}
	return encode(cmd.OutOrStdout(), doc, outputFormat)
}

// printFormat maps the --format flag to a single document format.
func printFormat(f string) string {
	if strings.EqualFold(f, "json") {
		return "json"
	}
	return "yaml"
}

func encode(w io.Writer, doc *types.OpenAPI, f string) error {
	writer := openapi.NewWriter()
	if f == "json" {
		return writer.WriteJSON(doc, w)
	}
	return writer.WriteYAML(doc, w)
}
