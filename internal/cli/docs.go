// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apisynth/apisynth/internal/openapi"
)

var (
	docsUI    string
	docsURL   string
	docsStyle string
	docsTheme string
	docsProxy string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print a documentation viewer page",
	Long: `Print an HTML page rendering the OpenAPI document with one of the
supported viewers: ` + strings.Join(openapi.Viewers(), ", ") + `.

The page loads the document from --url, usually the route serving the
output of "apisynth print".

Example:
  apisynth docs > docs.html                           # Swagger UI
  apisynth docs --ui scalar --url /openapi.json        # Scalar
  apisynth docs --ui rapidoc --style focused           # RapiDoc focused layout
  apisynth docs --ui stoplight --theme light           # Stoplight Elements`,
	RunE: runDocs,
}

func init() {
	docsCmd.Flags().StringVar(&docsUI, "ui", "swagger", "viewer: "+strings.Join(openapi.Viewers(), ", "))
	docsCmd.Flags().StringVar(&docsURL, "url", "/docs", "URL the viewer loads the document from")
	docsCmd.Flags().StringVar(&docsStyle, "style", "", "RapiDoc render style: view, read, focused")
	docsCmd.Flags().StringVar(&docsTheme, "theme", "", "Stoplight theme: light, dark")
	docsCmd.Flags().StringVar(&docsProxy, "proxy", "", "Scalar request proxy URL")
}

func runDocs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	page, err := openapi.RenderViewer(docsUI, docsURL, openapi.ViewerOptions{
		PersistAuthorization: cfg.PersistAuthorization,
		Style:                docsStyle,
		ProxyURL:             docsProxy,
		Theme:                docsTheme,
	})
	if err != nil {
		return fmt.Errorf("failed to render docs: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), page)
	return nil
}
