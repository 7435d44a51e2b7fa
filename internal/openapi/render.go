// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// ViewerOptions tune a documentation viewer page.
type ViewerOptions struct {
	// PersistAuthorization keeps Swagger UI credentials across reloads
	PersistAuthorization bool

	// Style is the RapiDoc render style (view, read, focused)
	Style string

	// ProxyURL is the Scalar request proxy
	ProxyURL string

	// Theme is the Stoplight theme (light, dark)
	Theme string
}

type viewerData struct {
	URL string
	ViewerOptions
}

var viewers = map[string]*template.Template{
	"swagger": template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="X-UA-Compatible" content="ie=edge">
    <script src="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/4.1.3/swagger-ui-standalone-preset.js"></script>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/4.1.3/swagger-ui-bundle.js"></script>
    <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/4.1.3/swagger-ui.css" />
    <title>API Documentation - SwaggerUI</title>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script>
      window.onload = function() {
        SwaggerUIBundle({
          url: {{.URL}},
          dom_id: '#swagger-ui',
          presets: [
            SwaggerUIBundle.presets.apis,
            SwaggerUIStandalonePreset
          ],
          layout: "BaseLayout",
          {{if .PersistAuthorization}}persistAuthorization: true,{{end}}
        })
      }
    </script>
  </body>
</html>
`)),
	"rapidoc": template.Must(template.New("rapidoc").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
    <title>API Documentation - Rapidoc</title>
  </head>
  <body>
    <rapi-doc
      spec-url="{{.URL}}"
      theme="dark"
      bg-color="#24283b"
      schema-style="tree"
      schema-expand-level="10"
      header-color="#1a1b26"
      allow-try="true"
      nav-hover-bg-color="#1a1b26"
      nav-bg-color="#24283b"
      text-color="#c0caf5"
      nav-text-color="#c0caf5"
      primary-color="#9aa5ce"
      heading-text="Documentation"
      sort-tags="true"
      render-style="{{.Style}}"
      default-schema-tab="example"
      show-components="true"
      allow-spec-url-load="false"
      allow-spec-file-load="false"
      sort-endpoints-by="path"
    />
  </body>
</html>
`)),
	"scalar": template.Must(template.New("scalar").Parse(`<!doctype html>
<html>
  <head>
    <title>API Documentation - Scalar</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script
      id="api-reference"
      data-url="{{.URL}}"
      data-proxy-url="{{.ProxyURL}}"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>
`)),
	"stoplight": template.Must(template.New("stoplight").Parse(`<!doctype html>
<html data-theme="{{.Theme}}">
  <head>
    <title>API Documentation - Stoplight</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
  </head>
  <body style="min-height:100vh">
    <elements-api
      style="display:block;height:100vh;width:100%;"
      apiDescriptionUrl="{{.URL}}"
      router="hash"
      layout="sidebar"
    />
  </body>
</html>
`)),
}

// Viewers returns the supported viewer names.
func Viewers() []string {
	names := make([]string, 0, len(viewers))
	for name := range viewers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderViewer returns the HTML page of the named viewer loading the
// document at url.
func RenderViewer(name, url string, opts ViewerOptions) (string, error) {
	tmpl, ok := viewers[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unsupported viewer %q, must be one of: %s", name, strings.Join(Viewers(), ", "))
	}
	if opts.Style == "" {
		opts.Style = "view"
	}
	if opts.ProxyURL == "" {
		opts.ProxyURL = "https://proxy.scalar.com"
	}
	if opts.Theme == "" {
		opts.Theme = "dark"
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, viewerData{URL: url, ViewerOptions: opts}); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return sb.String(), nil
}
