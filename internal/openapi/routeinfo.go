// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"strings"

	"github.com/apisynth/apisynth/pkg/types"
)

// RouteInfo is the structural information derived from a URL pattern.
type RouteInfo struct {
	// Pattern is the OpenAPI path ("/users/{id}")
	Pattern string

	// Tags holds the upper-cased default tag, if the pattern is long enough
	Tags []string

	// Parameters are the path parameters keyed by name in pattern order
	Parameters *types.OrderedMap[types.Parameter]
}

// ExtractRouteInfo converts a framework URL pattern ("/users/:id?") into
// an OpenAPI path with its path parameters. The segment at tagIndex (the
// leading empty segment counts) seeds the default tag.
func ExtractRouteInfo(pattern string, tagIndex int) RouteInfo {
	info := RouteInfo{Parameters: types.NewOrderedMap[types.Parameter]()}

	split := strings.Split(pattern, "/")
	if tagIndex >= 0 && len(split) > tagIndex {
		if tag := strings.ToUpper(split[tagIndex]); tag != "" {
			info.Tags = []string{tag}
		}
	}

	segments := make([]string, 0, len(split))
	for _, part := range split {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, ":") {
			name := strings.TrimSuffix(strings.TrimPrefix(part, ":"), "?")
			info.Parameters.Set(name, types.Parameter{
				Name:     name,
				In:       "path",
				Required: !strings.HasSuffix(part, "?"),
				Schema:   &types.Schema{Type: "string"},
			})
			part = "{" + name + "}"
		}
		segments = append(segments, part)
	}
	info.Pattern = "/" + strings.Join(segments, "/")
	return info
}

// IsIgnored reports whether pattern matches one of the ignore rules: an
// exact pattern, a prefix ending in "*" or a suffix starting with "*".
func IsIgnored(pattern string, ignore []string) bool {
	for _, rule := range ignore {
		switch {
		case rule == pattern:
			return true
		case strings.HasSuffix(rule, "*") && strings.HasPrefix(pattern, strings.TrimSuffix(rule, "*")):
			return true
		case strings.HasPrefix(rule, "*") && strings.HasSuffix(pattern, strings.TrimPrefix(rule, "*")):
			return true
		}
	}
	return false
}
