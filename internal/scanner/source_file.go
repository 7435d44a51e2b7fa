// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner discovers the declaration sources of an application:
// category directories (models, interfaces, types, serializers,
// validators) and the files below them.
package scanner

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceFile represents a discovered source file.
type SourceFile struct {
	// Path is the absolute path to the file
	Path string

	// Kind is the detected file kind ("typescript", "javascript", "json", "yaml")
	Kind string

	// Content is the file content
	Content []byte

	// ModTime is the last modification time
	ModTime time.Time
}

// File kinds.
const (
	KindTypeScript = "typescript"
	KindJavaScript = "javascript"
	KindJSON       = "json"
	KindYAML       = "yaml"
)

// kindExtensions maps file extensions to kind identifiers.
var kindExtensions = map[string]string{
	".ts":   KindTypeScript,
	".tsx":  KindTypeScript,
	".mts":  KindTypeScript,
	".cts":  KindTypeScript,
	".js":   KindJavaScript,
	".mjs":  KindJavaScript,
	".cjs":  KindJavaScript,
	".json": KindJSON,
	".yaml": KindYAML,
	".yml":  KindYAML,
}

// DetectKind detects the file kind from a file path.
func DetectKind(path string) string {
	return kindExtensions[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions returns the supported file extensions in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(kindExtensions))
	for ext := range kindExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupportedFile checks if a file path has a supported extension.
func IsSupportedFile(path string) bool {
	return DetectKind(path) != ""
}
