// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"user.ts", "typescript"},
		{"User.TS", "typescript"},
		{"component.tsx", "typescript"},
		{"user_validator.js", "javascript"},
		{"module.mjs", "javascript"},
		{"common.cjs", "javascript"},
		{"serializers.json", "json"},
		{"serializers.yaml", "yaml"},
		{"routes.yml", "yaml"},
		{"readme.md", ""},
		{"Makefile", ""},
		{"/path/to/app/models/user.ts", "typescript"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectKind(tt.path))
		})
	}
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()

	assert.True(t, sort.StringsAreSorted(exts))
	assert.Contains(t, exts, ".ts")
	assert.Contains(t, exts, ".js")
	assert.Contains(t, exts, ".json")
	assert.NotContains(t, exts, ".go")
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("app.ts"))
	assert.True(t, IsSupportedFile("config.yaml"))
	assert.False(t, IsSupportedFile("main.go"))
	assert.False(t, IsSupportedFile("image.png"))
}
