// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a command and returns output and error.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "apisynth")
	assert.Contains(t, output, "OpenAPI document synthesizer")
	assert.Contains(t, output, "Available Commands")
	for _, name := range []string{"generate", "init", "docs", "watch", "print", "version"} {
		assert.Contains(t, output, name)
	}
	assert.NotContains(t, output, "check")
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		expected string
	}{
		{"config flag short", "-c", "config file"},
		{"config flag long", "--config", "config file"},
		{"output flag short", "-o", "output directory"},
		{"output flag long", "--output", "output directory"},
		{"format flag short", "-f", "output format"},
		{"format flag long", "--format", "output format"},
		{"verbose flag short", "-v", "verbose"},
		{"verbose flag long", "--verbose", "verbose"},
		{"quiet flag short", "-q", "suppress"},
		{"quiet flag long", "--quiet", "suppress"},
	}

	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, output, tt.flag)
			assert.Contains(t, output, tt.expected)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)

	assert.Contains(t, output, "apisynth")
	assert.Contains(t, output, "Commit")
	assert.Contains(t, output, "Build Date")
	assert.Contains(t, output, "OpenAPI:    3.0.0")
	assert.Contains(t, output, "Go Version")
	assert.Contains(t, output, "OS/Arch")
}

func TestSubcommand_Help(t *testing.T) {
	tests := []struct {
		command  string
		contains []string
	}{
		{"init", []string{"Initialize a new apisynth configuration file", "--force", "--interactive"}},
		{"generate", []string{"Generate an OpenAPI document", "--routes", "--dry-run", "--validate"}},
		{"watch", []string{"Watch the application directory", "--debounce"}},
		{"print", []string{"Print the OpenAPI document"}},
		{"docs", []string{"documentation viewer", "--ui", "--url", "swagger", "scalar"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			output, err := executeCommand(rootCmd, tt.command, "--help")
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
		})
	}
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Contains(t, info, "apisynth")
	assert.Contains(t, info, "commit")
	assert.Contains(t, info, "built")
}
