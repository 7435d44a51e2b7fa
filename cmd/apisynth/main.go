// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for the apisynth CLI.
package main

import (
	"fmt"
	"os"

	"github.com/apisynth/apisynth/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
