// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import "fmt"

// Severity grades a Diagnostic.
type Severity string

const (
	// SeverityWarning marks a recoverable problem whose input was skipped.
	SeverityWarning Severity = "warning"

	// SeverityError marks a failure that emptied a whole contribution.
	SeverityError Severity = "error"
)

// Diagnostic is a non-fatal problem found while parsing sources.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Source   string   `json:"source,omitempty" yaml:"source,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	if d.Source == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Source, d.Message)
}

// Warningf creates a warning diagnostic.
func Warningf(source, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Source: source, Message: fmt.Sprintf(format, args...)}
}

// Errorf creates an error diagnostic.
func Errorf(source, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Source: source, Message: fmt.Sprintf(format, args...)}
}
