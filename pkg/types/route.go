// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides core data structures for OpenAPI document synthesis.
package types

import "strings"

// RouteRecord is one entry of the host framework's route table.
type RouteRecord struct {
	// Methods is the set of HTTP methods the route answers (upper-case)
	Methods []string `json:"methods" yaml:"methods"`

	// Pattern is the URL pattern with colon-prefixed params (e.g. "/users/:id?")
	Pattern string `json:"pattern" yaml:"pattern"`

	// Middleware lists middleware names applied to the route
	Middleware []string `json:"middleware,omitempty" yaml:"middleware,omitempty"`

	// Handler references the controller action serving the route
	Handler Handler `json:"handler" yaml:"handler"`

	// Name is the optional explicit route name
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// HasMethod reports whether the route answers method (case-insensitive).
func (r RouteRecord) HasMethod(method string) bool {
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// Handler is a route handler reference. Exactly one form is populated:
//
//   - Reference: magic string "#controllers/users_controller.index"
//   - Module + Method: lazy import of a controller module
//   - Namespace + Method: resolved handler of the legacy router
type Handler struct {
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Module    string `json:"moduleNameOrPath,omitempty" yaml:"moduleNameOrPath,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Method    string `json:"method,omitempty" yaml:"method,omitempty"`
}

// String returns the handler reference string used to derive operation IDs.
func (h Handler) String() string {
	switch {
	case h.Reference != "":
		return h.Reference
	case h.Module != "" && h.Method != "":
		return h.Module + "." + h.Method
	case h.Namespace != "" && h.Method != "":
		return h.Namespace + "." + h.Method
	default:
		return ""
	}
}
