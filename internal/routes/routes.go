// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package routes loads the route table exported by the host framework.
//
// Accepted documents are a bare array of routes, an object with a "root"
// array, or an object mapping domains to route arrays (concatenated in
// document order). A route's handler may be a magic string, a serialized
// handler object, or a legacy resolved handler under meta.resolvedHandler.
package routes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apisynth/apisynth/pkg/types"
)

// ErrNoRoutes is returned when a route document contains no route array.
var ErrNoRoutes = errors.New("no routes found")

// Load reads a route table from a .json, .yaml or .yml file.
func Load(path string) ([]types.RouteRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON parses a JSON route table.
func ParseJSON(data []byte) ([]types.RouteRecord, error) {
	v, err := types.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse routes: %w", err)
	}
	return fromValue(v)
}

// ParseYAML parses a YAML route table.
func ParseYAML(data []byte) ([]types.RouteRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse routes: %w", err)
	}
	return fromValue(types.DecodeYAMLNode(&node))
}

func fromValue(v any) ([]types.RouteRecord, error) {
	var list []any
	switch doc := v.(type) {
	case []any:
		list = doc
	case *types.OrderedMap[any]:
		if root, ok := doc.Get("root"); ok {
			list, _ = root.([]any)
			break
		}
		for _, domain := range doc.Keys() {
			routes, _ := doc.Get(domain)
			if arr, ok := routes.([]any); ok {
				list = append(list, arr...)
			}
		}
	}
	if list == nil {
		return nil, ErrNoRoutes
	}

	out := make([]types.RouteRecord, 0, len(list))
	for i, item := range list {
		obj, ok := item.(*types.OrderedMap[any])
		if !ok {
			return nil, fmt.Errorf("route %d is not an object", i)
		}
		out = append(out, route(obj))
	}
	return out, nil
}

func route(obj *types.OrderedMap[any]) types.RouteRecord {
	r := types.RouteRecord{
		Pattern: stringField(obj, "pattern"),
		Name:    stringField(obj, "name"),
	}

	if methods, ok := obj.Get("methods"); ok {
		for _, m := range stringList(methods) {
			r.Methods = append(r.Methods, strings.ToUpper(m))
		}
	}
	if mw, ok := obj.Get("middleware"); ok {
		r.Middleware = middleware(mw)
	}

	h, _ := obj.Get("handler")
	switch handler := h.(type) {
	case string:
		r.Handler.Reference = handler
	case *types.OrderedMap[any]:
		r.Handler.Reference = stringField(handler, "reference")
		r.Handler.Module = stringField(handler, "moduleNameOrPath")
		r.Handler.Method = stringField(handler, "method")
	}

	if meta, ok := obj.Get("meta"); ok {
		if m, ok := meta.(*types.OrderedMap[any]); ok {
			if rh, ok := m.Get("resolvedHandler"); ok {
				if resolved, ok := rh.(*types.OrderedMap[any]); ok {
					ns := stringField(resolved, "namespace")
					method := stringField(resolved, "method")
					if ns != "" && method != "handle" {
						r.Handler.Namespace = ns
						r.Handler.Method = method
					}
				}
			}
		}
	}
	return r
}

// middleware accepts a list of names, a list of serialized middleware
// objects, or a single such object.
func middleware(v any) []string {
	var names []string
	add := func(item any) {
		switch m := item.(type) {
		case string:
			names = append(names, m)
		case *types.OrderedMap[any]:
			if name := stringField(m, "name"); name != "" {
				names = append(names, name)
			}
		}
	}
	switch mw := v.(type) {
	case []any:
		for _, item := range mw {
			add(item)
		}
	default:
		add(mw)
	}
	return names
}

func stringField(obj *types.OrderedMap[any], key string) string {
	v, _ := obj.Get(key)
	s, _ := v.(string)
	return s
}

func stringList(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
