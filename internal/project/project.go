// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package project reads the host application's package.json subpath
// imports and resolves aliased source paths against them.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Paths maps import aliases to directories relative to the project root,
// e.g. "#controllers" -> "app/controllers".
type Paths map[string]string

type packageJSON struct {
	Imports map[string]any `json:"imports"`
}

// LoadPaths reads the "imports" field of root/package.json. A missing
// package.json yields empty paths and no error.
func LoadPaths(root string) (Paths, error) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Paths{}, nil
		}
		return Paths{}, fmt.Errorf("failed to read package.json: %w", err)
	}
	return ParsePaths(data)
}

// ParsePaths extracts alias mappings from package.json content. Keys lose
// their "/*" suffix; values lose "/*.js" and "./". Conditional (object)
// import targets are skipped.
func ParsePaths(data []byte) (Paths, error) {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return Paths{}, fmt.Errorf("failed to parse package.json: %w", err)
	}
	paths := make(Paths, len(pkg.Imports))
	for key, value := range pkg.Imports {
		target, ok := value.(string)
		if !ok {
			continue
		}
		alias := strings.ReplaceAll(key, "/*", "")
		target = strings.ReplaceAll(target, "/*.js", "")
		target = strings.ReplaceAll(target, "./", "")
		paths[alias] = target
	}
	return paths, nil
}

// Resolve replaces a leading alias segment of p ("#models/user") with its
// directory. Paths without a known alias are returned unchanged and ok is
// false.
func (p Paths) Resolve(path string) (string, bool) {
	head, rest, _ := strings.Cut(path, "/")
	if !strings.HasPrefix(head, "#") {
		return path, false
	}
	dir, ok := p[head]
	if !ok {
		return path, false
	}
	if rest == "" {
		return dir, true
	}
	return dir + "/" + rest, true
}

// Aliases returns the known aliases in sorted order.
func (p Paths) Aliases() []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
