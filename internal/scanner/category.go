// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"os"
	"path/filepath"

	"github.com/apisynth/apisynth/internal/project"
)

// Category is a directory of declarations contributing to the schema
// registry.
type Category struct {
	// Name is the lower-case directory name below the app path
	Name string

	// Legacy is the capitalized directory name of older layouts, if any
	Legacy string

	// Alias is the package.json import alias overriding the directory
	Alias string

	// Include are the file patterns read from the directory
	Include []string
}

// Declaration categories in registry precedence order.
var (
	Interfaces  = Category{Name: "interfaces", Legacy: "Interfaces", Alias: "#interfaces", Include: []string{"**/*.ts"}}
	Serializers = Category{Name: "serializers", Alias: "#serializers", Include: []string{"**/*.ts", "**/*.js", "**/*.json", "**/*.yaml", "**/*.yml"}}
	Models      = Category{Name: "models", Legacy: "Models", Alias: "#models", Include: []string{"**/*.ts"}}
	Validators  = Category{Name: "validators", Alias: "#validators", Include: []string{"**/*.ts", "**/*.js"}}
	Enums       = Category{Name: "types", Legacy: "Types", Alias: "#types", Include: []string{"**/*.ts"}}
)

// Layout locates category directories of one application.
type Layout struct {
	// Root is the project root holding package.json
	Root string

	// AppPath is the application directory (usually Root/app)
	AppPath string

	// Paths are the package.json import aliases
	Paths project.Paths
}

// Dir returns the directory of a category. The lower-case directory (or
// its import alias) wins over the legacy capitalized one; ok is false when
// neither exists.
func (l Layout) Dir(c Category) (string, bool) {
	dir := filepath.Join(l.AppPath, c.Name)
	if target, ok := l.Paths[c.Alias]; ok {
		dir = filepath.Join(l.Root, target)
	}
	if isDir(dir) {
		return dir, true
	}
	if c.Legacy != "" {
		legacy := filepath.Join(l.AppPath, c.Legacy)
		if isDir(legacy) {
			return legacy, true
		}
	}
	return "", false
}

// Scan returns the files of a category in lexical path order. A missing
// directory yields no files and no error.
func (l Layout) Scan(c Category, cache *FileCache) ([]SourceFile, error) {
	dir, ok := l.Dir(c)
	if !ok {
		return nil, nil
	}
	return New(Config{
		BasePath:        dir,
		IncludePatterns: c.Include,
		ExcludePatterns: []string{"**/*.d.ts"},
		Cache:           cache,
	}).Scan()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
