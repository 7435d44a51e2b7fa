// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config holds scanner configuration.
type Config struct {
	// BasePath is the base directory for scanning (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns for files to include (e.g., "**/*.ts")
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude (e.g., "**/*.d.ts")
	ExcludePatterns []string

	// Cache, when set, serves file contents for the current run
	Cache *FileCache
}

// Scanner discovers source files below a directory.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = []string{"**/*.ts"}
	}
	if config.ExcludePatterns == nil {
		config.ExcludePatterns = []string{"**/*.d.ts"}
	}

	return &Scanner{
		config: config,
	}
}

// Scan discovers all source files matching the configuration, in lexical
// path order.
func (s *Scanner) Scan() ([]SourceFile, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	return s.ScanPath(basePath)
}

// ScanPath scans a specific path for source files.
func (s *Scanner) ScanPath(path string) ([]SourceFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		if !s.shouldIncludeFile(absPath) {
			return nil, nil
		}
		f, err := s.load(absPath, info)
		if err != nil {
			return nil, err
		}
		return []SourceFile{f}, nil
	}

	var files []SourceFile
	err = filepath.WalkDir(absPath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip inaccessible paths
			return nil
		}
		if d.IsDir() || !s.shouldIncludeFile(filePath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		f, err := s.load(filePath, info)
		if err != nil {
			// Skip files we can't read
			return nil
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// ScanPaths scans multiple paths for source files.
func (s *Scanner) ScanPaths(paths []string) ([]SourceFile, error) {
	var allFiles []SourceFile
	seen := make(map[string]bool)

	for _, path := range paths {
		files, err := s.ScanPath(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !seen[f.Path] {
				seen[f.Path] = true
				allFiles = append(allFiles, f)
			}
		}
	}

	return allFiles, nil
}

func (s *Scanner) load(path string, info fs.FileInfo) (SourceFile, error) {
	var content []byte
	var err error
	if s.config.Cache != nil {
		content, err = s.config.Cache.Read(path)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return SourceFile{}, fmt.Errorf("failed to read file: %w", err)
	}
	return SourceFile{
		Path:    path,
		Kind:    DetectKind(path),
		Content: content,
		ModTime: info.ModTime(),
	}, nil
}

// shouldIncludeFile checks a file against the include and exclude patterns.
func (s *Scanner) shouldIncludeFile(filePath string) bool {
	basePath, _ := filepath.Abs(s.config.BasePath)
	relPath, err := filepath.Rel(basePath, filePath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		relPath = filepath.Base(filePath)
	}
	relPath = filepath.ToSlash(relPath)

	if matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}
	return matchesPatterns(relPath, s.config.IncludePatterns)
}

// matchesPatterns checks if a path matches any of the given patterns.
func matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Invalid pattern, skip
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// FileCount returns a quick count of matching files without reading content.
func (s *Scanner) FileCount() (int, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve base path: %w", err)
	}

	count := 0
	err = filepath.WalkDir(basePath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if s.shouldIncludeFile(filePath) {
			count++
		}
		return nil
	})

	return count, err
}
