// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"os"
	"path/filepath"
	"sync"
)

// FileCache holds file contents read during one generation run, keyed by
// absolute path. It must not outlive the run. Safe for concurrent use.
type FileCache struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewFileCache creates an empty cache.
func NewFileCache() *FileCache {
	return &FileCache{files: make(map[string][]byte)}
}

// Read returns the content of path, reading it on first access. Failed
// reads are not cached.
func (c *FileCache) Read(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	data, ok := c.files[abs]
	c.mu.Unlock()
	if ok {
		return data, nil
	}

	data, err = os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.files[abs] = data
	c.mu.Unlock()
	return data, nil
}

// Len returns the number of cached files.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}
