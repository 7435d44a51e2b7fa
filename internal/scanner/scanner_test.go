// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/internal/project"
)

// setupTestDir creates a temporary directory with test files.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}

	return tmpDir
}

func relPaths(t *testing.T, base string, files []SourceFile) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(base, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestNew_DefaultConfig(t *testing.T) {
	scanner := New(Config{})

	assert.Equal(t, ".", scanner.config.BasePath)
	assert.Equal(t, []string{"**/*.ts"}, scanner.config.IncludePatterns)
	assert.Equal(t, []string{"**/*.d.ts"}, scanner.config.ExcludePatterns)
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"user.ts":          "export default class User {}",
		"post.ts":          "export default class Post {}",
		"nested/team.ts":   "export default class Team {}",
		"globals.d.ts":     "declare module 'x'",
		"readme.md":        "# README",
		"legacy/helper.js": "module.exports = {}",
	})

	files, err := New(Config{BasePath: tmpDir}).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/team.ts", "post.ts", "user.ts"}, relPaths(t, tmpDir, files))

	for _, f := range files {
		assert.Equal(t, "typescript", f.Kind)
		assert.NotEmpty(t, f.Content)
		assert.False(t, f.ModTime.IsZero())
	}
}

func TestScanner_Scan_Patterns(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"user_serializer.ts":  "export const UserSerializer = {}",
		"schemas.json":        "{}",
		"schemas.yaml":        "a: 1",
		"vendor/generated.ts": "export {}",
	})

	files, err := New(Config{
		BasePath:        tmpDir,
		IncludePatterns: []string{"**/*.ts", "**/*.json", "**/*.yaml"},
		ExcludePatterns: []string{"vendor/**"},
	}).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"schemas.json", "schemas.yaml", "user_serializer.ts"}, relPaths(t, tmpDir, files))

	kinds := map[string]string{}
	for _, f := range files {
		kinds[filepath.Base(f.Path)] = f.Kind
	}
	assert.Equal(t, "json", kinds["schemas.json"])
	assert.Equal(t, "yaml", kinds["schemas.yaml"])
}

func TestScanner_ScanPath(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"user.ts":   "export {}",
		"readme.md": "# README",
	})
	scanner := New(Config{BasePath: tmpDir})

	files, err := scanner.ScanPath(filepath.Join(tmpDir, "user.ts"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "typescript", files[0].Kind)

	files, err = scanner.ScanPath(filepath.Join(tmpDir, "readme.md"))
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = scanner.ScanPath("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestScanner_ScanPaths_DeduplicatesFiles(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"a/user.ts": "export {}",
		"b/post.ts": "export {}",
	})
	scanner := New(Config{BasePath: tmpDir})

	files, err := scanner.ScanPaths([]string{tmpDir, filepath.Join(tmpDir, "a")})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScanner_FileCount(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"user.ts":      "export {}",
		"post.ts":      "export {}",
		"types.d.ts":   "export {}",
		"notes.txt":    "x",
		"deep/team.ts": "export {}",
	})

	count, err := New(Config{BasePath: tmpDir}).FileCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestScanner_UsesCache(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{"user.ts": "first"})
	cache := NewFileCache()
	scanner := New(Config{BasePath: tmpDir, Cache: cache})

	files, err := scanner.Scan()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "first", string(files[0].Content))
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "user.ts"), []byte("second"), 0o644))

	files, err = scanner.Scan()
	require.NoError(t, err)
	assert.Equal(t, "first", string(files[0].Content))

	files, err = New(Config{BasePath: tmpDir, Cache: NewFileCache()}).Scan()
	require.NoError(t, err)
	assert.Equal(t, "second", string(files[0].Content))
}

func TestFileCache_Read(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{"a.ts": "a"})
	cache := NewFileCache()

	abs, err := cache.Read(filepath.Join(tmpDir, "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(abs))

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, filepath.Join(tmpDir, "a.ts"))
	require.NoError(t, err)
	_, err = cache.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	_, err = cache.Read(filepath.Join(tmpDir, "missing.ts"))
	assert.Error(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestLayout_Dir(t *testing.T) {
	t.Run("lower-case wins", func(t *testing.T) {
		root := setupTestDir(t, map[string]string{
			"app/models/user.ts":  "x",
			"app/Models/Legacy.ts": "x",
		})
		l := Layout{Root: root, AppPath: filepath.Join(root, "app")}

		dir, ok := l.Dir(Models)
		require.True(t, ok)
		// Case-insensitive filesystems resolve both names to one directory.
		assert.Equal(t, "models", filepath.Base(dir))
	})

	t.Run("legacy fallback", func(t *testing.T) {
		root := setupTestDir(t, map[string]string{"app/Types/status.ts": "x"})
		l := Layout{Root: root, AppPath: filepath.Join(root, "app")}

		dir, ok := l.Dir(Enums)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "app", "Types"), dir)
	})

	t.Run("import alias", func(t *testing.T) {
		root := setupTestDir(t, map[string]string{"src/validators/user.ts": "x"})
		l := Layout{
			Root:    root,
			AppPath: filepath.Join(root, "app"),
			Paths:   project.Paths{"#validators": "src/validators"},
		}

		dir, ok := l.Dir(Validators)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "src", "validators"), dir)
	})

	t.Run("missing", func(t *testing.T) {
		root := t.TempDir()
		l := Layout{Root: root, AppPath: filepath.Join(root, "app")}

		_, ok := l.Dir(Serializers)
		assert.False(t, ok)

		files, err := l.Scan(Serializers, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestLayout_Scan(t *testing.T) {
	root := setupTestDir(t, map[string]string{
		"app/serializers/user.ts":     "x",
		"app/serializers/extra.yaml":  "x",
		"app/serializers/notes.md":    "x",
		"app/interfaces/user.ts":      "x",
		"app/interfaces/shims.d.ts":   "x",
		"app/validators/user.js":      "x",
		"app/validators/fixture.json": "x",
	})
	l := Layout{Root: root, AppPath: filepath.Join(root, "app")}
	cache := NewFileCache()

	files, err := l.Scan(Serializers, cache)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = l.Scan(Interfaces, cache)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = l.Scan(Validators, cache)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "javascript", files[0].Kind)

	assert.Equal(t, 4, cache.Len())
}
