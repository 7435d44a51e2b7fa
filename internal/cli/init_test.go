// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/internal/config"
)

func TestDetectProjectInfo(t *testing.T) {
	tests := []struct {
		name        string
		packageJSON string
		want        projectInfo
	}{
		{
			name:        "simple name",
			packageJSON: `{"name": "shop", "version": "2.1.0"}`,
			want:        projectInfo{Name: "shop", Title: "Shop API", Version: "2.1.0"},
		},
		{
			name:        "name with hyphens",
			packageJSON: `{"name": "my-awesome-api", "description": "Orders and carts"}`,
			want:        projectInfo{Name: "my-awesome-api", Title: "My Awesome Api API", Description: "Orders and carts"},
		},
		{
			name:        "scoped package",
			packageJSON: `{"name": "@acme/order_service"}`,
			want:        projectInfo{Name: "@acme/order_service", Title: "Order Service API"},
		},
		{
			name:        "invalid json",
			packageJSON: `{"name": `,
			want:        projectInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte(tt.packageJSON), 0o644))

			assert.Equal(t, tt.want, detectProjectInfo(tmpDir))
		})
	}
}

func TestDetectProjectInfo_NoPackageJSON(t *testing.T) {
	info := detectProjectInfo(t.TempDir())

	assert.Empty(t, info.Name)
	assert.Empty(t, info.Title)
}

func TestDetectRoutesFile(t *testing.T) {
	tmpDir := t.TempDir()
	assert.Empty(t, detectRoutesFile(tmpDir))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "routes.yml"), []byte("[]"), 0o644))
	assert.Equal(t, "routes.yml", detectRoutesFile(tmpDir))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "routes.json"), []byte("[]"), 0o644))
	assert.Equal(t, "routes.json", detectRoutesFile(tmpDir))
}

func TestBuildConfigYAML(t *testing.T) {
	cfg := config.Default()
	cfg.Info.Title = "Shop API"
	cfg.Routes = "routes.yaml"

	yaml := buildConfigYAML(cfg)

	assert.Contains(t, yaml, "# apisynth configuration file")
	assert.Contains(t, yaml, "title: Shop API")
	assert.Contains(t, yaml, "routes: routes.yaml")
	assert.NotContains(t, yaml, "appPath")
	assert.NotEmpty(t, cfg.AppPath)
}

func TestInitCommand_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name": "shop", "version": "3.0.0"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.yaml"), []byte("[]"), 0o644))
	t.Chdir(dir)

	oldForce, oldQuiet := initForce, quiet
	t.Cleanup(func() { initForce, quiet = oldForce, oldQuiet })
	initForce, quiet = false, true

	require.NoError(t, runInit(initCmd, nil))

	cfg, err := config.Load("apisynth.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Shop API", cfg.Info.Title)
	assert.Equal(t, "3.0.0", cfg.Info.Version)
	assert.Equal(t, "routes.yaml", cfg.Routes)
	assert.Equal(t, filepath.Join(".", "app"), cfg.AppPath)
	require.NoError(t, cfg.Validate())

	err = runInit(initCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
