// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/apisynth/apisynth/internal/config"
	"github.com/apisynth/apisynth/internal/openapi"
	"github.com/apisynth/apisynth/internal/scanner"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for file changes and regenerate the document",
	Long: `Watch the application directory, the route table and package.json, and
regenerate the OpenAPI document when they change.

Changes are debounced: a burst of saves triggers a single regeneration.

Example:
  apisynth watch                          # Watch with the configured debounce
  apisynth watch --debounce 1000          # Wait 1s before regenerating`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: watch.debounce)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(cfg)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	printVerbose("Watch configuration:")
	printVerbose("  Debounce: %dms", cfg.Watch.Debounce)
	printInfo("Watching for changes in: %s", strings.Join(dirs, ", "))
	printInfo("Press Ctrl+C to stop")

	regenerate(ctx, cfg)
	return watchLoop(ctx, watcher, time.Duration(cfg.Watch.Debounce)*time.Millisecond,
		func(ev fsnotify.Event) bool { return relevant(cfg, ev) },
		func() { regenerate(ctx, cfg) },
	)
}

// regenerate runs one generation and writes the outputs. Failures are
// printed and the watch continues.
func regenerate(ctx context.Context, cfg *config.Config) {
	doc, err := buildDocument(ctx, cfg)
	if err != nil {
		printError("%v", err)
		return
	}
	written, err := openapi.NewWriter().WriteOutputs(doc, cfg.OutputDir(), cfg.OutputFileExtensions)
	if err != nil {
		printError("%v", err)
		return
	}
	printInfo("[%s] Regenerated %s", time.Now().Format(time.TimeOnly), strings.Join(written, ", "))
}

// watchDirs returns the project root and every directory below the app
// path. fsnotify does not watch recursively.
func watchDirs(cfg *config.Config) ([]string, error) {
	dirs := []string{filepath.Clean(cfg.Path)}
	if routesDir := filepath.Dir(cfg.RoutesPath()); filepath.Clean(routesDir) != dirs[0] {
		dirs = append(dirs, filepath.Clean(routesDir))
	}
	err := filepath.WalkDir(cfg.AppPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == cfg.AppPath {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", cfg.AppPath, err)
	}
	return dirs, nil
}

// relevant reports whether an event should trigger regeneration: a source
// file below the app path, the route table or package.json.
func relevant(cfg *config.Config, ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	path := filepath.Clean(ev.Name)
	switch path {
	case filepath.Clean(cfg.RoutesPath()), filepath.Join(filepath.Clean(cfg.Path), "package.json"):
		return true
	}
	rel, err := filepath.Rel(filepath.Clean(cfg.AppPath), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return scanner.IsSupportedFile(path)
}

// watchCreated adds a directory created under a watched path to w.
func watchCreated(w *fsnotify.Watcher, ev fsnotify.Event) error {
	if !ev.Has(fsnotify.Create) {
		return nil
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return nil
	}
	if err := w.Add(ev.Name); err != nil {
		return fmt.Errorf("failed to watch %s: %w", ev.Name, err)
	}
	return nil
}

// watchLoop waits for relevant events and calls onChange once per burst,
// after debounce has passed without further events. Created directories
// are added to the watcher.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, match func(fsnotify.Event) bool, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if err := watchCreated(w, ev); err != nil {
				printError("%v", err)
			}
			if !match(ev) {
				continue
			}
			printVerbose("Changed: %s", ev.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			printError("watch: %v", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}
