// Package watch re-runs a verification whenever files under a directory
// change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers a run.
const DefaultDebounce = 200 * time.Millisecond

// Options configure a watcher.
type Options struct {
	Debounce time.Duration
	// Filter reports whether a changed file is relevant. Nil accepts all.
	Filter func(path string) bool
	Logger *slog.Logger
}

// Run calls fn once, then again after every debounced batch of changes
// under dir, until ctx is done. Runs never overlap. Errors from fn are
// logged and do not stop watching.
func Run(ctx context.Context, dir string, opts Options, fn func(ctx context.Context) error) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	run := func() {
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			opts.Logger.Warn("run failed", "error", err)
		}
	}
	run()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDir(watcher, event.Name); err != nil {
						opts.Logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if opts.Filter != nil && !opts.Filter(event.Name) {
				continue
			}

			pending = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(opts.Debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			opts.Logger.Info("change detected", "path", pending)
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDir recursively adds a directory to the watcher, skipping hidden
// directories and node_modules.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
