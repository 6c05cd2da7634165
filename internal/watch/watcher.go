// Package watch emits change events for Markdown files under a content root.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/fehu/internal/checksum"
)

// EventCallback is called for each observed content change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

// Run starts an fsnotify watcher on root and reports .md file changes
// until ctx is cancelled. New directories created at runtime are added to
// the watch list automatically. A per-path checksum map suppresses the
// duplicate write events editors tend to fire.
func Run(ctx context.Context, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	sums := make(map[string]string)
	if err := addDirsRecursive(w, root, sums); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			path := ev.Name

			// New directories: watch them and report any .md files inside.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, path, nil); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", path),
							slog.String("error", addErr.Error()))
						continue
					}
					reportNewDir(path, sums, logger, cb)
					continue
				}
			}

			if !strings.HasSuffix(path, ".md") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := os.ReadFile(path)
				if readErr != nil {
					continue
				}
				sum := checksum.Sum(data)
				prev, known := sums[path]
				if known && prev == sum {
					continue
				}
				sums[path] = sum

				kind := "updated"
				if !known {
					kind = "created"
				}
				logger.Debug("watcher: changed", slog.String("path", path), slog.String("op", kind))
				if cb != nil {
					cb(kind, path)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify fires Rename on the old path only; the new path
				// arrives as a separate Create event.
				if _, known := sums[path]; !known {
					continue
				}
				delete(sums, path)
				logger.Debug("watcher: removed", slog.String("path", path))
				if cb != nil {
					cb("deleted", path)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reportNewDir emits created events for .md files in a directory that
// appeared after the watcher started (e.g. a moved-in folder).
func reportNewDir(dir string, sums map[string]string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		sums[path] = checksum.Sum(data)
		logger.Debug("watcher: found in new dir", slog.String("path", path))
		if cb != nil {
			cb("created", path)
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
// When sums is non-nil, existing .md files are fingerprinted so their
// first observed write is reported as an update, not a create.
func addDirsRecursive(w *fsnotify.Watcher, root string, sums map[string]string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if sums != nil && strings.HasSuffix(path, ".md") {
			if data, readErr := os.ReadFile(path); readErr == nil {
				sums[path] = checksum.Sum(data)
			}
		}
		return nil
	})
}
