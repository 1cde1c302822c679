// Package watch re-runs the validation pipeline when project files change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stencilcms/stencil/internal/checksum"
)

// DefaultDebounce is the delay between the last file event and a rerun.
const DefaultDebounce = 300 * time.Millisecond

// Watch starts an fsnotify watcher on the project root and processes file
// change events until ctx is cancelled, invoking onChange after each
// debounced batch of relevant changes.
//
// New directories created at runtime are automatically added to the watch
// list. Write events that leave a file's checksum unchanged (editor saves
// without modification, metadata-only touches) are suppressed.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	tracker := newTracker(root)
	logger.Info("watcher: started", slog.String("root", root))

	var rerunTimer *time.Timer
	var rerunCh <-chan time.Time

	scheduleRerun := func() {
		if rerunTimer == nil {
			rerunTimer = time.NewTimer(debounce)
			rerunCh = rerunTimer.C
		} else {
			rerunTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rerunTimer != nil {
				rerunTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-rerunCh:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !tracker.Changed(ev.Name, ev.Op) {
				continue
			}
			logger.Debug("watcher: change detected",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			scheduleRerun()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}

// tracker remembers per-file content checksums so events that don't change
// content are ignored.
type tracker struct {
	root string
	sums map[string]string
}

func newTracker(root string) *tracker {
	return &tracker{root: root, sums: map[string]string{}}
}

// Changed reports whether the event represents a real content change and
// updates the tracked checksum.
func (t *tracker) Changed(path string, op fsnotify.Op) bool {
	if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if _, known := t.sums[path]; known {
			delete(t.sums, path)
			return true
		}
		return true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	sum := checksum.Sum(data)
	if t.sums[path] == sum {
		return false
	}
	t.sums[path] = sum
	return true
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
