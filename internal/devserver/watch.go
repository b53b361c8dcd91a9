package devserver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RebuildFunc regenerates the site after a change.
type RebuildFunc func(ctx context.Context) error

// Watcher runs a rebuild after file changes settle.
type Watcher struct {
	paths    []string
	debounce time.Duration
	rebuild  RebuildFunc
	log      *zap.Logger
}

// NewWatcher watches paths (directories are watched recursively, files
// individually). Missing paths are skipped.
func NewWatcher(paths []string, debounce time.Duration, rebuild RebuildFunc, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{paths: paths, debounce: debounce, rebuild: rebuild, log: log}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	for _, p := range w.paths {
		w.add(fw, p)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				w.add(fw, ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.log.Info("rebuilding site")
			if err := w.rebuild(ctx); err != nil {
				w.log.Error("rebuild failed", zap.Error(err))
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) add(fw *fsnotify.Watcher, root string) {
	info, err := os.Stat(root)
	if err != nil {
		w.log.Info("not watching missing path", zap.String("path", root))
		return
	}
	if !info.IsDir() {
		if err := fw.Add(root); err != nil {
			w.log.Warn("failed to watch", zap.String("path", root), zap.Error(err))
		}
		return
	}
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("walk failed", zap.String("path", p), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(p); err != nil {
				w.log.Warn("failed to watch", zap.String("path", p), zap.Error(err))
			}
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
