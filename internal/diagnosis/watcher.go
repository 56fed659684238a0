package diagnosis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/fsutil"
)

// DefaultDebounce groups bursts of editor writes into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a Loader when network files change.
type Watcher struct {
	loader   *Loader
	watcher  *fsnotify.Watcher
	debounce time.Duration
	ext      string

	stopOnce sync.Once
	done     chan struct{}
	// reloads is signalled after every reload attempt.
	reloads chan error
}

// Watch starts watching paths (files or directories) and calls
// loader.Reload after changes to files with extension ext settle.
func Watch(ctx context.Context, loader *Loader, paths []string, ext string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		loader:   loader,
		watcher:  fw,
		debounce: debounce,
		ext:      ext,
		done:     make(chan struct{}),
		reloads:  make(chan error, 1),
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	go w.loop(ctx)
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.watcher.Add(filepath.Dir(path))
	}
	if err := w.watcher.Add(path); err != nil {
		return err
	}
	files, err := fsutil.FindFilesByExtension(path, w.ext)
	if err != nil {
		return err
	}
	seen := map[string]bool{path: true}
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			if err := w.watcher.Add(dir); err != nil {
				return err
			}
		}
	}
	return nil
}

// addCreatedDir watches a directory that appeared after Watch started. It
// reports whether the directory already holds network files, which may have
// been written before the watch was in place.
func (w *Watcher) addCreatedDir(ctx context.Context, path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	if err := w.add(path); err != nil {
		ctxlog.FromContext(ctx).Warn("Cannot watch new directory.", "path", path, "error", err)
		return false
	}
	files, err := fsutil.FindFilesByExtension(path, w.ext)
	return err == nil && len(files) > 0
}

// Reloads delivers the result of each reload attempt. Results are dropped
// when nobody is listening.
func (w *Watcher) Reloads() <-chan error { return w.reloads }

// Stop ends watching.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && w.addCreatedDir(ctx, event.Name) {
				logger.Debug("Network directory created.", "path", event.Name)
			} else if !strings.HasSuffix(event.Name, w.ext) || event.Op == fsnotify.Chmod {
				continue
			} else {
				logger.Debug("Network file changed.", "path", event.Name, "op", event.Op.String())
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			err := w.loader.Reload(ctx)
			if err != nil {
				logger.Error("Reload after file change failed, keeping previous model.", "error", err)
			}
			select {
			case w.reloads <- err:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}
