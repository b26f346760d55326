package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/victor/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc rebuilds the site.
type RebuildFunc func(ctx context.Context) error

// Watcher rebuilds the site whenever a watched path changes. Directories are
// watched recursively; plain files are matched by exact path.
type Watcher struct {
	Paths    []string
	Rebuild  RebuildFunc
	Debounce time.Duration
	Status   *BuildStatus
	Reload   *ReloadHub
	Logger   *slog.Logger

	dirs  []string
	files map[string]bool
}

// Run watches until ctx is canceled. Missing paths are skipped.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Rebuild == nil {
		return errors.New("preview: watcher has no rebuild function")
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	if w.Debounce <= 0 {
		w.Debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := w.addPaths(fw); err != nil {
		return err
	}

	rebuildReq, trigger := w.setupDebouncer()
	w.startWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) addPaths(fw *fsnotify.Watcher) error {
	w.files = map[string]bool{}
	w.dirs = nil
	watchedParents := map[string]bool{}
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		fi, err := os.Stat(abs)
		if err != nil {
			w.Logger.Debug("watch path skipped", logfields.Path(abs), logfields.Error(err))
			continue
		}
		if fi.IsDir() {
			w.dirs = append(w.dirs, abs)
			addDirsRecursive(fw, abs, w.Logger)
			continue
		}
		// Editors often replace files on save, so the parent is watched.
		w.files[abs] = true
		parent := filepath.Dir(abs)
		if !watchedParents[parent] {
			watchedParents[parent] = true
			if err := fw.Add(parent); err != nil {
				w.Logger.Warn("watch add failed", logfields.Path(parent), logfields.Error(err))
			}
		}
	}
	return nil
}

// relevant reports whether path belongs to something the watcher was asked
// to follow. Watching a file's parent must not pull in its siblings.
func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	for _, d := range w.dirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	name := filepath.Clean(ev.Name)
	if shouldIgnoreEvent(name) || !w.relevant(name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(name); err == nil && fi.IsDir() {
			addDirsRecursive(fw, name, w.Logger)
		}
	}
	w.Logger.Debug("File change detected", logfields.Path(name), logfields.Event(ev.Op.String()))
	trigger()
}

func (w *Watcher) setupDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.Debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// startWorker runs rebuilds one at a time on a single goroutine, so builds
// never overlap in the output directory. rebuildReq holds at most one
// request, which folds changes made during a build into one follow-up build.
func (w *Watcher) startWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				w.rebuild(ctx)
			}
		}
	}()
}

func (w *Watcher) rebuild(ctx context.Context) {
	w.Logger.Info("Change detected; rebuilding site")
	if err := w.Rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.Logger.Warn("rebuild failed", logfields.Error(err))
		if w.Status != nil {
			w.Status.SetError(err)
		}
		return
	}
	if w.Status != nil {
		w.Status.SetSuccess()
	}
	if w.Reload != nil {
		w.Reload.Broadcast(strconv.FormatInt(time.Now().UnixNano(), 10))
	}
}

func addDirsRecursive(fw *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden files and editor droppings.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", strings.HasSuffix(base, ".tmp"):
		return true
	}
	return false
}
