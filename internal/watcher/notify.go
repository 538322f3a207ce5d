package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// Watcher watches the non-ignored directories of a tree with fsnotify and
// emits debounced event batches.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	loader    *gitignore.Loader
	debouncer *Debouncer
	events    chan []FileEvent
	errors    chan error
	stopCh    chan struct{}
	opts      Options

	mu      sync.RWMutex
	root    string
	stopped bool

	// evalMu guards eval, which is not safe for concurrent use.
	evalMu sync.Mutex
	eval   *gitignore.Evaluator

	droppedBatches atomic.Uint64
}

// New creates a Watcher. It reads ignore files through its own cached
// loader over the OS filesystem.
func New(opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	loader, err := gitignore.NewLoader(fsys.OS(), gitignore.WithCache(opts.CacheSize))
	if err != nil {
		return nil, fmt.Errorf("create ignore file loader: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		loader:    loader,
		debouncer: NewDebouncer(opts.DebounceWindow),
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
		opts:      opts,
	}, nil
}

// Start watches root until ctx is cancelled or Stop is called. It blocks,
// returning ctx.Err() on cancellation and nil after Stop. A root that cannot
// be watched stops the watcher and returns the error.
func (w *Watcher) Start(ctx context.Context, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = w.Stop()
		return fmt.Errorf("resolve absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		_ = w.Stop()
		return fmt.Errorf("watch %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		_ = w.Stop()
		return fmt.Errorf("watch %s: not a directory", absRoot)
	}

	w.mu.Lock()
	w.root = absRoot
	w.mu.Unlock()

	if err := w.reload(ctx); err != nil {
		_ = w.Stop()
		return err
	}

	go w.forwardDebouncedEvents(ctx)

	if err := w.addRecursive(absRoot); err != nil {
		_ = w.Stop()
		return fmt.Errorf("add directories to watcher: %w", err)
	}
	slog.Debug("watching", slog.String("root", absRoot))

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// reload rebuilds the evaluator from every ignore file under the root.
func (w *Watcher) reload(ctx context.Context) error {
	collect := w.opts.Collect
	collect.Recursive = true

	set, err := gitignore.Collect(ctx, w.loader, filepath.ToSlash(w.RootPath()), collect)
	if err != nil {
		return fmt.Errorf("load ignore rules: %w", err)
	}

	w.evalMu.Lock()
	w.eval = gitignore.NewEvaluator(set)
	w.evalMu.Unlock()
	return nil
}

func (w *Watcher) ignored(abs string, isDir bool) bool {
	w.evalMu.Lock()
	defer w.evalMu.Unlock()
	return w.eval.Evaluate(filepath.ToSlash(abs), isDir).Excluded
}

// addRecursive watches dir and every non-ignored directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skipping unreadable directory",
				slog.String("path", p),
				slog.String("error", err.Error()))
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.RootPath() && (d.Name() == ".git" || w.ignored(p, true)) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(p)
	})
}

// handleEvent converts, filters, and queues one fsnotify event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	root := w.RootPath()
	rel, err := filepath.Rel(root, event.Name)
	if err != nil || rel == "." {
		return
	}
	rel = filepath.ToSlash(rel)
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return
	}

	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}

	base := filepath.Base(event.Name)
	if base == ".gitignore" && event.Op&fsnotify.Chmod != event.Op {
		w.loader.Invalidate(filepath.ToSlash(event.Name))
		if err := w.reload(ctx); err != nil {
			w.emitError(err)
			return
		}
		// Directories the old rules excluded may now need watching.
		if err := w.addRecursive(filepath.Dir(event.Name)); err != nil {
			w.emitError(err)
		}
		w.debouncer.Add(FileEvent{Path: rel, Operation: OpGitignoreChange, Timestamp: time.Now()})
		return
	}

	if w.ignored(event.Name, isDir) {
		return
	}

	if slices.Contains(w.opts.ConfigNames, base) && filepath.Dir(event.Name) == root {
		w.debouncer.Add(FileEvent{Path: rel, Operation: OpConfigChange, Timestamp: time.Now()})
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
		if isDir {
			if err := w.addRecursive(event.Name); err != nil {
				w.emitError(err)
			}
		}
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
	case event.Op&fsnotify.Rename != 0:
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(FileEvent{
		Path:      rel,
		Operation: op,
		IsDir:     isDir,
		Timestamp: time.Now(),
	})
}

// forwardDebouncedEvents forwards debounced batches to the output channel.
func (w *Watcher) forwardDebouncedEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case events, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			if len(events) > 0 {
				w.emitEvents(events)
			}
		}
	}
}

// emitEvents sends a batch without blocking. The read lock is held across
// the send so Stop cannot close the channel underneath it.
func (w *Watcher) emitEvents(events []FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}

	select {
	case w.events <- events:
	default:
		count := w.droppedBatches.Add(1)
		slog.Warn("event buffer full, dropping batch",
			slog.Int("batch_size", len(events)),
			slog.Uint64("total_dropped_batches", count),
		)
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}

	select {
	case w.errors <- err:
	default:
		slog.Warn("watcher error dropped", slog.String("error", err.Error()))
	}
}

// DroppedBatches returns the number of batches dropped due to a full buffer.
func (w *Watcher) DroppedBatches() uint64 {
	return w.droppedBatches.Load()
}

// Stop stops the watcher and closes its channels. Safe to call multiple
// times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.stopped = true
	close(w.stopCh)
	w.debouncer.Stop()
	_ = w.fsWatcher.Close()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel of batched file events.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns the channel of non-fatal errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// RootPath returns the root path being watched.
func (w *Watcher) RootPath() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.root
}
