// Package watch re-runs a callback when documentation files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gomdrules/internal/logging"
)

// DefaultDebounce is the quiet period after the last event before the
// handler runs.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the sorted, de-duplicated set of changed files.
type Handler func(ctx context.Context, paths []string) error

// Options configures a Watcher.
type Options struct {
	// Paths are files or directories to watch. Directories are watched
	// recursively; hidden directories are skipped.
	Paths []string

	// Extensions limits events to files with these extensions.
	// Empty means every file.
	Extensions []string

	// Debounce is the quiet period before the handler runs.
	// Zero means DefaultDebounce.
	Debounce time.Duration

	// Logger receives watcher diagnostics. Defaults to logging.Default().
	Logger *log.Logger
}

// Watcher batches filesystem events and hands them to a Handler.
type Watcher struct {
	fsw       *fsnotify.Watcher
	opts      Options
	logger    *log.Logger
	debouncer *debouncer
}

// New creates a Watcher and registers all directories under opts.Paths.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:       fsw,
		opts:      opts,
		logger:    logger,
		debouncer: newDebouncer(opts.Debounce),
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, path := range paths {
		if err := w.add(path); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// add registers path. Files are watched through their parent directory.
func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.watchDir(filepath.Dir(path))
	}
	return w.addRecursive(path)
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watchDir(path)
	})
}

func (w *Watcher) watchDir(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching directory", logging.FieldPath, dir)
	return nil
}

// WatchList returns the directories currently registered.
func (w *Watcher) WatchList() []string {
	list := w.fsw.WatchList()
	sort.Strings(list)
	return list
}

// Run dispatches batched changes to handler until ctx is cancelled.
// Handler errors are logged, not returned. Run returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	defer w.debouncer.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.FieldError, err)

		case paths := <-w.debouncer.output:
			if err := handler(ctx, paths); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("watch handler failed", logging.FieldError, err)
			}
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	w.debouncer.stop()
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.addRecursive(event.Name); err != nil {
					w.logger.Warn("watch new directory", logging.FieldPath, event.Name, logging.FieldError, err)
				}
			}
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}

	w.logger.Debug("file changed", logging.FieldPath, event.Name, logging.FieldEvent, event.Op.String())
	w.debouncer.add(event.Name)
}

func (w *Watcher) matches(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if len(w.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.opts.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// debouncer collects paths and emits them once no new path has arrived
// for delay.
type debouncer struct {
	delay   time.Duration
	output  chan []string
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		output:  make(chan []string, 1),
		pending: make(map[string]struct{}),
	}
}

func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	sort.Strings(paths)

	// A batch still waiting to be handled absorbs the new one.
	for {
		select {
		case d.output <- paths:
			return
		case queued := <-d.output:
			paths = mergeSorted(queued, paths)
		}
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func mergeSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, p := range a {
		set[p] = struct{}{}
	}
	for _, p := range b {
		set[p] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
