package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Config configures a workspace watcher.
type Config struct {
	// Debounce is the quiet window before a batch of changes is reported.
	Debounce time.Duration
	// Ignore is a set of doublestar globs matched against the
	// slash-separated workspace-relative path.
	Ignore []string
}

// Watcher watches a workspace tree recursively and reports batches of
// changed paths after a debounce window.
type Watcher struct {
	root      string
	cfg       Config
	fsWatcher *fsnotify.Watcher
	debouncer *debouncer
	done      chan struct{}
}

// New creates a watcher rooted at root. onBatch receives deduplicated
// absolute paths after each quiet window.
func New(root string, cfg Config, onBatch func(paths []string)) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		root:      abs,
		cfg:       cfg,
		fsWatcher: fw,
		done:      make(chan struct{}),
	}
	w.debouncer = newDebouncer(cfg.Debounce, onBatch)
	return w, nil
}

// Start registers the workspace tree and begins dispatching events.
// Unreadable or ignored subtrees are skipped silently.
func (w *Watcher) Start() error {
	if err := w.addTree(w.root); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Close stops event dispatch and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	w.debouncer.stop()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Watch errors (overflow, removed roots) are not actionable
			// here; the next event batch re-reads the filesystem anyway.
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if w.ignored(ev.Name) {
		return
	}

	// New directories must be registered so changes below them are seen.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addTree(ev.Name)
		}
	}

	w.debouncer.add(ev.Name)
}

func (w *Watcher) addTree(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		if w.ignored(sub) {
			continue
		}
		_ = w.addTree(sub)
	}
	return nil
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range w.cfg.Ignore {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}
