package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/alnah/go-tex2epub/internal/fileutil"
)

// watchDebounce coalesces the bursts of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// runWatch converts a book, then converts it again on every source change
// until the context is canceled.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	f, roots, err := parseConvertFlags("watch", args, printWatchUsage, env.Stderr)
	if err != nil {
		return err
	}
	switch {
	case len(roots) == 0:
		return ErrNoInput
	case len(roots) > 1:
		return fmt.Errorf("%w: watch takes exactly one root file", ErrUsage)
	}

	cfg, err := loadSettings(f)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, f.common.verbose, f.common.quiet)
	defer func() { _ = logger.Sync() }()

	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}
	jobs, err := planBooks(roots, cfg)
	if err != nil {
		return err
	}
	job := jobs[0]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	w := &bookWatcher{
		root:      job.root,
		extension: cfg.Source.Extension,
		delay:     watchDebounce,
		logger:    logger,
		add:       watcher.Add,
		convert: func(ctx context.Context) BookResult {
			return convertBook(ctx, conv, job, cfg)
		},
		report: func(r BookResult) {
			printResults([]BookResult{r}, f.common.quiet, f.common.verbose, env)
		},
	}

	w.rebuild(ctx)
	logger.Info("watching for changes", zap.String("root", job.root))
	return w.loop(ctx, watcher.Events, watcher.Errors)
}

// bookWatcher reconverts a book when one of its source files changes.
type bookWatcher struct {
	root      string
	extension string
	delay     time.Duration
	logger    *zap.Logger
	add       func(dir string) error // starts watching a directory
	convert   func(ctx context.Context) BookResult
	report    func(BookResult)

	sources map[string]bool // canonical paths of every source file seen
	dirs    map[string]bool // directories being watched
}

// rebuild converts the book once and watches the directories of its sources.
// Sources accumulate across runs, so a file dropped from the book is still
// watched.
func (w *bookWatcher) rebuild(ctx context.Context) {
	result := w.convert(ctx)
	w.report(result)
	w.track(append([]string{w.root}, result.Sources...))
}

// track records source files and watches their directories.
func (w *bookWatcher) track(files []string) {
	if w.sources == nil {
		w.sources = make(map[string]bool)
		w.dirs = make(map[string]bool)
	}
	for _, file := range files {
		w.sources[fileutil.CanonicalPath(file)] = true

		dir := filepath.Dir(file)
		if w.dirs[dir] {
			continue
		}
		if err := w.add(dir); err != nil {
			w.logger.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		w.dirs[dir] = true
	}
}

// relevant reports whether a change to path can affect the book: a known
// source, or any file with the source extension (a missing include may be
// created later).
func (w *bookWatcher) relevant(path string) bool {
	return w.sources[fileutil.CanonicalPath(path)] || fileutil.HasExtension(path, w.extension)
}

// loop waits for relevant events and rebuilds once they stop arriving for
// the debounce delay. Returns nil when ctx is canceled or a channel closes.
func (w *bookWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !w.relevant(event.Name) {
				continue
			}
			w.logger.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			pending = time.After(w.delay)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			w.rebuild(ctx)
		}
	}
}
