// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs the build when its sources change.
//
// Filesystem events under BaseDir are filtered through doublestar globs and
// coalesced for a debounce period. Rebuilds run one at a time on a single
// worker: changes that arrive during a rebuild queue exactly one follow-up
// run, so a burst of saves never starts overlapping pipelines and never
// loses the last change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces an editor's write-then-rename into one rebuild.
const defaultDebounce = 300 * time.Millisecond

var (
	// ErrInvalidPattern is returned for a glob doublestar cannot parse.
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// defaultIgnores are never watched.
	defaultIgnores = []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the project root; patterns are relative to it. Empty
		// means the current directory.
		BaseDir string

		// Patterns select the files that trigger a rebuild. Empty matches
		// every non-ignored file.
		Patterns []string

		// Ignore adds to the default ignores. Build outputs belong here,
		// otherwise every rebuild triggers the next.
		Ignore []string

		// Debounce is the quiet period before a rebuild. Zero or negative
		// selects the default.
		Debounce time.Duration

		// Rebuild is called with the changed paths, relative to BaseDir.
		Rebuild func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// InvalidPatternError reports a bad glob in Patterns or Ignore.
	InvalidPatternError struct {
		Field   string
		Pattern string
		Err     error
	}

	// Watcher monitors BaseDir and rebuilds on change. Run must be called
	// exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		debounce time.Duration
		baseDir  string
		logger   *log.Logger
		started  atomic.Bool

		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		// kick holds at most one queued rebuild.
		kick chan struct{}
	}
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("watch: invalid %s pattern %q: %v", e.Field, e.Pattern, e.Err)
}

// Unwrap returns ErrInvalidPattern for errors.Is.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// IsValid reports whether every pattern parses, and the errors if not.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, group := range []struct {
		field    string
		patterns []string
	}{{"watch", c.Patterns}, {"ignore", c.Ignore}} {
		for _, pat := range group.patterns {
			if pat == "" || !doublestar.ValidatePattern(pat) {
				errs = append(errs, &InvalidPatternError{Field: group.field, Pattern: pat, Err: doublestar.ErrBadPattern})
			}
		}
	}
	return len(errs) == 0, errs
}

// New creates a Watcher and registers every non-ignored directory under
// BaseDir.
func New(cfg Config) (*Watcher, error) {
	if ok, errs := cfg.IsValid(); !ok {
		return nil, errors.Join(errs...)
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(discard{})
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		baseDir:  absBase,
		logger:   logger,
		pending:  make(map[string]struct{}),
		kick:     make(chan struct{}, 1),
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("watch: close after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error when the underlying watcher breaks. A rebuild in progress when ctx
// is cancelled is waited for.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()

	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("watch: close fsnotify", "err", err)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			w.handle(evt)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalWatchError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) handle(evt fsnotify.Event) {
	rel, err := filepath.Rel(w.baseDir, evt.Name)
	if err != nil {
		rel = evt.Name
	}
	if w.isIgnored(rel) {
		return
	}
	if evt.Has(fsnotify.Create) {
		w.maybeAddDir(evt.Name)
	}
	if !w.matches(rel) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[filepath.ToSlash(rel)] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.signal)
	} else {
		w.timer.Reset(w.debounce)
	}
}

// signal queues a rebuild; a queued one already covers this change.
func (w *Watcher) signal() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.kick:
		}

		w.mu.Lock()
		changed := slices.Sorted(maps.Keys(w.pending))
		clear(w.pending)
		w.mu.Unlock()

		if len(changed) == 0 || w.cfg.Rebuild == nil {
			continue
		}
		if err := w.cfg.Rebuild(ctx, changed); err != nil {
			w.logger.Error("rebuild failed", "err", err)
		}
	}
}

// addDirectories registers every non-ignored directory. Patterns are applied
// to events, not to directories.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // keep walking past unreadable directories
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}
		if rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch: add new directory", "path", path, "err", err)
	}
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matches(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
