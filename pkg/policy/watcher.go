package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the custom pattern file for changes and reloads the
// evaluator. Reloads are debounced so editors that write in multiple
// operations trigger a single reload.
type Watcher struct {
	path      string
	evaluator *Evaluator
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	logger    *slog.Logger
}

// NewWatcher creates a watcher for the given pattern file. The file's
// directory is watched rather than the file itself so atomic
// rename-into-place writes are observed.
func NewWatcher(path string, evaluator *Evaluator, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	return &Watcher{
		path:      path,
		evaluator: evaluator,
		watcher:   fw,
		debounce:  100 * time.Millisecond,
		logger:    logger.With("component", "policy.watcher"),
	}, nil
}

// Watch blocks until the context is cancelled, reloading the pattern
// file whenever it changes. A pattern file that fails to load keeps the
// previous pattern set active.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("pattern file watch error", "error", err)

		case <-pending:
			w.reload()
		}
	}
}

// reload loads the pattern file and swaps it into the evaluator.
func (w *Watcher) reload() {
	patterns, err := LoadPatternFile(w.path)
	if err != nil {
		w.logger.Error("pattern reload failed, keeping previous patterns",
			"path", w.path,
			"error", err,
		)
		return
	}
	w.evaluator.Reload(patterns)
	w.logger.Info("custom redaction patterns reloaded",
		"path", w.path,
		"pattern_count", len(patterns),
	)
}
