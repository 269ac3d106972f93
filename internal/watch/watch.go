// Package watch reports new .mp4 files in a directory once they have stopped
// changing, handing them to a callback one at a time.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"autosub/internal/logging"
)

// DefaultSettle is how long a file must go without events before it is
// handed to the handler.
const DefaultSettle = 2 * time.Second

// Handler processes one settled file. Errors are logged and do not stop the
// watcher.
type Handler func(ctx context.Context, path string) error

// Watcher monitors a single directory.
type Watcher struct {
	dir     string
	handler Handler
	settle  time.Duration
	logger  *slog.Logger
}

// New constructs a watcher for dir. A zero settle uses DefaultSettle.
func New(dir string, handler Handler, settle time.Duration, logger *slog.Logger) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		dir:     dir,
		handler: handler,
		settle:  settle,
		logger:  logging.NewComponentLogger(logger, "watch"),
	}
}

// IsVideo reports whether path has the .mp4 extension, in any case.
func IsVideo(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp4")
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("add watch path: %w", err)
	}

	w.logger.Info("watching directory",
		logging.String("dir", w.dir),
		logging.Duration("settle", w.settle),
		logging.String(logging.FieldEventType, "watch_start"),
	)

	pending := make(map[string]time.Time)
	handled := make(map[string]struct{})
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", logging.String(logging.FieldEventType, "watch_stop"))
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsVideo(event.Name) {
				w.logger.Debug("ignoring non-video file", logging.String("path", event.Name))
				continue
			}
			if _, done := handled[event.Name]; done {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "raise fs.inotify limits if events overflow"),
				logging.String(logging.FieldImpact, "some new files may be missed"),
			)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				delete(pending, path)
				handled[path] = struct{}{}
				w.logger.Info("new video detected", logging.String("path", path))
				if err := w.handler(ctx, path); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					w.logger.Error("failed to process file",
						logging.String("path", path),
						logging.Error(err),
						logging.String(logging.FieldEventType, "watch_process_failed"),
					)
				}
			}
		}
	}
}

// settled returns the pending paths quiet for at least settle, oldest first.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		return pending[ready[i]].Before(pending[ready[j]])
	})
	return ready
}
