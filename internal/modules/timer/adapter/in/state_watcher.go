package in

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	timerin "focus/internal/modules/timer/port/in"
	"focus/internal/platform/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 100 * time.Millisecond

// StateWatcher refreshes the host whenever another process rewrites the
// active slot file.
type StateWatcher struct {
	path      string
	lifecycle timerin.Lifecycle
	debounce  time.Duration
	logger    zerolog.Logger
}

func NewStateWatcher(path string, lifecycle timerin.Lifecycle) *StateWatcher {
	return &StateWatcher{
		path:      filepath.Clean(path),
		lifecycle: lifecycle,
		debounce:  defaultDebounce,
		logger:    logging.WithComponent("timer.watcher"),
	}
}

// Run watches the slot's directory until ctx is cancelled. The directory is
// watched rather than the file because atomic replaces swap the inode.
func (w *StateWatcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if _, err := w.lifecycle.Refresh(ctx); err != nil {
				w.logger.Warn().Err(err).Msg("reconcile after slot change")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("slot watcher error")
		}
	}
}
