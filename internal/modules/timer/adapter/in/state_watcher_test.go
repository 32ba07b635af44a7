package in_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	timerin "focus/internal/modules/timer/adapter/in"
)

func TestStateWatcherRefreshesOnSlotChange(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "active-session.json")
	engine := &fakeEngine{notified: make(chan struct{}, 1)}
	w := timerin.NewStateWatcher(path, engine)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	}()

	// Unrelated files in the directory are ignored; the slot file triggers a reconcile.
	deadline := time.After(5 * time.Second)
	for {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644); err != nil {
			t.Fatalf("write other: %v", err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write slot: %v", err)
		}
		select {
		case <-engine.notified:
			for _, call := range engine.history() {
				if call == "foreground" {
					t.Fatalf("slot change must refresh, not foreground the host: %v", engine.history())
				}
			}
			return
		case <-time.After(300 * time.Millisecond):
		case <-deadline:
			t.Fatalf("watcher never reconciled")
		}
	}
}
