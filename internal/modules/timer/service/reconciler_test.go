package service_test

import (
	"context"
	"testing"
	"time"

	"focus/internal/modules/timer/domain"
	"focus/internal/modules/timer/service"
)

func TestBackgroundTimeCountsAgainstRunningSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.controller.Start(ctx, focusMode, 1500, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.Advance(3 * time.Second)
	h.reconciler.Background(ctx)
	if h.ticker.current() != "" {
		t.Fatalf("background must stop ticking")
	}
	if h.scheduler.armed() != res.Record.ID {
		t.Fatalf("background must leave the notification armed")
	}

	for _, n := range []int{1, 59, 437} {
		before, err := h.controller.Status(ctx)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		h.reconciler.Background(ctx)
		h.clock.Advance(time.Duration(n) * time.Second)
		after, err := h.reconciler.Foreground(ctx)
		if err != nil {
			t.Fatalf("foreground: %v", err)
		}
		if diff := before.Remaining - after.Remaining; diff < n-1 || diff > n+1 {
			t.Fatalf("background %ds reduced remaining by %d", n, diff)
		}
		if h.ticker.current() != res.Record.ID {
			t.Fatalf("foreground must restart ticking")
		}
	}
}

func TestForegroundCompletesSessionThatElapsedInBackground(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, service.WithPermission(permission(false)))

	res, err := h.controller.Start(ctx, focusMode, 1500, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if res.Warning == nil {
		t.Fatalf("expected scheduling warning with notifications denied")
	}
	h.reconciler.Background(ctx)
	h.clock.Advance(2 * time.Hour)

	snapshot, err := h.reconciler.Foreground(ctx)
	if err != nil {
		t.Fatalf("foreground: %v", err)
	}
	if snapshot.State != domain.StateCompleted || snapshot.Remaining != 0 {
		t.Fatalf("snapshot = %+v, want completed", snapshot)
	}
	events := h.listener.all()
	if len(events) != 1 || events[0].ActualActiveSeconds != 1500 {
		t.Fatalf("events = %+v", events)
	}
	if !events[0].EndedAt.Equal(t0.Add(2 * time.Hour)) {
		t.Fatalf("endedAt = %v", events[0].EndedAt)
	}

	again, err := h.reconciler.Foreground(ctx)
	if err != nil {
		t.Fatalf("second foreground: %v", err)
	}
	if again.State != domain.StateIdle {
		t.Fatalf("expected idle, got %s", again.State)
	}
	if len(h.listener.all()) != 1 {
		t.Fatalf("second foreground must not emit again")
	}
}

func TestForegroundPausedAndIdle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	idle, err := h.reconciler.Foreground(ctx)
	if err != nil {
		t.Fatalf("foreground idle: %v", err)
	}
	if idle.State != domain.StateIdle {
		t.Fatalf("expected idle, got %s", idle.State)
	}
	tick, ok := h.publisher.last()
	if !ok || tick.State != domain.StateIdle {
		t.Fatalf("idle foreground should publish idle, got %+v", tick)
	}

	if _, err := h.controller.Start(ctx, focusMode, 600, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.Advance(100 * time.Second)
	if _, err := h.controller.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	h.clock.Advance(time.Hour)
	paused, err := h.reconciler.Foreground(ctx)
	if err != nil {
		t.Fatalf("foreground paused: %v", err)
	}
	if paused.State != domain.StatePaused || paused.Remaining != 500 {
		t.Fatalf("paused snapshot = %+v", paused)
	}
	if h.ticker.current() != "" {
		t.Fatalf("paused sessions must not tick")
	}
}

func TestRefreshWhileBackgroundedLeavesTickerStopped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.controller.Start(ctx, focusMode, 600, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.reconciler.Foreground(ctx); err != nil {
		t.Fatalf("foreground: %v", err)
	}
	h.reconciler.Background(ctx)

	// Another process pauses and resumes, rewriting the slot.
	h.clock.Advance(100 * time.Second)
	rec := *h.store.current()
	rec.AccumulatedActiveSeconds = 100
	rec.StartedAt = h.clock.Now().UnixMilli()
	if err := h.store.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	snap, err := h.reconciler.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if snap.State != domain.StateRunning || snap.Remaining != 500 {
		t.Fatalf("snapshot = %+v, want running with 500 left", snap)
	}
	if id := h.ticker.current(); id != "" {
		t.Fatalf("ticker restarted for %s while the host is in the background", id)
	}

	// Expiry seen while backgrounded is left to the notification.
	h.clock.Advance(600 * time.Second)
	if _, err := h.reconciler.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(h.listener.all()) != 0 || h.store.current() == nil {
		t.Fatalf("refresh in background must not complete the session")
	}

	after, err := h.reconciler.Foreground(ctx)
	if err != nil {
		t.Fatalf("foreground: %v", err)
	}
	if after.State != domain.StateCompleted {
		t.Fatalf("foreground state = %s, want completed", after.State)
	}
	if events := h.listener.all(); len(events) != 1 || events[0].SessionID != res.Record.ID {
		t.Fatalf("events = %+v", events)
	}
}

func TestRefreshWhileForegroundedFollowsSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.controller.Start(ctx, focusMode, 600, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.reconciler.Foreground(ctx); err != nil {
		t.Fatalf("foreground: %v", err)
	}

	h.clock.Advance(100 * time.Second)
	rec := *h.store.current()
	rec.State = domain.StatePaused
	rec.FrozenRemaining = 500
	rec.AccumulatedActiveSeconds = 100
	if err := h.store.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := h.reconciler.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if id := h.ticker.current(); id != "" {
		t.Fatalf("paused slot must stop the ticker, still ticking %s", id)
	}

	rec.State = domain.StateRunning
	rec.FrozenRemaining = 0
	rec.StartedAt = h.clock.Now().UnixMilli()
	if err := h.store.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := h.reconciler.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if h.ticker.current() != res.Record.ID {
		t.Fatalf("resumed slot must restart the ticker while foregrounded")
	}
}
