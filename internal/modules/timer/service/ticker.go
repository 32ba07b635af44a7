package service

import (
	"context"
	"sync"
	"time"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
	"focus/internal/platform/clock"
	"focus/internal/platform/metrics"
)

// TickSource produces tick events at interval. stop releases its resources.
type TickSource func(interval time.Duration) (ticks <-chan time.Time, stop func())

func systemTicks(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// ForegroundTicker refreshes the visible countdown while the app is in the
// foreground and a session is running. It only reads elapsed time from the
// record; it keeps no counter of its own, so it can be thrown away and rebuilt
// at any moment.
type ForegroundTicker struct {
	clock     clock.Clock
	interval  time.Duration
	publisher timerout.TickPublisher
	source    TickSource

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	sessionID string

	// publishMu is held around each tick publish; Stop takes it after cancelling
	// so no tick of a stopped loop is published once Stop returns.
	publishMu sync.Mutex
}

type TickerOption func(*ForegroundTicker)

func WithTickSource(source TickSource) TickerOption {
	return func(t *ForegroundTicker) { t.source = source }
}

func NewForegroundTicker(clk clock.Clock, interval time.Duration, publisher timerout.TickPublisher, opts ...TickerOption) *ForegroundTicker {
	if interval <= 0 {
		interval = time.Second
	}
	t := &ForegroundTicker{
		clock:     clk,
		interval:  interval,
		publisher: publisher,
		source:    systemTicks,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start replaces any running loop with one for record. onExpire runs once, from
// the loop goroutine, when remaining reaches zero; the loop exits afterwards.
func (t *ForegroundTicker) Start(record domain.SessionRecord, onExpire func(sessionID string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	ticks, stop := t.source(t.interval)
	t.cancel = cancel
	t.done = done
	t.sessionID = record.ID
	go t.loop(ctx, done, record, ticks, stop, onExpire)
}

// Stop cancels the loop and waits out a tick being published, but not the loop
// itself, so it may be called from onExpire.
func (t *ForegroundTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *ForegroundTicker) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
		t.publishMu.Lock()
		//nolint:staticcheck // waits for an in-flight publish
		t.publishMu.Unlock()
	}
	t.sessionID = ""
}

// Wait blocks until the most recently started loop has exited.
func (t *ForegroundTicker) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running returns the id of the session being ticked, if any.
func (t *ForegroundTicker) Running() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID, t.cancel != nil
}

func (t *ForegroundTicker) loop(ctx context.Context, done chan struct{}, record domain.SessionRecord, ticks <-chan time.Time, stop func(), onExpire func(string)) {
	defer close(done)
	defer stop()

	if t.emit(ctx, record, onExpire) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			if t.emit(ctx, record, onExpire) {
				return
			}
		}
	}
}

// emit publishes one tick and reports whether the loop should end.
func (t *ForegroundTicker) emit(ctx context.Context, record domain.SessionRecord, onExpire func(string)) bool {
	if ctx.Err() != nil {
		return true
	}
	remaining := domain.Remaining(record, t.clock.Now())

	t.publishMu.Lock()
	if ctx.Err() != nil {
		t.publishMu.Unlock()
		return true
	}
	metrics.ActiveRemainingSeconds.Set(float64(remaining))
	if t.publisher != nil {
		t.publisher.PublishTick(domain.Tick{
			SessionID: record.ID,
			State:     record.State,
			Mode:      record.Mode,
			Duration:  record.Duration,
			Remaining: remaining,
		})
	}
	t.publishMu.Unlock()

	if remaining > 0 {
		return false
	}
	if onExpire != nil {
		onExpire(record.ID)
	}
	return true
}
