package in_test

import (
	"context"
	"sync"

	timerdto "focus/internal/modules/timer/dto"
)

// fakeEngine implements the timer inbound ports and records calls in order.
type fakeEngine struct {
	mu       sync.Mutex
	calls    []string
	due      []timerdto.Notification
	acked    []string
	handled  []string
	ackErr   error
	notified chan struct{}
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeEngine) history() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) Start(_ context.Context, in timerdto.StartInput) (timerdto.StartOutput, error) {
	f.record("start:" + in.ModeTitle)
	return timerdto.StartOutput{SessionID: "s-1", Duration: in.DurationSeconds}, nil
}

func (f *fakeEngine) Pause(context.Context) (timerdto.TransitionOutput, error) {
	f.record("pause")
	return timerdto.TransitionOutput{State: "paused"}, nil
}

func (f *fakeEngine) Resume(context.Context) (timerdto.TransitionOutput, error) {
	f.record("resume")
	return timerdto.TransitionOutput{State: "running"}, nil
}

func (f *fakeEngine) Abort(context.Context) (timerdto.TransitionOutput, error) {
	f.record("abort")
	return timerdto.TransitionOutput{State: "aborted"}, nil
}

func (f *fakeEngine) EarlyFinish(context.Context) (timerdto.TransitionOutput, error) {
	f.record("finish")
	return timerdto.TransitionOutput{State: "early-finished"}, nil
}

func (f *fakeEngine) Status(context.Context) (timerdto.StatusOutput, error) {
	f.record("status")
	return timerdto.StatusOutput{State: "idle"}, nil
}

func (f *fakeEngine) HandleNotification(_ context.Context, in timerdto.NotificationInput) (timerdto.NotificationOutput, error) {
	f.mu.Lock()
	f.handled = append(f.handled, in.SessionID)
	f.mu.Unlock()
	f.record("handle:" + in.SessionID)
	return timerdto.NotificationOutput{Completed: true}, nil
}

func (f *fakeEngine) Foreground(context.Context) (timerdto.StatusOutput, error) {
	f.record("foreground")
	if f.notified != nil {
		select {
		case f.notified <- struct{}{}:
		default:
		}
	}
	return timerdto.StatusOutput{State: "idle"}, nil
}

func (f *fakeEngine) Background(context.Context) {
	f.record("background")
}

func (f *fakeEngine) Refresh(context.Context) (timerdto.StatusOutput, error) {
	f.record("refresh")
	if f.notified != nil {
		select {
		case f.notified <- struct{}{}:
		default:
		}
	}
	return timerdto.StatusOutput{State: "idle"}, nil
}

func (f *fakeEngine) DueNotifications(context.Context) ([]timerdto.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	due := f.due
	f.due = nil
	return due, nil
}

func (f *fakeEngine) AcknowledgeNotification(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ackErr != nil {
		return f.ackErr
	}
	f.acked = append(f.acked, sessionID)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, title, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return n.err
}
