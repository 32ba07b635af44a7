package out

import (
	"context"
	"errors"
	"time"

	"focus/internal/modules/timer/domain"
)

// StateStore is the durable single-slot record of the active session.
// Get returns (nil, nil) when the slot is empty or holds an unreadable payload.
type StateStore interface {
	Get(ctx context.Context) (*domain.SessionRecord, error)
	Put(ctx context.Context, record domain.SessionRecord) error
	Clear(ctx context.Context) error
}

// NotificationScheduler keeps at most one pending completion notification for the
// active slot. Arm replaces any previous one.
type NotificationScheduler interface {
	Arm(ctx context.Context, record domain.SessionRecord, remainingSeconds int) error
	Disarm(ctx context.Context) error
}

// NotificationSpool is the daemon-side view of the scheduler's pending entries.
type NotificationSpool interface {
	Due(ctx context.Context, now time.Time) ([]domain.Notification, error)
	Ack(ctx context.Context, sessionID string) error
}

type PermissionChecker interface {
	NotificationsPermitted(ctx context.Context) bool
}

// ErrAlreadyRecorded is returned by a listener that finds the ended session
// already recorded, usually by another process that ended it first.
var ErrAlreadyRecorded = errors.New("session end already recorded")

// SessionEndedListener consumes terminal transitions. Errors are logged by the
// caller and never change the transition result.
type SessionEndedListener interface {
	OnSessionEnded(ctx context.Context, event domain.SessionEnded) error
}

// TickPublisher receives UI refresh data from the foreground ticker and reconciler.
type TickPublisher interface {
	PublishTick(tick domain.Tick)
}
