package service

import (
	"context"

	"github.com/rs/zerolog"

	"focus/internal/modules/timer/domain"
	"focus/internal/platform/logging"
)

// LifecycleReconciler rebuilds timer state whenever the host regains the
// foreground. It trusts only the persisted record and the current wall clock,
// never whatever ticker state survived the suspension.
type LifecycleReconciler struct {
	controller *SessionController
	logger     zerolog.Logger

	// foreground is guarded by controller.mu.
	foreground bool
}

func NewLifecycleReconciler(controller *SessionController) *LifecycleReconciler {
	return &LifecycleReconciler{
		controller: controller,
		logger:     logging.WithComponent("timer.reconciler"),
	}
}

// Foreground is called on app activation and process start.
func (r *LifecycleReconciler) Foreground(ctx context.Context) (domain.Snapshot, error) {
	return r.reconcile(ctx, true)
}

// Refresh is called when another process changed the slot. It reconciles only
// while the host is in the foreground; a backgrounded host just reads the slot
// and leaves the ticker stopped.
func (r *LifecycleReconciler) Refresh(ctx context.Context) (domain.Snapshot, error) {
	return r.reconcile(ctx, false)
}

func (r *LifecycleReconciler) reconcile(ctx context.Context, activate bool) (domain.Snapshot, error) {
	c := r.controller

	c.mu.Lock()
	if activate {
		r.foreground = true
	} else if !r.foreground {
		c.mu.Unlock()
		return c.Status(ctx)
	}
	record := c.load(ctx)
	now := c.clock.Now()
	snapshot := domain.IdleSnapshot()
	expired := ""
	switch {
	case record == nil:
		c.stopTicker()
	case record.State == domain.StateRunning && domain.Remaining(*record, now) <= 0:
		expired = record.ID
		snapshot = domain.SnapshotOf(*record, now)
	case record.State == domain.StateRunning:
		c.startTicker(*record)
		snapshot = domain.SnapshotOf(*record, now)
	default:
		c.stopTicker()
		snapshot = domain.SnapshotOf(*record, now)
	}
	c.mu.Unlock()

	if expired != "" {
		r.logger.Info().Str("session_id", expired).Msg("session elapsed while in background")
		completed, err := c.Complete(ctx, expired)
		if err != nil {
			return domain.Snapshot{}, err
		}
		if completed {
			snapshot.State = domain.StateCompleted
			snapshot.Remaining = 0
		} else {
			// Another trigger got there first; report whatever the slot holds now.
			return c.Status(ctx)
		}
		return snapshot, nil
	}
	if snapshot.State != domain.StateRunning {
		// Running sessions are published by the ticker's first emit.
		c.publish(snapshot)
	}
	return snapshot, nil
}

// Background stops UI ticking. The completion notification is already armed.
func (r *LifecycleReconciler) Background(_ context.Context) {
	c := r.controller
	c.mu.Lock()
	r.foreground = false
	c.stopTicker()
	c.mu.Unlock()
}
