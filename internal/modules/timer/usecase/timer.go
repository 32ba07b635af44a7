package usecase

import (
	"context"
	"fmt"

	"focus/internal/modules/timer/domain"
	timerdto "focus/internal/modules/timer/dto"
	timerin "focus/internal/modules/timer/port/in"
	timerout "focus/internal/modules/timer/port/out"
	"focus/internal/modules/timer/service"
	"focus/internal/platform/clock"
	apperrors "focus/internal/platform/errors"
)

type Interactor struct {
	controller *service.SessionController
	reconciler *service.LifecycleReconciler
	spool      timerout.NotificationSpool
	clock      clock.Clock
}

// NewInteractor wires the engine. spool may be nil for hosts that never deliver notifications.
func NewInteractor(controller *service.SessionController, reconciler *service.LifecycleReconciler, spool timerout.NotificationSpool, clk clock.Clock) *Interactor {
	return &Interactor{controller: controller, reconciler: reconciler, spool: spool, clock: clk}
}

var (
	_ timerin.Usecase           = (*Interactor)(nil)
	_ timerin.Lifecycle         = (*Interactor)(nil)
	_ timerin.NotificationInbox = (*Interactor)(nil)
)

func (i *Interactor) Start(ctx context.Context, input timerdto.StartInput) (timerdto.StartOutput, error) {
	if input.DurationSeconds <= 0 {
		return timerdto.StartOutput{}, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}
	mode := domain.Mode{Title: input.ModeTitle, Color: input.ModeColor}
	res, err := i.controller.Start(ctx, mode, input.DurationSeconds, input.GoalRef)
	if err != nil {
		return timerdto.StartOutput{}, err
	}
	return timerdto.StartOutput{
		SessionID: res.Record.ID,
		Duration:  res.Record.Duration,
		Warning:   warningText(res.Warning),
	}, nil
}

func (i *Interactor) Pause(ctx context.Context) (timerdto.TransitionOutput, error) {
	res, err := i.controller.Pause(ctx)
	return transitionOutput(res, err)
}

func (i *Interactor) Resume(ctx context.Context) (timerdto.TransitionOutput, error) {
	res, err := i.controller.Resume(ctx)
	return transitionOutput(res, err)
}

func (i *Interactor) Abort(ctx context.Context) (timerdto.TransitionOutput, error) {
	res, err := i.controller.Abort(ctx)
	return transitionOutput(res, err)
}

func (i *Interactor) EarlyFinish(ctx context.Context) (timerdto.TransitionOutput, error) {
	res, err := i.controller.EarlyFinish(ctx)
	return transitionOutput(res, err)
}

func (i *Interactor) Status(ctx context.Context) (timerdto.StatusOutput, error) {
	snapshot, err := i.controller.Status(ctx)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return statusOutput(snapshot), nil
}

func (i *Interactor) HandleNotification(ctx context.Context, input timerdto.NotificationInput) (timerdto.NotificationOutput, error) {
	if input.SessionID == "" {
		return timerdto.NotificationOutput{}, fmt.Errorf("%w: notification without session id", apperrors.ErrInvalidInput)
	}
	completed, err := i.controller.Complete(ctx, input.SessionID)
	if err != nil {
		return timerdto.NotificationOutput{}, err
	}
	return timerdto.NotificationOutput{Completed: completed}, nil
}

func (i *Interactor) Foreground(ctx context.Context) (timerdto.StatusOutput, error) {
	snapshot, err := i.reconciler.Foreground(ctx)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return statusOutput(snapshot), nil
}

func (i *Interactor) Background(ctx context.Context) {
	i.reconciler.Background(ctx)
}

func (i *Interactor) Refresh(ctx context.Context) (timerdto.StatusOutput, error) {
	snapshot, err := i.reconciler.Refresh(ctx)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return statusOutput(snapshot), nil
}

func (i *Interactor) DueNotifications(ctx context.Context) ([]timerdto.Notification, error) {
	if i.spool == nil {
		return nil, nil
	}
	due, err := i.spool.Due(ctx, i.clock.Now())
	if err != nil {
		return nil, err
	}
	out := make([]timerdto.Notification, 0, len(due))
	for _, n := range due {
		out = append(out, timerdto.Notification{SessionID: n.SessionID, FireAt: n.FireAt, Title: n.Title, Body: n.Body})
	}
	return out, nil
}

func (i *Interactor) AcknowledgeNotification(ctx context.Context, sessionID string) error {
	if i.spool == nil {
		return nil
	}
	return i.spool.Ack(ctx, sessionID)
}

func transitionOutput(res service.TransitionResult, err error) (timerdto.TransitionOutput, error) {
	if err != nil {
		return timerdto.TransitionOutput{}, err
	}
	return timerdto.TransitionOutput{
		SessionID:           res.Snapshot.SessionID,
		State:               string(res.Snapshot.State),
		Remaining:           res.Snapshot.Remaining,
		ActualActiveSeconds: res.ActualActiveSeconds,
		Warning:             warningText(res.Warning),
	}, nil
}

func statusOutput(snapshot domain.Snapshot) timerdto.StatusOutput {
	return timerdto.StatusOutput{
		Active:    snapshot.State.Active(),
		SessionID: snapshot.SessionID,
		State:     string(snapshot.State),
		ModeTitle: snapshot.Mode.Title,
		ModeColor: snapshot.Mode.Color,
		GoalRef:   snapshot.GoalRef,
		Duration:  snapshot.Duration,
		Remaining: snapshot.Remaining,
	}
}

func warningText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
