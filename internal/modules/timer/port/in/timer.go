package in

import (
	"context"

	"focus/internal/modules/timer/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Pause(ctx context.Context) (dto.TransitionOutput, error)
	Resume(ctx context.Context) (dto.TransitionOutput, error)
	Abort(ctx context.Context) (dto.TransitionOutput, error)
	EarlyFinish(ctx context.Context) (dto.TransitionOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	HandleNotification(ctx context.Context, input dto.NotificationInput) (dto.NotificationOutput, error)
}

// Lifecycle is driven by the host whenever the app gains or loses the foreground.
type Lifecycle interface {
	Foreground(ctx context.Context) (dto.StatusOutput, error)
	Background(ctx context.Context)
	// Refresh re-reads a slot changed by another process without bringing the host forward.
	Refresh(ctx context.Context) (dto.StatusOutput, error)
}

// NotificationInbox is consumed by the notification daemon.
type NotificationInbox interface {
	DueNotifications(ctx context.Context) ([]dto.Notification, error)
	AcknowledgeNotification(ctx context.Context, sessionID string) error
}
