package in

import (
	"context"
	"time"

	timerdto "focus/internal/modules/timer/dto"
	timerin "focus/internal/modules/timer/port/in"
	"focus/internal/platform/logging"
	"focus/internal/platform/metrics"
	"focus/internal/platform/notifier"

	"github.com/rs/zerolog"
)

// NotificationDispatcher plays the role of the OS notification system: it
// shows due notifications and routes their session id back into the engine.
type NotificationDispatcher struct {
	inbox    timerin.NotificationInbox
	usecase  timerin.Usecase
	notifier notifier.Notifier
	interval time.Duration
	logger   zerolog.Logger
}

func NewNotificationDispatcher(inbox timerin.NotificationInbox, usecase timerin.Usecase, n notifier.Notifier, interval time.Duration) *NotificationDispatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &NotificationDispatcher{
		inbox:    inbox,
		usecase:  usecase,
		notifier: n,
		interval: interval,
		logger:   logging.WithComponent("notify.dispatcher"),
	}
}

// Run polls until ctx is cancelled.
func (d *NotificationDispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	d.logger.Info().Dur("interval", d.interval).Msg("notification dispatcher started")
	for {
		if _, err := d.PollOnce(ctx); err != nil {
			d.logger.Warn().Err(err).Msg("poll notification spool")
		}
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("notification dispatcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce delivers every due notification and reports how many were handled.
func (d *NotificationDispatcher) PollOnce(ctx context.Context) (int, error) {
	due, err := d.inbox.DueNotifications(ctx)
	if err != nil {
		return 0, err
	}
	handled := 0
	for _, n := range due {
		if err := d.notifier.Notify(ctx, n.Title, n.Body); err != nil {
			d.logger.Warn().Err(err).Str("session_id", n.SessionID).Msg("show notification")
		} else {
			metrics.NotificationsDeliveredTotal.Inc()
		}
		if err := d.inbox.AcknowledgeNotification(ctx, n.SessionID); err != nil {
			d.logger.Warn().Err(err).Str("session_id", n.SessionID).Msg("acknowledge notification")
			continue
		}
		out, err := d.usecase.HandleNotification(ctx, timerdto.NotificationInput{SessionID: n.SessionID})
		if err != nil {
			d.logger.Warn().Err(err).Str("session_id", n.SessionID).Msg("dispatch notification")
			continue
		}
		d.logger.Debug().Str("session_id", n.SessionID).Bool("completed", out.Completed).Msg("notification dispatched")
		handled++
	}
	return handled, nil
}
