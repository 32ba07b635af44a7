package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	timerinadapter "focus/internal/modules/timer/adapter/in"
	"focus/internal/platform/logging"
	"focus/internal/platform/notifier"
)

// RunNotifyd delivers spooled completion notifications until ctx is cancelled.
// When metricsAddr is set, Prometheus metrics are served on it at /metrics.
func RunNotifyd(ctx context.Context, app *App, metricsAddr string) error {
	logger := logging.WithComponent("notifyd")
	cfg := app.Config

	desktop := notifier.NewCommand(cfg.Notifications.Command, os.Stderr)
	if !desktop.Available() {
		logger.Warn().Str("command", cfg.Notifications.Command).Msg("desktop notifier not found, using terminal bell")
	}
	dispatcher := timerinadapter.NewNotificationDispatcher(app.Inbox, app.Timer, desktop, cfg.Notifications.PollInterval)

	if metricsAddr == "" {
		metricsAddr = cfg.Metrics.Addr
	}
	errCh := make(chan error, 1)
	var server *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server = &http.Server{
			Addr:              metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", metricsAddr).Msg("metrics server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		errCh <- dispatcher.Run(runCtx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		cancel()
		runErr = <-errCh
	case runErr = <-errCh:
		cancel()
	}

	if server != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("metrics server shutdown")
		}
	}
	return runErr
}
