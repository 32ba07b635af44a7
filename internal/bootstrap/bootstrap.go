package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"

	historyinadapter "focus/internal/modules/history/adapter/in"
	historyoutadapter "focus/internal/modules/history/adapter/out"
	historyservice "focus/internal/modules/history/service"
	historyusecase "focus/internal/modules/history/usecase"
	timerinadapter "focus/internal/modules/timer/adapter/in"
	timeroutadapter "focus/internal/modules/timer/adapter/out"
	timerin "focus/internal/modules/timer/port/in"
	timerout "focus/internal/modules/timer/port/out"
	timerservice "focus/internal/modules/timer/service"
	timerusecase "focus/internal/modules/timer/usecase"
	"focus/internal/platform/clock"
	"focus/internal/platform/config"
	"focus/internal/platform/id"
	"focus/internal/platform/logging"
)

// Host is the kind of process being wired. Each host owns the lifecycle
// signals it can observe.
type Host int

const (
	// HostCLI runs one command and exits; it reconciles on launch only.
	HostCLI Host = iota
	// HostTUI is the foreground app: it ticks, watches the slot and follows terminal focus.
	HostTUI
	// HostDaemon delivers spooled notifications.
	HostDaemon
)

type Options struct {
	DataDir  string
	LogLevel string
	Host     Host
}

type App struct {
	Config config.Config

	TimerCLI     timerinadapter.CLIHandler
	HistoryCLI   historyinadapter.CLIHandler
	Lifecycle    timerin.Lifecycle
	Inbox        timerin.NotificationInbox
	Timer        timerin.Usecase
	StateWatcher *timerinadapter.StateWatcher

	relay   *timeroutadapter.TickRelay
	ticker  *timerservice.ForegroundTicker
	closers []io.Closer
}

func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.DataDir)
	if err != nil {
		return nil, err
	}
	if opts.Host == HostDaemon && cfg.State.Backend == config.BackendBadger {
		// badger locks its directory, so a long-lived daemon would lock every CLI and TUI out.
		return nil, fmt.Errorf("notifyd requires state.backend %q: the %q backend can be opened by only one process at a time", config.BackendFile, config.BackendBadger)
	}
	logFile, err := configureLogging(cfg, opts)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg}
	if logFile != nil {
		app.closers = append(app.closers, logFile)
	}
	if err := app.wire(opts.Host); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(host Host) error {
	cfg := a.Config
	clk := clock.SystemClock{}

	store, err := a.openStateStore(cfg)
	if err != nil {
		return err
	}
	spool, err := timeroutadapter.NewSQLiteNotificationSpool(cfg.DBPath(), clk)
	if err != nil {
		return fmt.Errorf("new notification spool: %w", err)
	}
	a.closers = append(a.closers, spool)

	historyStore, err := historyoutadapter.NewSQLiteEntryStore(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("new history store: %w", err)
	}
	a.closers = append(a.closers, historyStore)
	historyUC := historyusecase.NewInteractor(historyservice.NewHistoryService(
		historyStore,
		historyoutadapter.NewJournalNoteWriter(cfg.JournalDir()),
	))

	listeners := timeroutadapter.MultiListener{
		timeroutadapter.NewHistoryListener(historyUC),
		timeroutadapter.NewLedgerOutbox(cfg.LedgerPath()),
	}
	opts := []timerservice.Option{
		timerservice.WithPermission(timeroutadapter.NewConfigPermission(cfg.Notifications.Enabled)),
		timerservice.WithListener(listeners),
	}
	if host == HostTUI {
		a.relay = timeroutadapter.NewTickRelay()
		a.ticker = timerservice.NewForegroundTicker(clk, cfg.Ticker.Interval, a.relay)
		opts = append(opts, timerservice.WithPublisher(a.relay), timerservice.WithTicker(a.ticker))
	}

	controller := timerservice.NewSessionController(clk, id.UUID{}, store, spool, opts...)
	timerUC := timerusecase.NewInteractor(controller, timerservice.NewLifecycleReconciler(controller), spool, clk)

	a.Timer = timerUC
	a.Lifecycle = timerUC
	a.Inbox = timerUC
	a.TimerCLI = timerinadapter.NewCLIHandler(timerUC, timerUC)
	a.HistoryCLI = historyinadapter.NewCLIHandler(historyUC)
	if host == HostTUI && cfg.State.Backend == config.BackendFile {
		a.StateWatcher = timerinadapter.NewStateWatcher(cfg.StatePath(), timerUC)
	}
	return nil
}

func (a *App) openStateStore(cfg config.Config) (timerout.StateStore, error) {
	if cfg.State.Backend == config.BackendBadger {
		store, err := timeroutadapter.OpenBadgerStateStore(cfg.BadgerDir())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	}
	return timeroutadapter.NewFileStateStore(cfg.StatePath()), nil
}

// Close stops the ticker and releases stores in reverse order of opening.
func (a *App) Close() error {
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// configureLogging sends TUI logs to a file so they do not corrupt the screen.
func configureLogging(cfg config.Config, opts Options) (*os.File, error) {
	level := opts.LogLevel
	if level == "" {
		level = os.Getenv("FOCUS_LOG_LEVEL")
	}
	if level == "" {
		level = cfg.Log.Level
		if opts.Host == HostDaemon && level == "warn" {
			level = "info"
		}
	}
	switch opts.Host {
	case HostTUI:
		f, err := logging.OpenFile(cfg.LogPath())
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logging.Configure(logging.Config{Level: level, Output: f, Service: "focus-tui"})
		return f, nil
	case HostDaemon:
		logging.Configure(logging.Config{Level: level, Output: os.Stderr, Service: "focus-notifyd"})
	default:
		logging.Configure(logging.Config{Level: level, Output: os.Stderr, Service: "focus"})
	}
	return nil, nil
}
