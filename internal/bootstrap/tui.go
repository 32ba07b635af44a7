package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"focus/internal/modules/timer/domain"
	"focus/internal/platform/logging"
	uiapp "focus/internal/ui/app"
	timerview "focus/internal/ui/views/timer"
)

// RunTUI runs the terminal UI as the foreground host until the user quits.
func RunTUI(app *App) error {
	if app.relay == nil {
		return fmt.Errorf("app was not wired for the terminal UI")
	}
	model := uiapp.NewModel(app.TimerCLI, app.Lifecycle, app.HistoryCLI, app.Config.Modes)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	app.relay.Attach(func(tick domain.Tick) {
		program.Send(timerview.TickMsg{
			SessionID: tick.SessionID,
			State:     string(tick.State),
			ModeTitle: tick.Mode.Title,
			ModeColor: tick.Mode.Color,
			Duration:  tick.Duration,
			Remaining: tick.Remaining,
		})
	})
	defer app.relay.Attach(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if app.StateWatcher != nil {
		logger := logging.WithComponent("tui")
		go func() {
			if err := app.StateWatcher.Run(ctx); err != nil {
				logger.Warn().Err(err).Msg("slot watcher stopped")
			}
		}()
	}

	_, err := program.Run()
	return err
}
