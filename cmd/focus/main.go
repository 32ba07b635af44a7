package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"focus/internal/bootstrap"
	timerdto "focus/internal/modules/timer/dto"
	"focus/internal/platform/config"
	timerview "focus/internal/ui/views/timer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "focus",
		Short:         "Focus session timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data", config.DefaultDataDir(), "data directory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug|info|warn|error)")

	root.AddCommand(newStartCmd(flags))
	root.AddCommand(newTransitionCmd(flags, "pause", "Pause the running session", bootstrapPause))
	root.AddCommand(newTransitionCmd(flags, "resume", "Resume the paused session", bootstrapResume))
	root.AddCommand(newTransitionCmd(flags, "abort", "Abort the active session", bootstrapAbort))
	root.AddCommand(newTransitionCmd(flags, "finish", "Finish the active session early", bootstrapFinish))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newModesCmd(flags))
	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newNotifydCmd(flags))
	return root
}

func loadApp(flags *globalFlags, host bootstrap.Host) (*bootstrap.App, error) {
	return bootstrap.New(bootstrap.Options{DataDir: flags.dataDir, LogLevel: flags.logLevel, Host: host})
}

// withApp runs fn against a CLI-hosted app and closes it afterwards.
func withApp(flags *globalFlags, fn func(*bootstrap.App) error) (err error) {
	app, err := loadApp(flags, bootstrap.HostCLI)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(app)
}

func newStartCmd(flags *globalFlags) *cobra.Command {
	var modeName, goal string
	var minutes, seconds int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				mode, ok := app.Config.FindMode(modeName)
				if !ok {
					return fmt.Errorf("unknown mode %q", modeName)
				}
				duration := mode.Minutes * 60
				switch {
				case seconds > 0:
					duration = seconds
				case minutes > 0:
					duration = minutes * 60
				}
				out, err := app.TimerCLI.Start(cmd.Context(), mode.Title, mode.Color, duration, goal)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "started %s %s (%s)\n", mode.Title, timerview.FormatClock(out.Duration), out.SessionID)
				printWarning(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "focus", "mode preset")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "override the preset length in minutes")
	cmd.Flags().IntVar(&seconds, "seconds", 0, "override the preset length in seconds")
	cmd.Flags().StringVar(&goal, "goal", "", "goal reference")
	return cmd
}

type transitionFunc func(ctx context.Context, app *bootstrap.App) (timerdto.TransitionOutput, error)

func bootstrapPause(ctx context.Context, app *bootstrap.App) (timerdto.TransitionOutput, error) {
	return app.TimerCLI.Pause(ctx)
}

func bootstrapResume(ctx context.Context, app *bootstrap.App) (timerdto.TransitionOutput, error) {
	return app.TimerCLI.Resume(ctx)
}

func bootstrapAbort(ctx context.Context, app *bootstrap.App) (timerdto.TransitionOutput, error) {
	return app.TimerCLI.Abort(ctx)
}

func bootstrapFinish(ctx context.Context, app *bootstrap.App) (timerdto.TransitionOutput, error) {
	return app.TimerCLI.Finish(ctx)
}

func newTransitionCmd(flags *globalFlags, use, short string, op transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := op(cmd.Context(), app)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), describeTransition(out))
				printWarning(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
}

func describeTransition(out timerdto.TransitionOutput) string {
	switch out.State {
	case "paused":
		return fmt.Sprintf("paused with %s left", timerview.FormatClock(out.Remaining))
	case "running":
		return fmt.Sprintf("resumed, %s left", timerview.FormatClock(out.Remaining))
	default:
		return fmt.Sprintf("%s after %s of focus", out.State, timerview.FormatClock(out.ActualActiveSeconds))
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				st, err := app.TimerCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if !st.Active {
					_, _ = fmt.Fprintln(w, "idle")
					return nil
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s / %s\t%s\n", st.State, st.ModeTitle,
					timerview.FormatClock(st.Remaining), timerview.FormatClock(st.Duration), st.SessionID)
				if st.GoalRef != "" {
					_, _ = fmt.Fprintf(w, "goal: %s\n", st.GoalRef)
				}
				return nil
			})
		},
	}
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				entries, err := app.HistoryCLI.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(w, "no sessions")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\t%s\n",
						e.EndedAt.Local().Format("2006-01-02 15:04"), e.ModeTitle, e.Outcome,
						timerview.FormatClock(e.ActualActiveSeconds), timerview.FormatClock(e.PlannedDuration), e.GoalRef)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of sessions to show")
	return cmd
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			return withApp(flags, func(app *bootstrap.App) error {
				since := time.Now().AddDate(0, 0, -days)
				st, err := app.HistoryCLI.Stats(cmd.Context(), since)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "last %d days: %d sessions (%d completed, %d aborted, %d finished early), %s focused\n",
					days, st.Total, st.Completed, st.Aborted, st.EarlyFinished, timerview.FormatClock(st.FocusedSeconds))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "window in days")
	return cmd
}

func newModesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List mode presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.dataDir)
			if err != nil {
				return err
			}
			for _, m := range cfg.Modes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d min\t%s\n", m.Name, m.Title, m.Minutes, m.Color)
			}
			return nil
		},
	}
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) (err error) {
			app, err := loadApp(flags, bootstrap.HostTUI)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := app.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return bootstrap.RunTUI(app)
		},
	}
}

func newNotifydCmd(flags *globalFlags) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "notifyd",
		Short: "Deliver completion notifications in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(flags, bootstrap.HostDaemon)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := app.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return bootstrap.RunNotifyd(ctx, app, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func printWarning(w io.Writer, warning string) {
	if strings.TrimSpace(warning) == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "warning: %s\n", warning)
}
