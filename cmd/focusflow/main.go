package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"focusflow/internal/bootstrap"
	timerdto "focusflow/internal/modules/timer/dto"
	"focusflow/internal/platform/config"
	apperrors "focusflow/internal/platform/errors"
	"focusflow/internal/platform/logging"
	"focusflow/internal/platform/pubsub"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	dataDir    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "focusflow",
		Short:         "Focus timer with persistent progress and streaks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: ./.focusflow/config.yaml or ~/.config/focusflow/config.yaml)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "override data directory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log level (trace|debug|info|warn|error)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newTimerCmd(flags))
	root.AddCommand(newProgressCmd(flags))
	return root
}

// loadApp builds the application context. The returned cleanup must run
// before exit so background syncs can finish.
func loadApp(flags *rootFlags, tickMode bootstrap.TickMode) (*bootstrap.App, func(), error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(cfg, bootstrap.Options{Logger: logger, TickMode: tickMode})
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
		_ = closeLog()
	}
	return app, cleanup, nil
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the focus timer terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			return bootstrap.RunTUI(app)
		},
	}
}

func newTimerCmd(flags *rootFlags) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Focus session countdown"}

	var preset, sessionType string
	var duration time.Duration
	var seconds int
	var detach bool
	start := &cobra.Command{
		Use:   "start",
		Short: "Set a duration and start counting down",
		Long: "Start a countdown. Without --detach the countdown runs in the foreground; " +
			"interrupting it leaves the timer running so `timer resume` or `timer status` can pick it up.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, tickModeFor(detach))
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			if _, err := app.TimerCLI.LoadAndResume(ctx); err != nil {
				return err
			}
			if current, _ := app.TimerCLI.Snapshot(ctx); current.Phase == "running" {
				return fmt.Errorf("%w: %s left, use `timer stop` first", apperrors.ErrTimerRunning, formatClock(current.RemainingSeconds))
			}

			var set timerdto.TimerOutput
			bySeconds, byDuration := cmd.Flags().Changed("seconds"), cmd.Flags().Changed("duration")
			switch {
			case bySeconds && byDuration:
				return fmt.Errorf("%w: use either --seconds or --duration", apperrors.ErrInvalidInput)
			case bySeconds || byDuration:
				n := seconds
				if byDuration {
					n = int(duration / time.Second)
				}
				set, err = app.TimerCLI.SetDuration(ctx, n, sessionType)
			default:
				name := preset
				if name == "" {
					name = app.Config.SessionLength
				}
				set, err = app.TimerCLI.SetPreset(ctx, name)
			}
			if err != nil {
				return err
			}
			started, err := app.TimerCLI.Start(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timer started: %s %s\n", set.SessionType, formatClock(started.RemainingSeconds))
			if detach {
				return nil
			}
			return runForeground(cmd.OutOrStdout(), app)
		},
	}
	start.Flags().StringVar(&preset, "preset", "", "quick-focus|deep-work|marathon (default: session_length from config)")
	start.Flags().DurationVar(&duration, "duration", 0, "custom duration, e.g. 45m")
	start.Flags().IntVar(&seconds, "seconds", 0, "custom duration in seconds")
	start.Flags().StringVar(&sessionType, "type", "custom", "session type label for custom durations")
	start.Flags().BoolVar(&detach, "detach", false, "persist the running timer and exit")

	var resumeDetach bool
	resume := &cobra.Command{
		Use:   "resume",
		Short: "Resume a running or paused timer from persisted state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, tickModeFor(resumeDetach))
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			res, err := app.TimerCLI.LoadAndResume(ctx)
			if err != nil {
				return err
			}
			switch res.Action {
			case "none":
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no timer to resume")
				return nil
			case "completed":
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session finished while away: %s, %d min recorded\n", res.Timer.SessionType, res.DurationMinutes)
				return nil
			case "paused":
				if _, err := app.TimerCLI.Start(ctx); err != nil {
					return err
				}
			}
			current, _ := app.TimerCLI.Snapshot(ctx)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timer resumed: %s %s left\n", current.SessionType, formatClock(current.RemainingSeconds))
			if resumeDetach {
				return nil
			}
			return runForeground(cmd.OutOrStdout(), app)
		},
	}
	resume.Flags().BoolVar(&resumeDetach, "detach", false, "persist the running timer and exit")

	pause := &cobra.Command{
		Use:   "pause",
		Short: "Pause the persisted running timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			res, err := app.TimerCLI.LoadAndResume(ctx)
			if err != nil {
				return err
			}
			if res.Action == "completed" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session already finished: %d min recorded\n", res.DurationMinutes)
				return nil
			}
			if res.Action != "running" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no running timer")
				return nil
			}
			out, err := app.TimerCLI.Pause(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timer paused: %s left\n", formatClock(out.RemainingSeconds))
			return nil
		},
	}

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Abandon the current timer without recording it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			if _, err := app.TimerCLI.Stop(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "timer stopped")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted timer without resuming or recording it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			res, err := app.TimerCLI.Status(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch res.Action {
			case "running":
				_, _ = fmt.Fprintf(w, "running: %s %s left of %s\n", res.Timer.SessionType, formatClock(res.Timer.RemainingSeconds), formatClock(res.Timer.OriginalSeconds))
			case "paused":
				_, _ = fmt.Fprintf(w, "paused: %s %s left of %s\n", res.Timer.SessionType, formatClock(res.Timer.RemainingSeconds), formatClock(res.Timer.OriginalSeconds))
			case "expired":
				_, _ = fmt.Fprintf(w, "finished while away: %s %s, run `focusflow timer resume` to record it\n", res.Timer.SessionType, formatClock(res.Timer.OriginalSeconds))
			default:
				_, _ = fmt.Fprintln(w, "idle")
			}
			return nil
		},
	}

	timer.AddCommand(start, resume, pause, stop, status)
	return timer
}

func tickModeFor(detach bool) bootstrap.TickMode {
	if detach {
		return bootstrap.TickManual
	}
	return bootstrap.TickWall
}

// runForeground prints the countdown until the session completes or the
// process is interrupted. An interrupt leaves the timer persisted as running.
// A countdown that ends without a completion event either failed to record,
// which is returned as an error, or was finished by another process.
func runForeground(w io.Writer, app *bootstrap.App) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events := app.Completions.Subscribe(ctx)
	display := time.NewTicker(time.Second)
	defer display.Stop()

	for {
		select {
		case <-ctx.Done():
			current, _ := app.TimerCLI.Snapshot(context.Background())
			_, _ = fmt.Fprintf(w, "\ninterrupted with %s left; run `focusflow timer resume` to continue\n", formatClock(current.RemainingSeconds))
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == pubsub.CompletedEvent {
				_, _ = fmt.Fprintf(w, "\nsession complete: %s, %d min\n", ev.Payload.SessionType, ev.Payload.DurationMinutes)
				return nil
			}
		case <-display.C:
			current, _ := app.TimerCLI.Snapshot(context.Background())
			if current.Failure != nil {
				return fmt.Errorf("session finished but was not recorded, run `focusflow timer resume` to retry: %w", current.Failure)
			}
			if current.Phase == "running" {
				_, _ = fmt.Fprintf(w, "\r%s  %s ", current.SessionType, formatClock(current.RemainingSeconds))
				continue
			}
			select {
			case ev, ok := <-events:
				if ok && ev.Type == pubsub.CompletedEvent {
					_, _ = fmt.Fprintf(w, "\nsession complete: %s, %d min\n", ev.Payload.SessionType, ev.Payload.DurationMinutes)
					return nil
				}
			default:
			}
			_, _ = fmt.Fprintln(w, "\ntimer is no longer running here")
			return nil
		}
	}
}

func newProgressCmd(flags *rootFlags) *cobra.Command {
	progress := &cobra.Command{Use: "progress", Short: "Focus statistics"}

	progress.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show totals and streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			p, err := app.ProgressCLI.GetProgress(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "today: %s\nsessions: %d\nstreak: %d days\ntotal focus: %s\n",
				formatMinutes(p.TodayMinutes), p.TotalSessions, p.Streak, formatMinutes(p.TotalFocusTime))
			if len(p.RecentSessions) == 0 {
				_, _ = fmt.Fprintln(w, "last session: never")
				return nil
			}
			_, _ = fmt.Fprintln(w, "recent:")
			for _, s := range p.RecentSessions {
				_, _ = fmt.Fprintf(w, "  %s\t%s\t%d min\t%s\n", humanize.Time(s.Date), s.SessionType, s.Duration, s.Mode)
			}
			return nil
		},
	})

	var days int
	history := &cobra.Command{
		Use:   "history",
		Short: "Per-day focus totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			totals, err := app.ProgressCLI.History(context.Background(), days)
			if err != nil {
				return err
			}
			for _, t := range totals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d sessions\t%s\n", t.Day, t.Sessions, formatMinutes(t.Minutes))
			}
			return nil
		},
	}
	history.Flags().IntVar(&days, "days", 7, "number of days including today")
	progress.AddCommand(history)

	progress.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Restore progress from the sync server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			p, err := app.ProgressCLI.Pull(context.Background())
			if errors.Is(err, apperrors.ErrSyncDisabled) {
				return fmt.Errorf("%w: set sync.url and sync.token", err)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "progress: %d sessions, streak %d, %s total\n", p.TotalSessions, p.Streak, formatMinutes(p.TotalFocusTime))
			return nil
		},
	})

	progress.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the history index from stored progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, bootstrap.TickManual)
			if err != nil {
				return err
			}
			defer cleanup()
			n, err := app.ProgressCLI.Reindex(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %s sessions\n", humanize.Comma(int64(n)))
			return nil
		},
	})
	return progress
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
