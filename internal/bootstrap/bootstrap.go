package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	progressinadapter "focusflow/internal/modules/progress/adapter/in"
	progressoutadapter "focusflow/internal/modules/progress/adapter/out"
	progressdomain "focusflow/internal/modules/progress/domain"
	progressdto "focusflow/internal/modules/progress/dto"
	progressout "focusflow/internal/modules/progress/port/out"
	progressservice "focusflow/internal/modules/progress/service"
	progressusecase "focusflow/internal/modules/progress/usecase"
	timerinadapter "focusflow/internal/modules/timer/adapter/in"
	timeroutadapter "focusflow/internal/modules/timer/adapter/out"
	timerout "focusflow/internal/modules/timer/port/out"
	timerservice "focusflow/internal/modules/timer/service"
	timerusecase "focusflow/internal/modules/timer/usecase"
	"focusflow/internal/platform/clock"
	"focusflow/internal/platform/config"
	"focusflow/internal/platform/id"
	"focusflow/internal/platform/pubsub"
	"focusflow/internal/platform/tx"
	uiapp "focusflow/internal/ui/app"
)

// TickMode selects who drives the countdown.
type TickMode int

const (
	// TickWall runs a one-second ticker goroutine.
	TickWall TickMode = iota
	// TickManual leaves ticking to the caller (TUI, one-shot commands).
	TickManual
)

type Options struct {
	Logger   hclog.Logger
	TickMode TickMode
}

// App is the explicitly constructed application context: everything the
// CLI or TUI needs, with no process-wide singletons.
type App struct {
	Config      config.Config
	TimerCLI    timerinadapter.CLIHandler
	ProgressCLI progressinadapter.CLIHandler
	Completions *pubsub.Broker[progressdto.CompletionEvent]

	tiered *progressoutadapter.TieredProgressStore
	index  *progressoutadapter.SQLiteHistoryIndex
	log    hclog.Logger
}

func New(cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{}

	var remote progressout.RemoteSync
	if cfg.SyncEnabled() {
		remote = progressoutadapter.NewHTTPRemoteSync(cfg.Sync.URL, cfg.Sync.Token, cfg.Sync.Timeout)
	}
	local := progressoutadapter.NewFileProgressStore(cfg.ProgressPath(), logger.Named("progress"))
	tiered := progressoutadapter.NewTieredProgressStore(local, remote, logger.Named("sync"))

	index, err := progressoutadapter.NewSQLiteHistoryIndex(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("new history index: %w", err)
	}

	broker := pubsub.NewBroker[progressdto.CompletionEvent]()
	progressUC := progressusecase.NewInteractor(progressservice.NewProgressService(progressservice.Deps{
		Clock:    clk,
		IDs:      id.UUID{},
		Location: loc,
		Store:    tiered,
		Notes:    progressoutadapter.NewVaultSessionNoteStore(cfg.SessionsDir()),
		Index:    index,
		Remote:   remote,
		Events:   progressoutadapter.NewBrokerPublisher(broker),
		Tx:       tx.NewSerial(),
		Logger:   logger.Named("progress"),
	}))

	var ticks timerout.TickSource
	if opts.TickMode == TickManual {
		ticks = timeroutadapter.NewManualTicker()
	} else {
		ticks = timeroutadapter.NewWallTicker()
	}
	mode, err := progressdomain.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	timerUC := timerusecase.NewInteractor(timerservice.NewTimerService(
		clk,
		ticks,
		timeroutadapter.NewFileStateStore(cfg.TimerStatePath()),
		timeroutadapter.NewProgressCompletionAdapter(progressUC),
		string(mode),
		logger.Named("timer"),
	))

	return &App{
		Config:      cfg,
		TimerCLI:    timerinadapter.NewCLIHandler(timerUC),
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		Completions: broker,
		tiered:      tiered,
		index:       index,
		log:         logger,
	}, nil
}

// Close waits for pending remote syncs and releases storage handles.
func (a *App) Close() error {
	a.tiered.Wait()
	a.Completions.Close()
	return a.index.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(uiapp.Options{
		Timer:         app.TimerCLI,
		Progress:      app.ProgressCLI,
		Completions:   app.Completions,
		ProgressPath:  app.Config.ProgressPath(),
		SessionLength: app.Config.SessionLength,
		Mode:          app.Config.Mode,
		Logger:        app.log.Named("ui"),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	model.Close()
	return err
}
