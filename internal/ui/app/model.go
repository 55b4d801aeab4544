package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/muesli/reflow/wordwrap"

	progressdto "focusflow/internal/modules/progress/dto"
	timerdto "focusflow/internal/modules/timer/dto"
	"focusflow/internal/platform/pubsub"
	"focusflow/internal/ui/components"
	"focusflow/internal/ui/theme"
	statsview "focusflow/internal/ui/views/stats"
	timerview "focusflow/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	SetDuration(ctx context.Context, seconds int, sessionType string) (timerdto.TimerOutput, error)
	SetPreset(ctx context.Context, preset string) (timerdto.TimerOutput, error)
	SetMode(ctx context.Context, mode string) (timerdto.TimerOutput, error)
	Start(ctx context.Context) (timerdto.TimerOutput, error)
	Pause(ctx context.Context) (timerdto.TimerOutput, error)
	Stop(ctx context.Context) (timerdto.TimerOutput, error)
	Tick(ctx context.Context) (timerdto.TickOutput, error)
	Snapshot(ctx context.Context) (timerdto.TimerOutput, error)
	LoadAndResume(ctx context.Context) (timerdto.ResumeOutput, error)
}

type progressPort interface {
	GetProgress(ctx context.Context) (progressdto.ProgressOutput, error)
	History(ctx context.Context, days int) ([]progressdto.DayTotalOutput, error)
	Pull(ctx context.Context) (progressdto.ProgressOutput, error)
	Reindex(ctx context.Context) (int, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Progress"}

var modes = []string{"zen", "achievement", "hybrid"}

var completionMessages = []string{
	"Great job! You've completed your focus session.",
	"Excellent work! Your focus is building momentum.",
	"Outstanding! You're developing strong focus habits.",
	"Fantastic! Every session makes you stronger.",
	"Brilliant! You're mastering the art of focus.",
}

const toastTTL = 5 * time.Second

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type timerMsg struct {
	timer timerdto.TimerOutput
	err   error
}

type resumedMsg struct {
	out timerdto.ResumeOutput
	err error
}

type progressFileChangedMsg struct{}

type toastExpiredMsg struct{ seq int }

type pulledMsg struct {
	out progressdto.ProgressOutput
	err error
}

type reindexedMsg struct {
	n   int
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Toggle  key.Binding
	Stop    key.Binding
	Presets key.Binding
	Mode    key.Binding
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Presets: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "25m/90m/3h")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle mode")),
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Stop, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Stop, k.Presets},
		{k.Mode, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Options struct {
	Timer         timerPort
	Progress      progressPort
	Completions   pubsub.Subscriber[progressdto.CompletionEvent]
	ProgressPath  string
	SessionLength string
	Mode          string
	Logger        hclog.Logger
}

// lifecycle holds the resources that outlive a single Update and must be
// released by Close after the program exits.
type lifecycle struct {
	ctx     context.Context
	cancel  context.CancelFunc
	events  <-chan pubsub.Event[progressdto.CompletionEvent]
	watcher *fsnotify.Watcher
}

// Model is the root Bubble Tea model. The timer itself lives in the timer
// service; this model polls it once a second and renders snapshots.
type Model struct {
	timer         timerPort
	progress      progressPort
	sessionLength string
	progressFile  string
	log           hclog.Logger
	life          *lifecycle

	timerView timerview.Model
	statsView statsview.Model

	current   timerdto.TimerOutput
	mode      string
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	toast     string
	toastSeq  int
	status    string
	width     int
	height    int
}

func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	mode := opts.Mode
	if mode == "" {
		mode = modes[0]
	}

	ctx, cancel := context.WithCancel(context.Background())
	life := &lifecycle{ctx: ctx, cancel: cancel}
	if opts.Completions != nil {
		life.events = opts.Completions.Subscribe(ctx)
	}
	if opts.ProgressPath != "" {
		life.watcher = watchProgressFile(opts.ProgressPath, logger)
	}

	return Model{
		timer:         opts.Timer,
		progress:      opts.Progress,
		sessionLength: opts.SessionLength,
		progressFile:  filepath.Clean(opts.ProgressPath),
		log:           logger,
		life:          life,
		timerView:     timerview.New(mode),
		statsView:     statsview.New(opts.Progress),
		mode:          mode,
		activeTab:     tabTimer,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

// Close stops the completion subscription and the file watcher.
func (m Model) Close() {
	m.life.cancel()
	if m.life.watcher != nil {
		_ = m.life.watcher.Close()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.resumeCmd(),
		m.statsView.Init(),
		m.timerView.Init(),
		m.listenCmd(),
		m.watchCmd(),
		tickCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts key input while open; the tick loop and async
	// results keep flowing underneath it.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		cmds = append(cmds, tickCmd())
		if m.current.Phase == "running" {
			cmds = append(cmds, m.advanceCmd())
		}
		return m, tea.Batch(cmds...)

	case timerMsg:
		// A finished but unrecorded countdown still carries the timer it left.
		if msg.timer.Phase != "" {
			m.setTimer(msg.timer)
		}
		if msg.err != nil {
			m.status = "timer: " + msg.err.Error()
		}
		return m, nil

	case resumedMsg:
		if msg.err != nil {
			m.status = "resume: " + msg.err.Error()
			return m, nil
		}
		m.setTimer(msg.out.Timer)
		switch msg.out.Action {
		case "running":
			m.status = "resumed " + timerview.FormatClock(msg.out.Timer.RemainingSeconds) + " left"
		case "paused":
			m.status = "paused session restored"
		case "completed":
			m.status = fmt.Sprintf("session finished while away: %d min recorded", msg.out.DurationMinutes)
		}
		if m.current.Phase == "idle" && m.current.RemainingSeconds == 0 {
			return m, m.timerCmd(func(ctx context.Context) (timerdto.TimerOutput, error) {
				return m.timer.SetPreset(ctx, m.sessionLength)
			})
		}
		return m, nil

	case pubsub.Event[progressdto.CompletionEvent]:
		if msg.Type == pubsub.CompletedEvent {
			m.toastSeq++
			m.toast = completionMessages[rand.IntN(len(completionMessages))]
			m.status = fmt.Sprintf("%s complete: %d min", msg.Payload.SessionType, msg.Payload.DurationMinutes)
			cmds = append(cmds, expireToastCmd(m.toastSeq), m.statsView.Load(), m.snapshotCmd())
		}
		cmds = append(cmds, m.listenCmd())
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case progressFileChangedMsg:
		return m, tea.Batch(m.statsView.Load(), m.watchCmd())

	case statsview.LoadedMsg:
		if msg.Err == nil {
			m.timerView.SetSummary(msg.Progress)
		}
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case pulledMsg:
		if msg.err != nil {
			m.status = "pull: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("pulled: %d sessions, streak %d", msg.out.TotalSessions, msg.out.Streak)
		return m, m.statsView.Load()

	case reindexedMsg:
		if msg.err != nil {
			m.status = "reindex: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("reindexed %d sessions", msg.n)
		return m, m.statsView.Load()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case " ":
			return m, m.toggleCmd()
		case "s":
			return m, m.timerCmd(m.timer.Stop)
		case "1", "2", "3":
			if m.current.Phase == "running" {
				m.status = "pause or stop the timer first"
				return m, nil
			}
			preset := map[string]string{"1": "quick-focus", "2": "deep-work", "3": "marathon"}[msg.String()]
			return m, m.presetCmd(preset)
		case "m":
			return m, m.setModeCmd(nextMode(m.mode))
		}
	}

	// The spinner keeps ticking even while the stats tab is shown.
	if _, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	if m.activeTab == tabStats {
		m.statsView, cmd = m.statsView.Update(msg)
	}
	return m, cmd
}

func (m *Model) setTimer(t timerdto.TimerOutput) {
	m.current = t
	m.timerView.SetTimer(t)
	if t.Mode != "" && t.Mode != m.mode {
		m.mode = t.Mode
		m.timerView.SetMode(t.Mode)
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabStats:
		content = m.statsView.View()
	default:
		content = m.timerView.View()
		if m.toast != "" {
			content = lipgloss.JoinVertical(lipgloss.Center, theme.Toast.Render(wrapToast(m.toast, m.width)), content)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

// wrapToast keeps the toast inside the window, leaving room for its border.
func wrapToast(msg string, width int) string {
	if width <= 12 {
		return msg
	}
	return wordwrap.String(msg, width-8)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "focusflow  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.current.Phase == "running" {
		left = theme.Hot.Render("● "+timerview.FormatClock(m.current.RemainingSeconds)) + "  " + left
	}
	right := theme.Muted.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	if room := m.width - lipgloss.Width(right) - 1; room > 0 && lipgloss.Width(left) > room {
		left = ansi.Truncate(left, room, "…")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "timer:preset":
		if len(parts) < 2 {
			m.status = "usage: timer:preset <quick-focus|deep-work|marathon>"
			return m, nil
		}
		if m.current.Phase == "running" {
			m.status = "pause or stop the timer first"
			return m, nil
		}
		return m, m.presetCmd(parts[1])

	case "timer:duration":
		if len(parts) < 2 {
			m.status = "usage: timer:duration <minutes> [type]"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil || minutes <= 0 {
			m.status = "invalid minutes: " + parts[1]
			return m, nil
		}
		sessionType := "custom"
		if len(parts) >= 3 {
			sessionType = parts[2]
		}
		return m, m.timerCmd(func(ctx context.Context) (timerdto.TimerOutput, error) {
			return m.timer.SetDuration(ctx, minutes*60, sessionType)
		})

	case "timer:start":
		return m, m.startCmd()

	case "timer:pause":
		return m, m.timerCmd(m.timer.Pause)

	case "timer:stop":
		return m, m.timerCmd(m.timer.Stop)

	case "mode":
		if len(parts) < 2 || !validMode(parts[1]) {
			m.status = "usage: mode <zen|achievement|hybrid>"
			return m, nil
		}
		return m, m.setModeCmd(parts[1])

	case "progress:refresh":
		m.activeTab = tabStats
		return m, m.statsView.Load()

	case "progress:pull":
		return m, m.pullCmd()

	case "progress:reindex":
		return m, m.reindexCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func nextMode(current string) string {
	for i, mode := range modes {
		if mode == current {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func validMode(mode string) bool {
	for _, candidate := range modes {
		if candidate == mode {
			return true
		}
	}
	return false
}

// watchProgressFile watches the directory holding the progress file, since
// atomic saves replace the file and would drop a watch on the file itself.
func watchProgressFile(path string, logger hclog.Logger) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("progress watcher unavailable", "error", err)
		return nil
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("watch progress dir failed", "path", filepath.Dir(path), "error", err)
		_ = watcher.Close()
		return nil
	}
	return watcher
}

// ─── async commands ───────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func expireToastCmd(seq int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m Model) listenCmd() tea.Cmd {
	if m.life.events == nil {
		return nil
	}
	return pubsub.ListenCmd(m.life.ctx, m.life.events)
}

func (m Model) watchCmd() tea.Cmd {
	watcher := m.life.watcher
	if watcher == nil {
		return nil
	}
	ctx := m.life.ctx
	target := m.progressFile
	return func() tea.Msg {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					return progressFileChangedMsg{}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.timer.LoadAndResume(context.Background())
		return resumedMsg{out: out, err: err}
	}
}

func (m Model) advanceCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.timer.Tick(context.Background())
		return timerMsg{timer: out.Timer, err: err}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	return m.timerCmd(m.timer.Snapshot)
}

func (m Model) timerCmd(fn func(context.Context) (timerdto.TimerOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return timerMsg{timer: out, err: err}
	}
}

func (m Model) presetCmd(preset string) tea.Cmd {
	return m.timerCmd(func(ctx context.Context) (timerdto.TimerOutput, error) {
		return m.timer.SetPreset(ctx, preset)
	})
}

// startCmd starts the countdown, loading the configured session length first
// when there is nothing left to count.
func (m Model) startCmd() tea.Cmd {
	needsDuration := m.current.RemainingSeconds <= 0
	sessionLength := m.sessionLength
	return m.timerCmd(func(ctx context.Context) (timerdto.TimerOutput, error) {
		if needsDuration {
			if _, err := m.timer.SetPreset(ctx, sessionLength); err != nil {
				return timerdto.TimerOutput{}, err
			}
		}
		return m.timer.Start(ctx)
	})
}

func (m Model) toggleCmd() tea.Cmd {
	if m.current.Phase == "running" {
		return m.timerCmd(m.timer.Pause)
	}
	return m.startCmd()
}

func (m Model) setModeCmd(mode string) tea.Cmd {
	return m.timerCmd(func(ctx context.Context) (timerdto.TimerOutput, error) {
		return m.timer.SetMode(ctx, mode)
	})
}

func (m Model) pullCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.progress.Pull(context.Background())
		return pulledMsg{out: out, err: err}
	}
}

func (m Model) reindexCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.progress.Reindex(context.Background())
		return reindexedMsg{n: n, err: err}
	}
}
