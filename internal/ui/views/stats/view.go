package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	progressdto "focusflow/internal/modules/progress/dto"
	"focusflow/internal/ui/theme"
)

const historyDays = 7

// Port is the minimal interface this view needs from the progress use-case.
type Port interface {
	GetProgress(ctx context.Context) (progressdto.ProgressOutput, error)
	History(ctx context.Context, days int) ([]progressdto.DayTotalOutput, error)
}

// LoadedMsg carries a fresh progress summary and the last week of totals.
type LoadedMsg struct {
	Progress progressdto.ProgressOutput
	Days     []progressdto.DayTotalOutput
	Err      error
}

type Model struct {
	port     Port
	viewport viewport.Model
	renderer *glamour.TermRenderer
	loaded   LoadedMsg
	width    int
	height   int
}

func New(port Port) Model {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{port: port, viewport: viewport.New(0, 0), renderer: r}
}

func (m Model) Init() tea.Cmd { return m.Load() }

// Load fetches progress and history off the UI goroutine.
func (m Model) Load() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		if port == nil {
			return LoadedMsg{}
		}
		ctx := context.Background()
		p, err := port.GetProgress(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		days, err := port.History(ctx, historyDays)
		return LoadedMsg{Progress: p, Days: days, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.viewport.SetContent(m.render())
		return m, nil
	case LoadedMsg:
		m.loaded = msg
		m.viewport.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string { return m.viewport.View() }

func (m Model) render() string {
	if m.loaded.Err != nil {
		return theme.Error.Render("progress: " + m.loaded.Err.Error())
	}
	md := Markdown(m.loaded.Progress, m.loaded.Days)
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Markdown lays out the progress summary as a markdown document.
func Markdown(p progressdto.ProgressOutput, days []progressdto.DayTotalOutput) string {
	var sb strings.Builder
	sb.WriteString("# Progress\n\n")
	sb.WriteString("| today | sessions | streak | total focus |\n|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %dm | %d | %d days | %dh %dm |\n\n",
		p.TodayMinutes, p.TotalSessions, p.Streak, p.TotalFocusTime/60, p.TotalFocusTime%60)

	if len(days) > 0 {
		sb.WriteString("## Last 7 days\n\n| day | sessions | minutes |\n|---|---|---|\n")
		for _, d := range days {
			fmt.Fprintf(&sb, "| %s | %d | %d |\n", d.Day, d.Sessions, d.Minutes)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Recent sessions\n\n")
	if len(p.RecentSessions) == 0 {
		sb.WriteString("_No sessions yet._\n")
		return sb.String()
	}
	for _, s := range p.RecentSessions {
		fmt.Fprintf(&sb, "- **%s** %d min, %s (%s)\n", s.SessionType, s.Duration, s.Date.Local().Format("Jan 2 15:04"), s.Mode)
	}
	return sb.String()
}
