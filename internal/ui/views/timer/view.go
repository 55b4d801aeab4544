package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "focusflow/internal/modules/progress/dto"
	timerdto "focusflow/internal/modules/timer/dto"
	"focusflow/internal/ui/theme"
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the countdown. It owns no timer state of its own: the root
// model pushes every snapshot in with SetTimer.
type Model struct {
	timer    timerdto.TimerOutput
	summary  progressdto.ProgressOutput
	mode     string
	bar      progress.Model
	spinner  spinner.Model
	width    int
	height   int
	hasStats bool
}

func New(mode string) Model {
	bar := progress.New(
		progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)),
		progress.WithoutPercentage(),
	)
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{mode: mode, bar: bar, spinner: sp}
}

func (m Model) Init() tea.Cmd { return m.spinner.Tick }

func (m *Model) SetTimer(t timerdto.TimerOutput) { m.timer = t }

func (m *Model) SetSummary(p progressdto.ProgressOutput) {
	m.summary = p
	m.hasStats = true
}

func (m *Model) SetMode(mode string) { m.mode = mode }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 8
		if w > 60 {
			w = 60
		}
		if w < 10 {
			w = 10
		}
		m.bar.Width = w
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder

	header := theme.Title.Render(sessionLabel(m.timer.SessionType))
	header += "  " + theme.ModeStyle(m.mode).Render("["+m.mode+"]")
	sb.WriteString(header + "\n\n")

	clockStyle := theme.Clock
	status := m.timer.Phase
	switch m.timer.Phase {
	case "running":
		status = m.spinner.View() + " focusing"
	case "paused":
		clockStyle = theme.ClockPaused
	case "stopped":
		clockStyle = theme.ClockDone
	}
	sb.WriteString(clockStyle.Render(FormatClock(m.timer.RemainingSeconds)) + "\n")
	sb.WriteString(theme.Muted.Render(status) + "\n\n")
	sb.WriteString(m.bar.ViewAs(Fraction(m.timer)) + "\n\n")

	if line := m.statsLine(); line != "" {
		sb.WriteString(line + "\n")
	}

	body := lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
	if m.width == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// statsLine follows the presentation mode: zen keeps the screen to the clock,
// achievement shows every counter, hybrid shows today's total only.
func (m Model) statsLine() string {
	if !m.hasStats {
		return ""
	}
	switch m.mode {
	case "achievement":
		return theme.Hot.Render(fmt.Sprintf("🔥 %d day streak", m.summary.Streak)) +
			theme.Muted.Render(fmt.Sprintf("   today %dm   sessions %d", m.summary.TodayMinutes, m.summary.TotalSessions))
	case "hybrid":
		return theme.Muted.Render(fmt.Sprintf("today %dm", m.summary.TodayMinutes))
	default:
		return ""
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// Fraction is the elapsed share of the configured duration.
func Fraction(t timerdto.TimerOutput) float64 {
	if t.OriginalSeconds <= 0 {
		return 0
	}
	done := float64(t.OriginalSeconds-t.RemainingSeconds) / float64(t.OriginalSeconds)
	if done < 0 {
		return 0
	}
	if done > 1 {
		return 1
	}
	return done
}

func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func sessionLabel(sessionType string) string {
	switch sessionType {
	case "quick-focus":
		return "Quick Focus"
	case "deep-work":
		return "Deep Work"
	case "marathon":
		return "Marathon"
	case "":
		return "No session"
	default:
		return "Custom"
	}
}
