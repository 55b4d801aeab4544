package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focusflow/internal/ui/theme"
)

// PaletteSubmitMsg carries the trimmed command line the user confirmed.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is sent when the palette is dismissed with esc.
type PaletteCancelMsg struct{}

const maxPaletteMatches = 5

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	usageStyle   = lipgloss.NewStyle().Foreground(theme.Subtext0)
	summaryStyle = lipgloss.NewStyle().Foreground(theme.Surface1)
)

// PaletteCommand describes one command the palette can suggest.
type PaletteCommand struct {
	Name    string
	Args    string
	Summary string
}

// PaletteCommands lists what the app executes from the palette. The model's
// dispatcher must handle every Name here.
var PaletteCommands = []PaletteCommand{
	{"timer:preset", "<quick-focus|deep-work|marathon>", "load a session length"},
	{"timer:duration", "<minutes> [type]", "custom countdown"},
	{"timer:start", "", "start or continue"},
	{"timer:pause", "", "pause the countdown"},
	{"timer:stop", "", "abandon without recording"},
	{"mode", "<zen|achievement|hybrid>", "switch display mode"},
	{"progress:refresh", "", "reload statistics"},
	{"progress:pull", "", "restore from the sync server"},
	{"progress:reindex", "", "rebuild the history index"},
}

// Palette is the ":" command line overlay.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

// NewPalette returns a hidden palette; call Open to show it.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "timer:start, mode zen, …"
	ti.CharLimit = 128
	ti.Prompt = ": "
	return Palette{input: ti}
}

// Visible reports whether the palette is open and owns key input.
func (p Palette) Visible() bool { return p.visible }

// Open shows an empty palette and returns the cursor blink command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the outer width of the overlay, border included.
func (p *Palette) SetWidth(w int) { p.width = w }

// Update handles keys while the palette is open. Enter submits, esc
// cancels, tab completes the command name when exactly one matches.
func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "tab":
			if m := matchCommands(p.input.Value()); len(m) == 1 {
				p.input.SetValue(m[0].Name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

// matchCommands returns the commands whose name starts with the first word
// of line, so the hint stays visible while arguments are typed.
func matchCommands(line string) []PaletteCommand {
	word, _, _ := strings.Cut(strings.TrimLeft(strings.ToLower(line), " "), " ")
	var out []PaletteCommand
	for _, c := range PaletteCommands {
		if strings.HasPrefix(c.Name, word) {
			out = append(out, c)
			if len(out) == maxPaletteMatches {
				break
			}
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Commands") + "\n")
	sb.WriteString(p.input.View() + "\n")
	if matches := matchCommands(p.input.Value()); len(matches) > 0 {
		sb.WriteString("\n")
		for _, c := range matches {
			usage := strings.TrimSpace(c.Name + " " + c.Args)
			sb.WriteString(usageStyle.Render("  "+usage) + "  " + summaryStyle.Render(c.Summary) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
