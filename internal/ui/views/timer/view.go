package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focus/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// TickMsg carries one countdown refresh from the engine.
type TickMsg struct {
	SessionID string
	State     string
	ModeTitle string
	ModeColor string
	Duration  int
	Remaining int
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	current TickMsg
	goalRef string
	warning string
	bar     progress.Model
	width   int
	height  int
}

func New() Model {
	bar := progress.New(progress.WithSolidFill(string(theme.Peach)), progress.WithoutPercentage())
	return Model{current: TickMsg{State: "idle"}, bar: bar}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(m.width-8, 60))
	case TickMsg:
		if msg.SessionID != m.current.SessionID {
			m.warning = ""
		}
		m.current = msg
		m.bar.FullColor = string(theme.ModeColor(msg.ModeColor))
	}
	return m, nil
}

// SetGoal records the goal shown under the mode title.
func (m *Model) SetGoal(goal string) { m.goalRef = goal }

// SetWarning shows a one-line notice under the countdown until the next session.
func (m *Model) SetWarning(warning string) { m.warning = warning }

// State returns the last known session state.
func (m Model) State() string { return m.current.State }

func (m Model) View() string {
	c := m.current
	var sb strings.Builder

	switch c.State {
	case "running", "paused":
		title := lipgloss.NewStyle().Foreground(theme.ModeColor(c.ModeColor)).Bold(true).Render(c.ModeTitle)
		sb.WriteString(title + "\n")
		if m.goalRef != "" {
			sb.WriteString(theme.Muted.Render("goal: "+m.goalRef) + "\n")
		}
		sb.WriteString("\n" + lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(FormatClock(c.Remaining)) + "\n\n")
		sb.WriteString(m.bar.ViewAs(Elapsed(c.Duration, c.Remaining)) + "\n\n")
		sb.WriteString(theme.OutcomeStyle(c.State).Render(c.State))
		if c.State == "running" {
			sb.WriteString("\n\n" + theme.Muted.Render("p: pause  x: abort  d: finish early"))
		} else {
			sb.WriteString("\n\n" + theme.Muted.Render("p: resume  x: abort  d: finish early"))
		}
	case "idle", "":
		sb.WriteString(theme.Title.Render("No active session") + "\n\n")
		sb.WriteString(theme.Muted.Render("f: focus  b: short break  l: long break  :: palette"))
	default:
		sb.WriteString(theme.OutcomeStyle(c.State).Render("Session "+c.State) + "\n\n")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s · %s planned", c.ModeTitle, FormatClock(c.Duration))) + "\n\n")
		sb.WriteString(theme.Muted.Render("f: focus  b: short break  l: long break  :: palette"))
	}
	if m.warning != "" {
		sb.WriteString("\n\n" + theme.Warn.Render("! "+m.warning))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

// FormatClock renders seconds as MM:SS, or H:MM:SS from one hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, rem := seconds/3600, seconds%3600
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, rem/60, rem%60)
	}
	return fmt.Sprintf("%02d:%02d", rem/60, rem%60)
}

// Elapsed is the fraction of duration already consumed, clamped to [0,1].
func Elapsed(duration, remaining int) float64 {
	if duration <= 0 {
		return 0
	}
	f := float64(duration-remaining) / float64(duration)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
