package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Warn  = lipgloss.NewStyle().Foreground(Yellow)
)

// ModeColor returns the configured mode colour, or Peach when none is set.
func ModeColor(hex string) lipgloss.Color {
	if hex == "" {
		return Peach
	}
	return lipgloss.Color(hex)
}

// OutcomeStyle colours a session state or outcome label.
func OutcomeStyle(state string) lipgloss.Style {
	switch state {
	case "completed", "running":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "paused":
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case "aborted":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case "early-finished":
		return lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	default:
		return Muted
	}
}
