package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "focus/internal/modules/timer/dto"
	"focus/internal/platform/config"
	"focus/internal/ui/components"
	"focus/internal/ui/theme"
	historyview "focus/internal/ui/views/history"
	timerview "focus/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Start(ctx context.Context, modeTitle, modeColor string, seconds int, goalRef string) (timerdto.StartOutput, error)
	Pause(ctx context.Context) (timerdto.TransitionOutput, error)
	Resume(ctx context.Context) (timerdto.TransitionOutput, error)
	Abort(ctx context.Context) (timerdto.TransitionOutput, error)
	Finish(ctx context.Context) (timerdto.TransitionOutput, error)
}

// lifecyclePort is driven by terminal focus, suspend and resume.
type lifecyclePort interface {
	Foreground(ctx context.Context) (timerdto.StatusOutput, error)
	Background(ctx context.Context)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

type statusLoadedMsg struct {
	status timerdto.StatusOutput
	err    error
}

type startedMsg struct {
	out  timerdto.StartOutput
	goal string
	err  error
}

type transitionMsg struct {
	op  string
	out timerdto.TransitionOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Suspend key.Binding
	Focus   key.Binding
	Short   key.Binding
	Long    key.Binding
	Pause   key.Binding
	Abort   key.Binding
	Finish  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Focus:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "start focus")),
		Short:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "short break")),
		Long:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "long break")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Abort:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "abort")),
		Finish:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "finish early")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Short, k.Long},
		{k.Pause, k.Abort, k.Finish},
		{k.Tab, k.Help, k.Palette, k.Suspend, k.Quit},
	}
}

// quickStart maps the timer tab's start keys to mode names.
var quickStart = map[string]string{
	"f": "focus",
	"b": "short-break",
	"l": "long-break",
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay,
// the command palette and the host lifecycle: terminal focus, suspend and
// resume are forwarded to the engine as foreground/background transitions.
type Model struct {
	timer     timerPort
	lifecycle lifecyclePort
	modes     []config.Mode

	timerView   timerview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(timer timerPort, lifecycle lifecyclePort, history historyview.HistoryPort, modes []config.Mode) Model {
	names := make([]string, 0, len(modes))
	for _, mode := range modes {
		names = append(names, mode.Name)
	}
	return Model{
		timer:       timer,
		lifecycle:   lifecycle,
		modes:       modes,
		timerView:   timerview.New(),
		historyView: historyview.New(history),
		activeTab:   tabTimer,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(names),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.foregroundCmd(), m.historyView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Engine messages are handled even while the palette is open.
	switch msg := msg.(type) {
	case timerview.TickMsg:
		m.timerView, _ = m.timerView.Update(msg)
		if terminal(msg.State) {
			return m, m.historyView.Reload()
		}
		return m, nil
	case historyview.LoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	}

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case tea.FocusMsg, tea.ResumeMsg:
		return m, m.foregroundCmd()

	case tea.BlurMsg:
		return m, m.backgroundCmd()

	case statusLoadedMsg:
		if msg.err != nil {
			m.status = "reconcile failed: " + msg.err.Error()
			return m, nil
		}
		m.timerView, _ = m.timerView.Update(tickFromStatus(msg.status))
		if msg.status.Active {
			m.timerView.SetGoal(msg.status.GoalRef)
		}
		if terminal(msg.status.State) {
			m.status = msg.status.ModeTitle + " completed while away"
			return m, m.historyView.Reload()
		}

	case startedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			return m, nil
		}
		m.timerView.SetGoal(msg.goal)
		m.timerView.SetWarning(msg.out.Warning)
		m.status = fmt.Sprintf("started %s session", timerview.FormatClock(msg.out.Duration))
		m.activeTab = tabTimer

	case transitionMsg:
		if msg.err != nil {
			m.status = msg.op + " failed: " + msg.err.Error()
			return m, nil
		}
		if msg.out.Warning != "" {
			m.timerView.SetWarning(msg.out.Warning)
		}
		m.status = describeTransition(msg.op, msg.out)
		if terminal(msg.out.State) {
			return m, m.historyView.Reload()
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the history filter while the user is typing.
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Sequence(m.backgroundCmd(), tea.Quit)
		case "ctrl+z":
			return m, tea.Sequence(m.backgroundCmd(), tea.Suspend)
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "f", "b", "l":
			if m.activeTab == tabTimer {
				return m.startMode(quickStart[msg.String()], 0, "")
			}
		case "p":
			if m.activeTab == tabTimer {
				if m.timerView.State() == "paused" {
					return m, m.transitionCmd("resume", m.timer.Resume)
				}
				return m, m.transitionCmd("pause", m.timer.Pause)
			}
		case "x":
			if m.activeTab == tabTimer {
				return m, m.transitionCmd("abort", m.timer.Abort)
			}
		case "d":
			if m.activeTab == tabTimer {
				return m, m.transitionCmd("finish", m.timer.Finish)
			}
		}
	}

	if m.activeTab == tabHistory {
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
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
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.timerView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "focus  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

type command struct {
	name    string
	mode    string
	minutes int
	goal    string
}

func parseCommand(input string) (command, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	cmd := command{name: parts[0]}
	if cmd.name != "start" {
		return cmd, nil
	}
	if len(parts) < 2 {
		return command{}, fmt.Errorf("usage: start <mode> [minutes] [goal]")
	}
	cmd.mode = parts[1]
	rest := parts[2:]
	if len(rest) > 0 {
		if n, err := strconv.Atoi(rest[0]); err == nil {
			if n <= 0 {
				return command{}, fmt.Errorf("minutes must be positive")
			}
			cmd.minutes = n
			rest = rest[1:]
		}
	}
	cmd.goal = strings.Join(rest, " ")
	return cmd, nil
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	cmd, err := parseCommand(input)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	switch cmd.name {
	case "start":
		return m.startMode(cmd.mode, cmd.minutes, cmd.goal)
	case "pause":
		return m, m.transitionCmd("pause", m.timer.Pause)
	case "resume":
		return m, m.transitionCmd("resume", m.timer.Resume)
	case "abort":
		return m, m.transitionCmd("abort", m.timer.Abort)
	case "finish":
		return m, m.transitionCmd("finish", m.timer.Finish)
	case "history":
		m.activeTab = tabHistory
		return m, m.historyView.Reload()
	case "modes":
		names := make([]string, 0, len(m.modes))
		for _, mode := range m.modes {
			names = append(names, fmt.Sprintf("%s(%dm)", mode.Name, mode.Minutes))
		}
		m.status = "modes: " + strings.Join(names, " ")
	default:
		m.status = "unknown command: " + cmd.name
	}
	return m, nil
}

func (m Model) startMode(name string, minutes int, goal string) (tea.Model, tea.Cmd) {
	mode, ok := config.Config{Modes: m.modes}.FindMode(name)
	if !ok {
		m.status = "unknown mode: " + name
		return m, nil
	}
	if minutes <= 0 {
		minutes = mode.Minutes
	}
	return m, m.startCmd(mode, minutes*60, goal)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

func terminal(state string) bool {
	switch state {
	case "completed", "aborted", "early-finished":
		return true
	}
	return false
}

func tickFromStatus(s timerdto.StatusOutput) timerview.TickMsg {
	return timerview.TickMsg{
		SessionID: s.SessionID,
		State:     s.State,
		ModeTitle: s.ModeTitle,
		ModeColor: s.ModeColor,
		Duration:  s.Duration,
		Remaining: s.Remaining,
	}
}

func describeTransition(op string, out timerdto.TransitionOutput) string {
	switch out.State {
	case "paused":
		return "paused with " + timerview.FormatClock(out.Remaining) + " left"
	case "running":
		return "resumed"
	case "completed", "aborted", "early-finished":
		return fmt.Sprintf("session %s after %s", out.State, timerview.FormatClock(out.ActualActiveSeconds))
	}
	return op
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) foregroundCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.lifecycle.Foreground(context.Background())
		return statusLoadedMsg{status: status, err: err}
	}
}

func (m Model) backgroundCmd() tea.Cmd {
	return func() tea.Msg {
		m.lifecycle.Background(context.Background())
		return nil
	}
}

func (m Model) startCmd(mode config.Mode, seconds int, goal string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.timer.Start(context.Background(), mode.Title, mode.Color, seconds, goal)
		return startedMsg{out: out, goal: goal, err: err}
	}
}

func (m Model) transitionCmd(op string, fn func(context.Context) (timerdto.TransitionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return transitionMsg{op: op, out: out, err: err}
	}
}
