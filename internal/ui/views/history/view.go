package history

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	historydto "focus/internal/modules/history/dto"
	"focus/internal/ui/theme"
	"focus/internal/ui/views/timer"
)

const pageSize = 50

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	List(ctx context.Context, limit int) ([]historydto.EntryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Entries []historydto.EntryOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	entry historydto.EntryOutput
}

func (i entryItem) Title() string {
	return fmt.Sprintf("%s  %s", i.entry.ModeTitle, theme.OutcomeStyle(i.entry.Outcome).Render(i.entry.Outcome))
}

func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s  %s / %s",
		i.entry.EndedAt.Local().Format("Mon 02 Jan 15:04"),
		timer.FormatClock(i.entry.ActualActiveSeconds),
		timer.FormatClock(i.entry.PlannedDuration))
	if i.entry.GoalRef != "" {
		desc += "  " + i.entry.GoalRef
	}
	return desc
}

func (i entryItem) FilterValue() string { return i.entry.ModeTitle + " " + i.entry.GoalRef }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   HistoryPort
	list   list.Model
	err    error
	width  int
	height int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches the most recent entries.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		entries, err := m.port.List(context.Background(), pageSize)
		return LoadedMsg{Entries: entries, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)
		return m, nil
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = entryItem{entry: e}
		}
		return m, m.list.SetItems(items)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.err == nil {
		return theme.Muted.Render("No sessions recorded yet")
	}
	return m.list.View()
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
