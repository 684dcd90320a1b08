package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-gems/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80
	sidebarWidth       = 24
	maxSessions        = 50
)

// HistorySource is the read side of the journal.
type HistorySource interface {
	RecentSessions(limit int) ([]storage.SessionInfo, error)
	Turns(sessionID string) ([]storage.TurnRecord, error)
	SessionStats(sessionID string) (*storage.SessionStats, error)
}

// HistoryKeyMap defines the key bindings for the history view.
type HistoryKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextSession key.Binding
	PrevSession key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextSession, k.PrevSession, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextSession, k.PrevSession},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "older session"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "newer session"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel browses journaled sessions and their turns.
type HistoryModel struct {
	source      HistorySource
	sessions    []storage.SessionInfo
	cursor      int
	turns       []storage.TurnRecord
	stats       *storage.SessionStats
	err         error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	palette     Palette
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel loads the recent sessions. If focus is non-empty and
// names a listed session, that session is shown first.
func NewHistoryModel(source HistorySource, width, height int, focus string, palette Palette) HistoryModel {
	m := HistoryModel{
		source:      source,
		keys:        DefaultHistoryKeyMap(),
		help:        help.New(),
		palette:     palette,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	if source != nil {
		m.sessions, m.err = source.RecentSessions(maxSessions)
	}
	for i, s := range m.sessions {
		if s.ID == focus {
			m.cursor = i
		}
	}
	m.loadTurns()
	return m
}

// createTable creates a table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Swap", Width: 14},
		{Title: "Result", Width: 9},
		{Title: "Passes", Width: 6},
		{Title: "Cleared", Width: 7},
		{Title: "Spawned", Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipglossAccent).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadTurns loads the turns and stats of the session under the cursor.
func (m *HistoryModel) loadTurns() {
	m.turns, m.stats = nil, nil
	if m.source != nil && len(m.sessions) > 0 {
		id := m.sessions[m.cursor].ID
		if turns, err := m.source.Turns(id); err == nil {
			m.turns = turns
		} else {
			m.err = err
		}
		if stats, err := m.source.SessionStats(id); err == nil {
			m.stats = stats
		}
	}
	m.table.SetRows(TurnRows(m.turns))
	m.table.GotoTop()
}

// TurnRows formats journal turns as table rows.
func TurnRows(turns []storage.TurnRecord) []table.Row {
	rows := make([]table.Row, len(turns))
	for i, t := range turns {
		result := "reverted"
		switch {
		case t.Truncated:
			result = "truncated"
		case t.Accepted:
			result = "cleared"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", t.Turn),
			fmt.Sprintf("(%d,%d)→(%d,%d)", t.FromX, t.FromY, t.ToX, t.ToY),
			result,
			fmt.Sprintf("%d", t.Passes),
			fmt.Sprintf("%d", t.Cleared),
			fmt.Sprintf("%d", t.Spawned),
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextSession):
			if len(m.sessions) > 0 {
				m.cursor = (m.cursor + 1) % len(m.sessions)
				m.loadTurns()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevSession):
			if len(m.sessions) > 0 {
				m.cursor = (m.cursor + len(m.sessions) - 1) % len(m.sessions)
				m.loadTurns()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(TurnRows(m.turns))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := m.palette.Style().Bold(true).Foreground(lipglossAccent)
	title := "HISTORY"
	if len(m.sessions) > 0 {
		s := m.sessions[m.cursor]
		title = fmt.Sprintf("HISTORY - %s %s", s.Source, shortID(s.ID))
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width, len([]rune(title))))
	b.WriteString("\n\n")

	if m.stats != nil {
		b.WriteString(fmt.Sprintf("Turns %d  Accepted %d  Longest cascade %d  Cleared %d  Truncated %d\n\n",
			m.stats.Turns, m.stats.Accepted, m.stats.LongestCascade, m.stats.TotalCleared, m.stats.Truncated))
	}

	box := m.palette.Style().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := box.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}
	b.WriteString(content)

	b.WriteString("\n")
	helpStyle := m.palette.Style().Foreground(lipglossGray)
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m HistoryModel) renderSidebar() string {
	style := m.palette.Style().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Sessions\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, s := range m.sessions {
		cursor := "  "
		line := m.palette.Style()
		if i == m.cursor {
			cursor = "> "
			line = line.Bold(true).Foreground(lipglossAccent)
		}
		sb.WriteString(line.Render(fmt.Sprintf("%s%s %s", cursor, shortID(s.ID), s.Source)))
		sb.WriteString("\n")
	}
	return style.Render(sb.String())
}

func (m HistoryModel) renderTableContent() string {
	empty := m.palette.Style().Foreground(lipglossGray).Italic(true).Padding(2, 4)
	switch {
	case m.err != nil:
		return empty.Render("Could not read the journal:\n" + m.err.Error())
	case len(m.sessions) == 0:
		return empty.Render("No sessions recorded yet.\nPlay a board to start the journal!")
	case len(m.turns) == 0:
		return empty.Render("No turns in this session.")
	}
	return m.table.View()
}

// shortID trims a uuid to its first group.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(source HistorySource, width, height int, focus string) (goBack bool, err error) {
	model := NewHistoryModel(source, width, height, focus, NewPalette(nil))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
