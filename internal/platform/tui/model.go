package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
	"github.com/vovakirdan/tui-gems/internal/registry"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

var logger = log.New(io.Discard)

// SetLogger routes journal warnings. The default discards them so they do
// not draw over the terminal UI.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Journal records played sessions. *storage.Store implements it.
type Journal interface {
	CreateSession(info storage.SessionInfo) (string, error)
	RecordTurn(rec storage.TurnRecord) (int64, error)
}

// boardGame is implemented by games that can describe their board for
// the journal.
type boardGame interface {
	BoardConfig() board.Config
	Seed() int64
}

// Model is the Bubble Tea model that runs one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	journal    Journal
	sessionID  string
	palette    Palette
	keys       *KeyMapper
	help       help.Model
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	embedded   bool // inside a SessionModel: back does not quit the program
	quitting   bool
	backToMenu bool
}

// NewModel creates a model for the given game and starts its first board.
// journal may be nil.
func NewModel(game registry.Game, journal Journal, cfg core.RuntimeConfig, palette Palette) Model {
	m := Model{
		game:       game,
		journal:    journal,
		palette:    palette,
		keys:       NewKeyMapper(),
		help:       help.New(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
	}
	m.help.Width = cfg.ScreenW
	m.screen = core.NewScreen(cfg.ScreenW, m.gameHeight())
	m.start()
	return m
}

// start resets the game onto a fresh board and opens a journal session.
func (m *Model) start() {
	cfg := m.config
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.ScreenH = m.gameHeight()
	m.game.Reset(cfg)
	m.gameState = m.game.State()
	m.sessionID = ""

	if m.journal == nil {
		return
	}
	info := storage.SessionInfo{Source: m.game.ID(), Seed: cfg.Seed}
	if bg, ok := m.game.(boardGame); ok {
		info = storage.NewSessionInfo(m.game.ID(), bg.Seed(), bg.BoardConfig())
	}
	// Without a session the board still plays, it just is not journaled.
	id, err := m.journal.CreateSession(info)
	if err != nil {
		logger.Warn("journal session not created", "game", m.game.ID(), "error", err)
		return
	}
	m.sessionID = id
}

// gameHeight is the screen height left after the help footer.
func (m Model) gameHeight() int {
	footer := 1
	if m.help.ShowAll {
		footer = 4
	}
	return max(m.config.ScreenH-footer, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg.Width, msg.Height)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.handleResize(m.config.ScreenW, m.config.ScreenH)
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionNone:
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.backToMenu = true
		if !m.embedded {
			return m, tea.Quit
		}
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize resizes the screen without resetting the board.
func (m Model) handleResize(w, h int) (tea.Model, tea.Cmd) {
	m.config.ScreenW = w
	m.config.ScreenH = h
	m.help.Width = w
	m.screen.Resize(w, m.gameHeight())
	m.game.Resize(w, m.gameHeight())
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.config.Seed = 0
		m.start()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Turn != nil && m.journal != nil && m.sessionID != "" {
		rec := storage.TurnFromResult(m.sessionID, result.State.Turns, *result.Turn)
		if _, err := m.journal.RecordTurn(rec); err != nil {
			logger.Warn("journal turn not recorded", "session", m.sessionID, "error", err)
		}
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot writes the current screen as plain text.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".gems", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the board and the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	helpStyle := m.palette.Style().Foreground(lipglossGray)
	return m.palette.Render(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// SessionID returns the journal session of the current board, if any.
func (m Model) SessionID() string {
	return m.sessionID
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a full-screen program for one game.
// It reports whether the player asked to go back to the menu.
func Run(game registry.Game, journal Journal, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewModel(game, journal, cfg, NewPalette(nil))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(Model); ok {
		return m.BackToMenu(), nil
	}
	return false, nil
}
