package web

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-gems/internal/config"
	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

var (
	// ErrTooManyRooms is returned when the room limit is reached.
	ErrTooManyRooms  = errors.New("web: too many rooms")
	// ErrBoardTooLarge is returned for boards over the cell limit.
	ErrBoardTooLarge = errors.New("web: board too large")
)

// CreateRequest describes a new room. Every field is optional.
type CreateRequest struct {
	Seed       int64    `json:"seed"`
	Difficulty string   `json:"difficulty"`
	Rows       []string `json:"rows"` // starting layout, top row first; 'A' is value 0, '.' is empty
}

// Manager tracks the live rooms.
type Manager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	pending int // rooms being built outside the lock
	cfg     Config
	journal Journal
	logger  *log.Logger
}

// NewManager creates an empty manager. journal may be nil.
func NewManager(cfg Config, journal Journal, logger *log.Logger) *Manager {
	return &Manager{
		rooms:   make(map[string]*Room),
		cfg:     cfg,
		journal: journal,
		logger:  logger,
	}
}

// Create starts a room for req.
func (m *Manager) Create(req CreateRequest) (*Room, error) {
	preset := m.cfg.Difficulty
	if req.Difficulty != "" {
		p, err := config.ParseDifficulty(req.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("web: %w", err)
		}
		preset = p
	}
	mc := m.cfg.Board
	config.ApplyMatch3Preset(&mc, preset)
	cfg := mc.BoardConfig()

	var grid *board.Grid
	if len(req.Rows) > 0 {
		if err := m.checkSize(len(req.Rows[0]), len(req.Rows)); err != nil {
			return nil, err
		}
		g, err := board.FromRows(req.Rows...)
		if err != nil {
			return nil, fmt.Errorf("web: %w", err)
		}
		grid = g
		cfg.Width, cfg.Height = g.Width(), g.Height()
	} else if err := m.checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if err := m.reserve(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	room, err := newRoom(id, seed, cfg, grid, m.cfg.Tick, m.journal, m.logger)

	m.mu.Lock()
	m.pending--
	if err == nil {
		m.rooms[id] = room
	}
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}

	m.logger.Info("room created", "room", id, "seed", seed, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	return room, nil
}

func (m *Manager) checkSize(w, h int) error {
	if m.cfg.MaxBoardCells > 0 && w*h > m.cfg.MaxBoardCells {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrBoardTooLarge, w, h, m.cfg.MaxBoardCells)
	}
	return nil
}

// reserve claims a room slot. The room itself is built without the lock.
func (m *Manager) reserve() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.MaxRooms > 0 && len(m.rooms)+m.pending >= m.cfg.MaxRooms {
		return ErrTooManyRooms
	}
	m.pending++
	return nil
}

// Get returns the room with the given id.
func (m *Manager) Get(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// List returns the ids of all rooms, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Close stops and forgets a room. Returns false if it does not exist.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	r, ok := m.rooms[id]
	delete(m.rooms, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	r.Close()
	m.logger.Info("room closed", "room", id)
	return true
}

// CloseAll stops every room.
func (m *Manager) CloseAll() {
	for _, id := range m.List() {
		m.Close(id)
	}
}
