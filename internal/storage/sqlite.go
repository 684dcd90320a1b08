// Package storage keeps a SQLite journal of played sessions and their turns.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

// Store manages the SQLite database connection for the journal.
type Store struct {
	db *sql.DB
}

// SessionInfo describes one board from creation until it is dropped.
type SessionInfo struct {
	ID        string
	Source    string // game id, "sim" or "web"
	Seed      int64
	Width     int
	Height    int
	Alphabet  int
	CreatedAt time.Time
}

// TurnRecord is one journaled swap proposal.
type TurnRecord struct {
	ID        int64
	SessionID string
	Turn      int
	FromX     int
	FromY     int
	ToX       int
	ToY       int
	Accepted  bool
	Passes    int
	Cleared   int
	Spawned   int
	Truncated bool
	CreatedAt time.Time
}

// SessionStats contains aggregated numbers for one session.
type SessionStats struct {
	SessionID      string
	Turns          int
	Accepted       int
	LongestCascade int
	TotalCleared   int
	Truncated      int
}

// ErrSessionNotFound is returned when a session id has no row.
var ErrSessionNotFound = errors.New("storage: session not found")

// NewSessionInfo fills a SessionInfo from a board config with a fresh id.
func NewSessionInfo(source string, seed int64, cfg board.Config) SessionInfo {
	return SessionInfo{
		ID:       uuid.NewString(),
		Source:   source,
		Seed:     seed,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Alphabet: cfg.Alphabet,
	}
}

// TurnFromResult converts a finished turn into a journal record.
func TurnFromResult(sessionID string, n int, r board.TurnResult) TurnRecord {
	return TurnRecord{
		SessionID: sessionID,
		Turn:      n,
		FromX:     r.From.X,
		FromY:     r.From.Y,
		ToX:       r.To.X,
		ToY:       r.To.Y,
		Accepted:  r.Accepted,
		Passes:    r.Passes,
		Cleared:   r.Cleared,
		Spawned:   r.Spawned,
		Truncated: r.Truncated,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			alphabet INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			turn INTEGER NOT NULL,
			from_x INTEGER NOT NULL,
			from_y INTEGER NOT NULL,
			to_x INTEGER NOT NULL,
			to_y INTEGER NOT NULL,
			accepted BOOLEAN NOT NULL,
			passes INTEGER NOT NULL DEFAULT 0,
			cleared INTEGER NOT NULL DEFAULT 0,
			spawned INTEGER NOT NULL DEFAULT 0,
			truncated BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, turn);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSession stores a new session. An empty ID gets a fresh uuid.
// Returns the session id.
func (s *Store) CreateSession(info SessionInfo) (string, error) {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, source, seed, width, height, alphabet)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID, info.Source, info.Seed, info.Width, info.Height, info.Alphabet,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot create session: %w", err)
	}
	return info.ID, nil
}

// Session looks up one session by id.
func (s *Store) Session(id string) (*SessionInfo, error) {
	var info SessionInfo
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, source, seed, width, height, alphabet, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&info.ID, &info.Source, &info.Seed, &info.Width, &info.Height, &info.Alphabet, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	info.CreatedAt = parseTime(createdAt)
	return &info, nil
}

// RecordTurn appends a turn to its session.
// Returns the ID of the inserted record.
func (s *Store) RecordTurn(rec TurnRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO turns
		 (session_id, turn, from_x, from_y, to_x, to_y, accepted, passes, cleared, spawned, truncated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Turn,
		rec.FromX, rec.FromY, rec.ToX, rec.ToY,
		rec.Accepted, rec.Passes, rec.Cleared, rec.Spawned, rec.Truncated,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record turn: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Turns returns every turn of a session in play order.
func (s *Store) Turns(sessionID string) ([]TurnRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, turn, from_x, from_y, to_x, to_y,
		        accepted, passes, cleared, spawned, truncated, created_at
		 FROM turns
		 WHERE session_id = ?
		 ORDER BY turn, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		var createdAt any
		if err := rows.Scan(
			&t.ID, &t.SessionID, &t.Turn,
			&t.FromX, &t.FromY, &t.ToX, &t.ToY,
			&t.Accepted, &t.Passes, &t.Cleared, &t.Spawned, &t.Truncated,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		t.CreatedAt = parseTime(createdAt)
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return turns, nil
}

// RecentSessions returns the newest sessions first.
func (s *Store) RecentSessions(limit int) ([]SessionInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, source, seed, width, height, alphabet, created_at
		 FROM sessions
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var createdAt any
		if err := rows.Scan(&info.ID, &info.Source, &info.Seed, &info.Width, &info.Height, &info.Alphabet, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// SessionStats aggregates the turns of one session.
// A session without turns yields zero counts.
func (s *Store) SessionStats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{SessionID: sessionID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(accepted), 0),
		        COALESCE(MAX(passes), 0),
		        COALESCE(SUM(cleared), 0),
		        COALESCE(SUM(truncated), 0)
		 FROM turns WHERE session_id = ?`,
		sessionID,
	).Scan(&stats.Turns, &stats.Accepted, &stats.LongestCascade, &stats.TotalCleared, &stats.Truncated)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	return stats, nil
}

// ClearHistory deletes every session and turn.
func (s *Store) ClearHistory() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM turns"); err != nil {
		return fmt.Errorf("storage: cannot clear turns: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the sqlite text form.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
