// Package web serves boards over HTTP. Every board lives in a room whose
// goroutine owns the resolver; handlers and websocket clients reach it
// over channels.
package web

import (
	"os"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-gems/internal/config"
)

// Config holds web server settings.
type Config struct {
	Addr          string
	Tick          time.Duration // simulation step of every room
	MaxRooms      int
	MaxBoardCells int // width*height limit for new rooms
	Board         config.Match3Config
	Difficulty    config.DifficultyPreset // default preset for new rooms
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// LoadConfig reads GEMS_WEB_ADDR, GEMS_WEB_TICK_MS, GEMS_WEB_MAX_ROOMS and
// GEMS_WEB_MAX_CELLS on top of the defaults. board is the loaded match3 config.
func LoadConfig(board config.Match3Config) Config {
	tick := getenvInt("GEMS_WEB_TICK_MS", 16)
	if tick <= 0 {
		tick = 16
	}
	return Config{
		Addr:          getenv("GEMS_WEB_ADDR", ":8080"),
		Tick:          time.Duration(tick) * time.Millisecond,
		MaxRooms:      getenvInt("GEMS_WEB_MAX_ROOMS", 64),
		MaxBoardCells: getenvInt("GEMS_WEB_MAX_CELLS", 1024),
		Board:         board,
	}
}
