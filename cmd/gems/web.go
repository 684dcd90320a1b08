package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/platform/web"
)

var (
	flagWebAddr  string
	flagTickMS   int
	flagMaxRooms int
	flagMaxCells int
	flagNoDB     bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/websocket board API",
	Long: `Start an HTTP server that hosts boards for web clients.

Endpoints:
  POST   /api/boards           Create a board ({"seed", "difficulty", "rows"})
  GET    /api/boards           List board ids
  GET    /api/boards/:id       Board snapshot (row 0 is the bottom)
  POST   /api/boards/:id/swap  Propose a swap ({"from":{"x","y"},"to":{"x","y"}})
  DELETE /api/boards/:id       Close a board
  GET    /api/boards/:id/ws    Websocket event stream

Settings come from GEMS_WEB_ADDR, GEMS_WEB_TICK_MS, GEMS_WEB_MAX_ROOMS and
GEMS_WEB_MAX_CELLS; flags override them.

Examples:
  gems web
  gems web --addr 127.0.0.1:9000 --tick-ms 10
  GEMS_WEB_ADDR=:8081 gems web --no-db`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP address (host:port)")
	webCmd.Flags().IntVar(&flagTickMS, "tick-ms", 0, "Simulation step in milliseconds")
	webCmd.Flags().IntVar(&flagMaxRooms, "max-rooms", 0, "Maximum number of live boards")
	webCmd.Flags().IntVar(&flagMaxCells, "max-cells", 0, "Maximum cells (width*height) of a new board")
	webCmd.Flags().BoolVar(&flagNoDB, "no-db", false, "Do not journal boards")
}

func runWeb(cmd *cobra.Command, _ []string) {
	logger, err := newLogger("gems-web")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	boardCfg, preset, err := loadBoard()
	if err != nil {
		logger.Fatal("cannot load board config", "error", err)
	}

	cfg := web.LoadConfig(boardCfg)
	cfg.Difficulty = preset
	if cmd.Flags().Changed("addr") {
		cfg.Addr = flagWebAddr
	}
	if flagTickMS > 0 {
		cfg.Tick = time.Duration(flagTickMS) * time.Millisecond
	}
	if flagMaxRooms > 0 {
		cfg.MaxRooms = flagMaxRooms
	}
	if flagMaxCells > 0 {
		cfg.MaxBoardCells = flagMaxCells
	}

	var journal web.Journal
	if !flagNoDB {
		if store := openJournal(); store != nil {
			journal = store
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(cfg, journal, logger)
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
	}
}
