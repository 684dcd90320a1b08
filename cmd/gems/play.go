package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/platform/tui"
	"github.com/vovakirdan/tui-gems/internal/registry"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a board",
	Long: `Start playing the specified board.

Controls:
  Arrows/hjkl    - Move the cursor
  Enter/Space    - Select a piece, or swap with the selected one
  Arrow + select - Swap the selected piece toward that side
  Esc            - Cancel the selection
  P              - Pause
  R              - New board
  ?              - Full help
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - 4 piece kinds
  normal - 5 piece kinds
  hard   - 6 piece kinds

Examples:
  gems play match3
  gems play match3 --difficulty easy
  gems play match3_zen --seed 42
  gems play match3 --config ./my-board.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// openJournal opens the journal, or returns nil with a warning.
func openJournal() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open journal: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'gems list' to see available boards.")
		os.Exit(1)
	}

	boardCfg, preset, err := loadBoard()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	cfg = tui.BoardRuntime(cfg, boardCfg, preset)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Continue without a journal if it cannot be opened
	var journal tui.Journal
	store := openJournal()
	if store != nil {
		journal = store
	}

	_, runErr := tui.Run(game, journal, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
