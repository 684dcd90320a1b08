package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/platform/tui"
	"github.com/vovakirdan/tui-gems/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start gems with a board picker menu",
	Long: `Start gems in interactive menu mode.

Use arrow keys or j/k to navigate, left/right to change the difficulty and
Enter to start. Going back from a board returns to the menu.

Controls:
  Up/Down/j/k   - Navigate menu
  Left/Right    - Difficulty
  Enter/Space   - Select board
  Tab           - Journal history
  Q             - Quit

Examples:
  gems menu
  gems menu --fps 30
  gems menu --db ./journal.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	boardCfg, preset, err := loadBoard()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var journal tui.Journal
	var history tui.HistorySource
	store := openJournal()
	if store != nil {
		journal, history = store, store
		defer store.Close()
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	for {
		menuResult, err := tui.RunMenu(cfg, preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Keep size changes and the chosen difficulty for the next round
		cfg = menuResult.Config
		preset = menuResult.Difficulty

		if menuResult.Quit {
			return
		}

		if menuResult.WantsHistory {
			goBack, histErr := tui.RunHistory(history, cfg.ScreenW, cfg.ScreenH, "")
			if histErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", histErr)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		back, err := tui.Run(game, journal, tui.BoardRuntime(cfg, boardCfg, preset))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !back {
			return
		}
	}
}
