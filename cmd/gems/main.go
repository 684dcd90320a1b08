// gems is a match-3 board engine you can play in the terminal, over SSH
// or through a web API.
//
// Usage:
//
//	gems list                - List available boards
//	gems play <game>         - Play a board
//	gems menu                - Pick boards interactively
//	gems serve               - Start SSH server for remote play
//	gems web                 - Start the HTTP/websocket API
//	gems sim                 - Play random swaps headlessly and report statistics
//	gems history [session]   - Browse the turn journal
//	gems config              - Print the effective board config
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible boards
//	--db <path>            - Set journal path (default: ~/.gems/journal.db)
//	--config <path>        - Custom board config YAML
//	--difficulty <preset>  - easy, normal or hard
//	--log-level <level>    - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/config"

	// Import games to register them
	_ "github.com/vovakirdan/tui-gems/internal/games/match3"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gems",
	Short: "Gems - a match-3 board engine for your terminal",
	Long: `Gems runs match-3 boards: swap two neighbouring pieces to line up
three or more, watch them clear, and let the cascade settle.

Available commands:
  list     - Show all available boards
  play     - Play a specific board directly
  menu     - Interactive board picker
  serve    - Start SSH server for remote play
  web      - Start the HTTP/websocket API
  sim      - Headless random play with statistics
  history  - Browse journaled sessions
  config   - Print the effective board config

Examples:
  gems list
  gems play match3 --difficulty hard
  gems menu
  gems serve --ssh :2222
  gems web --addr :8080
  gems sim --turns 5000 --seed 42
  gems history`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gems/journal.db", "Path to the turn journal")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom board config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds a stderr logger at the --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadBoard loads the board config and the --difficulty preset.
func loadBoard() (config.Match3Config, config.DifficultyPreset, error) {
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return config.Match3Config{}, "", err
	}
	cfg, err := config.LoadMatch3(flagConfig)
	if err != nil {
		return config.Match3Config{}, "", err
	}
	return cfg, preset, nil
}
