package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective board config as YAML",
	Long: `Print the board config that play, serve, web and sim would use,
after --config and --difficulty are applied. Redirect it to a file to
start a custom config.

Config search order:
  --config path, ~/.gems/configs/match3.yaml, ./configs/match3.yaml,
  then the built-in defaults.

Examples:
  gems config
  gems config --difficulty hard > ~/.gems/configs/match3.yaml
  gems config --defaults`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDefaults {
		fmt.Print(string(config.GetDefaultYAML()))
		return
	}

	cfg, preset, err := loadBoard()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.ApplyMatch3Preset(&cfg, preset)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}
