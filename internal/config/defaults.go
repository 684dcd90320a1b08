package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the built-in configuration.
// It mirrors defaults/match3.yaml and is used if the embedded file fails to parse.
func DefaultMatch3Config() Match3Config {
	def := board.DefaultConfig()
	t := def.Timing
	return Match3Config{
		Board: BoardSection{
			Width:    def.Width,
			Height:   def.Height,
			Alphabet: def.Alphabet,
			MinMatch: def.MinMatch,
		},
		Fill: FillSection{
			Retries:     def.FillRetries,
			SpawnOffset: def.SpawnOffset,
		},
		Cascade: CascadeSection{
			MaxPasses: def.MaxCascadePasses,
		},
		Timing: TimingSection{
			Swap:            Duration(t.Swap),
			Highlight:       Duration(t.Highlight),
			PostClear:       Duration(t.PostClear),
			CollapsePerCell: Duration(t.CollapsePerCell),
			PostCollapse:    Duration(t.PostCollapse),
			Refill:          Duration(t.Refill),
			PostRefill:      Duration(t.PostRefill),
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultMatch3YAML
}
