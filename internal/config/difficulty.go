package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
// Difficulty on a match-3 board is the size of the piece alphabet:
// fewer values means more matches and longer cascades.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the known presets, easiest first.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// ParseDifficulty validates a preset name. An empty name is allowed and
// means "keep the loaded config".
func ParseDifficulty(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// AlphabetForPreset returns the piece alphabet size for a preset.
func AlphabetForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 4
	case DifficultyHard:
		return 6
	default:
		return 5
	}
}

// ApplyMatch3Preset modifies the config based on a difficulty preset.
// An empty preset leaves it unchanged.
func ApplyMatch3Preset(cfg *Match3Config, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	cfg.Board.Alphabet = AlphabetForPreset(preset)
}
