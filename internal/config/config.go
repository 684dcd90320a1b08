// Package config provides YAML-based board configuration loading and
// difficulty presets for the gems platform.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

// Match3Config contains all configuration for a match-3 board.
type Match3Config struct {
	Board   BoardSection   `yaml:"board"`
	Fill    FillSection    `yaml:"fill"`
	Cascade CascadeSection `yaml:"cascade"`
	Timing  TimingSection  `yaml:"timing"`
}

// BoardSection defines board geometry and the piece alphabet.
type BoardSection struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Alphabet int `yaml:"alphabet"` // Number of distinct piece values
	MinMatch int `yaml:"min_match"`
}

// FillSection defines how new pieces are spawned.
type FillSection struct {
	Retries     int `yaml:"retries"`      // Re-rolls per cell before accepting a match
	SpawnOffset int `yaml:"spawn_offset"` // Rows above the board a new piece falls from
}

// CascadeSection bounds a single turn.
type CascadeSection struct {
	MaxPasses int `yaml:"max_passes"`
}

// TimingSection holds the settle durations between phases.
type TimingSection struct {
	Swap            Duration `yaml:"swap"`
	Highlight       Duration `yaml:"highlight"`
	PostClear       Duration `yaml:"post_clear"`
	CollapsePerCell Duration `yaml:"collapse_per_cell"`
	PostCollapse    Duration `yaml:"post_collapse"`
	Refill          Duration `yaml:"refill"`
	PostRefill      Duration `yaml:"post_refill"`
}

// Duration is a time.Duration written as "250ms" in YAML.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q at line %d: %w", s, value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration in Go syntax.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// BoardConfig converts the YAML form into the engine's configuration.
func (c Match3Config) BoardConfig() board.Config {
	return board.Config{
		Width:            c.Board.Width,
		Height:           c.Board.Height,
		Alphabet:         c.Board.Alphabet,
		MinMatch:         c.Board.MinMatch,
		FillRetries:      c.Fill.Retries,
		MaxCascadePasses: c.Cascade.MaxPasses,
		SpawnOffset:      c.Fill.SpawnOffset,
		Timing: board.Timing{
			Swap:            time.Duration(c.Timing.Swap),
			Highlight:       time.Duration(c.Timing.Highlight),
			PostClear:       time.Duration(c.Timing.PostClear),
			CollapsePerCell: time.Duration(c.Timing.CollapsePerCell),
			PostCollapse:    time.Duration(c.Timing.PostCollapse),
			Refill:          time.Duration(c.Timing.Refill),
			PostRefill:      time.Duration(c.Timing.PostRefill),
		},
	}
}

// Validate checks the configuration against the engine's rules.
func (c Match3Config) Validate() error {
	return c.BoardConfig().Validate()
}
