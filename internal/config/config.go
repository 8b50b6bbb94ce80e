// Package config provides YAML-based game configuration loading and
// difficulty presets for the maze game.
package config

import (
	"errors"
	"fmt"
	"time"
)

// MazeConfig contains all configuration for the maze game.
type MazeConfig struct {
	Timing   MazeTiming   `yaml:"timing"`
	Scoring  MazeScoring  `yaml:"scoring"`
	Gameplay MazeGameplay `yaml:"gameplay"`
	Levels   MazeLevels   `yaml:"levels"`
}

// MazeTiming defines the cadences and deadlines, as YAML duration strings.
type MazeTiming struct {
	PlayerTick      time.Duration `yaml:"player_tick"`    // Player cycle at speed 1.0
	AdversaryTick   time.Duration `yaml:"adversary_tick"` // Adversary cycle at speed 1.0
	Invulnerability time.Duration `yaml:"invulnerability"`
	Frightened      time.Duration `yaml:"frightened"`
	Respawn         time.Duration `yaml:"respawn"`
}

// MazeScoring defines points per event.
type MazeScoring struct {
	Dot       int `yaml:"dot"`
	EnergyDot int `yaml:"energy_dot"`
	Capture   int `yaml:"capture"`
}

// MazeGameplay defines lives and the speed rate range.
type MazeGameplay struct {
	Lives        int     `yaml:"lives"`
	SpeedStep    float64 `yaml:"speed_step"`
	MinSpeed     float64 `yaml:"min_speed"`
	MaxSpeed     float64 `yaml:"max_speed"`
	InitialSpeed float64 `yaml:"initial_speed"`
	LevelSpeedup bool    `yaml:"level_speedup"` // Step the speed up on every level change
}

// MazeLevels selects the level pack.
type MazeLevels struct {
	Pack string `yaml:"pack"` // Registered pack ID
	Dir  string `yaml:"dir"`  // Optional directory of extra packs
}

// Validate reports the first setting that would make the game unplayable.
func (c MazeConfig) Validate() error {
	t := c.Timing
	if t.PlayerTick <= 0 || t.AdversaryTick <= 0 {
		return errors.New("config: tick intervals must be positive")
	}
	if t.Invulnerability < 0 || t.Frightened < 0 || t.Respawn < 0 {
		return errors.New("config: timer durations must not be negative")
	}

	g := c.Gameplay
	if g.Lives < 1 {
		return fmt.Errorf("config: lives must be at least 1, got %d", g.Lives)
	}
	if g.MinSpeed <= 0 || g.MaxSpeed < g.MinSpeed {
		return fmt.Errorf("config: invalid speed range [%.2f, %.2f]", g.MinSpeed, g.MaxSpeed)
	}
	if g.InitialSpeed < g.MinSpeed || g.InitialSpeed > g.MaxSpeed {
		return fmt.Errorf("config: initial_speed %.2f outside [%.2f, %.2f]", g.InitialSpeed, g.MinSpeed, g.MaxSpeed)
	}
	if g.SpeedStep < 0 {
		return fmt.Errorf("config: speed_step must not be negative, got %.2f", g.SpeedStep)
	}

	s := c.Scoring
	if s.Dot < 0 || s.EnergyDot < 0 || s.Capture < 0 {
		return errors.New("config: scores must not be negative")
	}

	if c.Levels.Pack == "" {
		return errors.New("config: levels.pack is empty")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficultyPreset maps a CLI value to a preset. Empty means no preset.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// IsFixedPreset returns true if the preset disables speed progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
