package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/maze.yaml
var defaultMazeYAML []byte

// DefaultMazeConfig returns the default maze configuration.
func DefaultMazeConfig() MazeConfig {
	return MazeConfig{
		Timing: MazeTiming{
			PlayerTick:      40 * time.Millisecond,
			AdversaryTick:   1000 * time.Millisecond,
			Invulnerability: 1500 * time.Millisecond,
			Frightened:      20 * time.Second,
			Respawn:         15 * time.Second,
		},
		Scoring: MazeScoring{
			Dot:       10,
			EnergyDot: 50,
			Capture:   200,
		},
		Gameplay: MazeGameplay{
			Lives:        3,
			SpeedStep:    0.5,
			MinSpeed:     0.5,
			MaxSpeed:     4.0,
			InitialSpeed: 1.0,
			LevelSpeedup: true,
		},
		Levels: MazeLevels{
			Pack: "classic",
		},
	}
}
