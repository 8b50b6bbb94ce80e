package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MilleBA/Pac-Man/internal/core"
	"gopkg.in/yaml.v3"
)

// LoadMaze loads maze configuration.
// Search order: customPath -> ~/.arcade/configs/maze.yaml -> ./configs/maze.yaml -> embedded default
// Every source is decoded over the defaults, so a file may set only the keys it changes.
func LoadMaze(customPath string) (MazeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultMazeConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeMaze(data)
		if err != nil {
			return DefaultMazeConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("maze.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decodeMaze(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "maze.yaml")); err == nil {
		if cfg, err := decodeMaze(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeMaze(defaultMazeYAML)
	if err != nil {
		return DefaultMazeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decodeMaze(data []byte) (MazeConfig, error) {
	cfg := DefaultMazeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyMazePreset modifies the config based on a difficulty preset.
func ApplyMazePreset(cfg *MazeConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Gameplay.LevelSpeedup = false
		return
	}

	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.Lives = 5
		cfg.Gameplay.InitialSpeed = cfg.Gameplay.MinSpeed
		cfg.Timing.Frightened = cfg.Timing.Frightened * 3 / 2
	case DifficultyHard:
		cfg.Gameplay.Lives = 2
		cfg.Gameplay.InitialSpeed = core.ClampF(cfg.Gameplay.InitialSpeed+cfg.Gameplay.SpeedStep, cfg.Gameplay.MinSpeed, cfg.Gameplay.MaxSpeed)
		cfg.Timing.Frightened /= 2
	}
}
