// maze is a terminal maze chase game: clear the dots, dodge the adversaries,
// turn the tables with an energy dot.
//
// Usage:
//
//	maze play                 - Play in this terminal
//	maze serve                - Host games over SSH, with an optional spectator API
//	maze levels               - List level packs
//	maze levels check <file>  - Validate a level file
//	maze history              - Show recently finished runs
//	maze history show <id>    - Show one recorded run
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible adversary movement
//	--db <path>          - Set run journal path (default: ~/.arcade/maze.db)
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/MilleBA/Pac-Man/internal/config"
	"github.com/MilleBA/Pac-Man/internal/games/maze/levels"
	"github.com/MilleBA/Pac-Man/internal/registry"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string

	// Shared by play and serve
	flagConfig     string
	flagDifficulty string
	flagPack       string
	flagPacksDir   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "maze",
	Short: "Maze chase - eat the dots, dodge the ghosts",
	Long: `Maze chase is a terminal game: steer through a maze collecting dots
while four adversaries patrol it. Energy dots frighten them for a while,
so they can be captured for extra points.

Available commands:
  play     - Play in this terminal
  serve    - Host games over SSH
  levels   - List level packs or check a level file
  history  - Show recently finished runs

Examples:
  maze play
  maze play --difficulty easy
  maze serve --ssh :2222 --http :8080
  maze levels check ./my-level.txt
  maze history --limit 5`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/maze.db", "Path to the run journal database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(historyCmd)
}

// addGameFlags registers the flags that shape a game.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom maze config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().StringVar(&flagPack, "pack", "", "Level pack to play (default from config)")
	cmd.Flags().StringVar(&flagPacksDir, "packs-dir", "", "Directory with extra level packs")
}

// newLogger builds the logger for a command. fallback receives the logs when
// no --log-file is given.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadGameConfig resolves the maze config from --config and --difficulty,
// registers packs from disk and checks that the chosen pack exists.
func loadGameConfig(logger *log.Logger) (config.MazeConfig, error) {
	cfg, err := config.LoadMaze(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyMazePreset(&cfg, preset)

	if flagPacksDir != "" {
		cfg.Levels.Dir = flagPacksDir
	}
	if flagPack != "" {
		cfg.Levels.Pack = flagPack
	}

	if cfg.Levels.Dir != "" {
		ids, err := levels.NewLoader(cfg.Levels.Dir, logger).RegisterAll()
		if err != nil {
			return cfg, err
		}
		logger.Debug("registered level packs", "dir", cfg.Levels.Dir, "ids", ids)
	}

	if !registry.Exists(cfg.Levels.Pack) {
		return cfg, fmt.Errorf("unknown pack %q (run 'maze levels' to see available packs)", cfg.Levels.Pack)
	}
	if _, err := levels.Open(cfg.Levels.Pack); err != nil {
		return cfg, fmt.Errorf("%w (run 'maze levels' to see available packs)", err)
	}
	return cfg, nil
}
