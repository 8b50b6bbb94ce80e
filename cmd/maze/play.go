package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/lobby"
	"github.com/MilleBA/Pac-Man/internal/platform/tui"
	"github.com/MilleBA/Pac-Man/internal/storage"
)

var (
	flagAutopilot bool
	flagName      string
	flagFPS       int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Arrows/W/A/D  - Steer
  P             - Pause
  S             - Resume
  +/-           - Faster/slower
  R             - Restart (after game over or victory)
  ?             - Toggle help
  Q/Ctrl+C      - Quit

Difficulty options:
  easy   - Five lives, slow start, longer frightened time
  normal - The config as written
  hard   - Two lives, faster start, shorter frightened time
  fixed  - No speed-up between levels

Examples:
  maze play
  maze play --difficulty hard
  maze play --pack mypack --packs-dir ./packs
  maze play --autopilot --seed 42
  maze play --config ./my-maze.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Let the computer steer")
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name recorded in the journal (default: OS user)")
	playCmd.Flags().IntVar(&flagFPS, "fps", 30, "Redraw rate (frames per second)")
}

func runPlay(_ *cobra.Command, _ []string) {
	// The terminal belongs to the TUI, so logs only go to --log-file
	logger, closeLog, err := newLogger("maze", io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	mazeCfg, err := loadGameConfig(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := core.DefaultConfig()
	rc.ScreenW = width
	rc.ScreenH = height
	rc.FPS = flagFPS
	rc.Seed = flagSeed
	rc.Player = playerName()

	// Open run journal
	var saver lobby.RunSaver
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run journal: %v\n", err)
		// Continue without storage - game still works
	} else {
		defer store.Close()
		saver = store
	}

	lb := lobby.New(lobby.Config{
		Maze:      mazeCfg,
		Pack:      mazeCfg.Levels.Pack,
		Seed:      rc.Seed,
		Autopilot: flagAutopilot,
	}, saver, logger)

	game, err := lb.Start(context.Background(), rc.Player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting game: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(game.Runner(), rc)
	lb.End(game.ID())

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

func playerName() string {
	if flagName != "" {
		return flagName
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return core.DefaultConfig().Player
}
