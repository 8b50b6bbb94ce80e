package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/levels"
	"github.com/MilleBA/Pac-Man/internal/registry"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List level packs",
	Long: `Shows every registered level pack and its levels.
Packs found under --packs-dir are listed too.

Examples:
  maze levels
  maze levels --packs-dir ./packs
  maze levels check ./my-level.txt`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

var levelsCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a level file",
	Long: `Parses a level file and reports malformed cells and configuration
problems. Exits non-zero only when the level cannot be played.`,
	Args: cobra.ExactArgs(1),
	Run:  runLevelsCheck,
}

func init() {
	levelsCmd.Flags().StringVar(&flagPacksDir, "packs-dir", "", "Directory with extra level packs")
	levelsCmd.AddCommand(levelsCheckCmd)
}

func runLevels(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("maze", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if flagPacksDir != "" {
		if _, err := levels.NewLoader(flagPacksDir, logger).RegisterAll(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	packs := registry.List()
	if len(packs) == 0 {
		fmt.Println("No level packs available.")
		return
	}

	fmt.Println("Level packs:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range packs {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	for _, info := range packs {
		fmt.Printf("  %-*s  %s (%d levels)\n", maxIDLen, info.ID, info.Title, info.Levels)

		pack, err := levels.Open(info.ID)
		if err != nil {
			logger.Warn("cannot open pack", "id", info.ID, "err", err)
			continue
		}
		for _, lvl := range pack.Levels() {
			checkpoint := "-"
			if lvl.Checkpoint > 0 {
				checkpoint = fmt.Sprint(lvl.Checkpoint)
			}
			fmt.Printf("  %-*s    %d. %-20s checkpoint %s\n", maxIDLen, "", lvl.Index, lvl.Name, checkpoint)
		}
		if pack.VictoryScore() > 0 {
			fmt.Printf("  %-*s    victory at %d points\n", maxIDLen, "", pack.VictoryScore())
		}
	}

	fmt.Println()
	fmt.Println("Run 'maze play --pack <id>' to play a pack.")
}

func runLevelsCheck(_ *cobra.Command, args []string) {
	stage, err := levels.LoadLevelFile(args[0])

	var malformed *board.MalformedLevelError
	switch {
	case errors.As(err, &malformed):
		for _, issue := range malformed.Issues {
			log.Warn("malformed cell", "file", args[0], "at", issue.String())
		}
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	b := stage.Board
	fmt.Printf("%s: %dx%d, %d collectibles, %d adversaries, %d exits\n",
		args[0], b.Width(), b.Height(), b.TotalCollectibles(), len(stage.Spawns), len(b.Exits()))
	if malformed != nil {
		fmt.Printf("%d cell(s) were read as empty floor\n", len(malformed.Issues))
	}
}
