package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MilleBA/Pac-Man/internal/platform/tui"
	"github.com/MilleBA/Pac-Man/internal/storage"
)

var (
	flagHistoryPack   string
	flagHistoryLimit  int
	flagHistoryStats  bool
	flagHistoryBrowse bool
	flagHistoryClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently finished runs",
	Long: `Display runs recorded in the journal, newest first.

Examples:
  maze history
  maze history --pack classic --limit 5
  maze history --stats
  maze history --browse
  maze history --clear --pack classic
  maze history show <run-id>`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryShow,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryPack, "pack", "", "Only show runs of this pack")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryStats, "stats", false, "Show per-pack totals instead")
	historyCmd.Flags().BoolVar(&flagHistoryBrowse, "browse", false, "Browse the best runs of every pack interactively")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every run of --pack")
	historyCmd.AddCommand(historyShowCmd)
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if flagHistoryPack == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs --pack")
			os.Exit(1)
		}
		if err := store.ClearRuns(flagHistoryPack); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared the runs of %s.\n", flagHistoryPack)
		return
	}

	if flagHistoryStats {
		printStats(store)
		return
	}

	if flagHistoryBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, flagHistoryPack, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	runs, err := store.RecentRuns(flagHistoryPack, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'maze play' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-10s  %-12s  %7s  %5s  %-9s  %8s  %s\n", "Date", "Pack", "Player", "Score", "Level", "Outcome", "Time", "Run")
	fmt.Printf("  %-16s  %-10s  %-12s  %7s  %5s  %-9s  %8s  %s\n", "----", "----", "------", "-----", "-----", "-------", "----", "---")

	for _, r := range runs {
		fmt.Printf("  %-16s  %-10s  %-12s  %7d  %5d  %-9s  %8s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.PackID, r.Player, r.Score, r.Level, r.Outcome,
			r.Duration.Round(time.Second), r.RunID)
	}

	if flagHistoryPack != "" {
		if best, err := store.BestScore(flagHistoryPack); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}
	}
}

func runHistoryShow(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.RunByID(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No run with id %s\n", args[0])
		os.Exit(1)
	}

	fmt.Printf("Run:      %s\n", run.RunID)
	fmt.Printf("Pack:     %s\n", run.PackID)
	fmt.Printf("Player:   %s\n", run.Player)
	fmt.Printf("Score:    %d\n", run.Score)
	fmt.Printf("Level:    %d\n", run.Level)
	fmt.Printf("Outcome:  %s\n", run.Outcome)
	fmt.Printf("Time:     %s\n", run.Duration.Round(time.Second))
	fmt.Printf("Finished: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
}

func printStats(store *storage.Store) {
	stats, err := store.AllPackStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-10s  %5s  %4s  %7s  %7s  %5s  %s\n", "Pack", "Runs", "Wins", "Best", "Avg", "Level", "Last played")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-10s  %5d  %4d  %7d  %7.0f  %5d  %s\n",
			s.PackID, s.RunsCount, s.Victories, s.HighScore, s.AvgScore, s.BestLevel,
			s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
