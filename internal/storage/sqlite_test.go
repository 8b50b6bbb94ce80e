package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveRun(Run{PackID: "classic", Score: 90, Level: 1, Outcome: OutcomeGameOver}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	best, err := store.BestScore("classic")
	if err != nil || best != 90 {
		t.Errorf("BestScore() = %d, %v; expected 90", best, err)
	}
}

func TestSaveAndRetrieveRun(t *testing.T) {
	store := openTemp(t)

	run := Run{
		PackID:   "classic",
		Player:   "alice",
		Score:    1340,
		Level:    2,
		Outcome:  OutcomeVictory,
		Duration: 95*time.Second + 250*time.Millisecond,
	}
	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err := store.RecentRuns("classic", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	got := runs[0]
	if got.RunID == "" {
		t.Error("SaveRun should generate a run ID")
	}
	if got.Player != "alice" || got.Score != 1340 || got.Level != 2 || got.Outcome != OutcomeVictory {
		t.Errorf("run = %+v", got)
	}
	if got.Duration != run.Duration {
		t.Errorf("Duration = %v, expected %v", got.Duration, run.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	byID, err := store.RunByID(got.RunID)
	if err != nil || byID == nil || byID.ID != got.ID {
		t.Errorf("RunByID() = %+v, %v", byID, err)
	}

	missing, err := store.RunByID("no-such-run")
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %+v, %v", missing, err)
	}
}

func TestRunOrdering(t *testing.T) {
	store := openTemp(t)

	for _, r := range []Run{
		{PackID: "classic", Score: 100, Level: 1, Outcome: OutcomeGameOver},
		{PackID: "classic", Score: 50, Level: 1, Outcome: OutcomeGameOver},
		{PackID: "classic", Score: 200, Level: 2, Outcome: OutcomeGameOver},
		{PackID: "mine", Score: 500, Level: 1, Outcome: OutcomeQuit},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("classic", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 || top[0].Score != 200 || top[1].Score != 100 || top[2].Score != 50 {
		t.Errorf("TopRuns() = %+v", top)
	}

	recent, err := store.RecentRuns("classic", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 200 || recent[1].Score != 50 {
		t.Errorf("RecentRuns() = %+v", recent)
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns(all) failed: %v", err)
	}
	if len(all) != 4 || all[0].PackID != "mine" {
		t.Errorf("RecentRuns(all) = %+v", all)
	}
}

func TestBestScoreAndClear(t *testing.T) {
	store := openTemp(t)

	best, err := store.BestScore("classic")
	if err != nil || best != 0 {
		t.Errorf("BestScore() on empty journal = %d, %v", best, err)
	}

	store.SaveRun(Run{PackID: "classic", Score: 300, Level: 1})
	store.SaveRun(Run{PackID: "classic", Score: 700, Level: 2})

	if best, _ := store.BestScore("classic"); best != 700 {
		t.Errorf("BestScore() = %d, expected 700", best)
	}

	if err := store.ClearRuns("classic"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if best, _ := store.BestScore("classic"); best != 0 {
		t.Errorf("BestScore() after clear = %d", best)
	}
}

func TestAllPackStats(t *testing.T) {
	store := openTemp(t)

	store.SaveRun(Run{PackID: "classic", Score: 100, Level: 1, Outcome: OutcomeGameOver})
	store.SaveRun(Run{PackID: "classic", Score: 1300, Level: 2, Outcome: OutcomeVictory})
	store.SaveRun(Run{PackID: "mine", Score: 40, Level: 1, Outcome: OutcomeQuit})

	stats, err := store.AllPackStats()
	if err != nil {
		t.Fatalf("AllPackStats() failed: %v", err)
	}
	classic := stats["classic"]
	if classic == nil {
		t.Fatal("missing classic stats")
	}
	if classic.RunsCount != 2 || classic.Victories != 1 || classic.HighScore != 1300 || classic.BestLevel != 2 {
		t.Errorf("classic stats = %+v", classic)
	}
	if classic.AvgScore != 700 {
		t.Errorf("AvgScore = %.1f, expected 700", classic.AvgScore)
	}
	if stats["mine"] == nil || stats["mine"].Victories != 0 {
		t.Errorf("mine stats = %+v", stats["mine"])
	}
}

func TestDuplicateRunID(t *testing.T) {
	store := openTemp(t)

	run := Run{RunID: "fixed-id", PackID: "classic", Score: 1, Level: 1}
	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := store.SaveRun(run); err == nil {
		t.Error("expected an error for a duplicate run ID")
	}
}
