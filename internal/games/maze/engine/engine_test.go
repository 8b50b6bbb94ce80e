package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/MilleBA/Pac-Man/internal/config"
	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/adversary"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/levels"
)

const tick = 40 * time.Millisecond

type levelDef struct {
	grid        string
	checkpoint  int
	adversaries string // YAML flow list, empty for every spawn
}

func testPack(t *testing.T, victory int, defs ...levelDef) *levels.Pack {
	t.Helper()
	var manifest strings.Builder
	fmt.Fprintf(&manifest, "id: test\nvictory_score: %d\nlevels:\n", victory)
	fsys := fstest.MapFS{}
	for i, d := range defs {
		file := fmt.Sprintf("l%d.txt", i+1)
		fmt.Fprintf(&manifest, "  - file: %s\n    checkpoint: %d\n", file, d.checkpoint)
		if d.adversaries != "" {
			fmt.Fprintf(&manifest, "    adversaries: %s\n", d.adversaries)
		}
		fsys[file] = &fstest.MapFile{Data: []byte(d.grid)}
	}
	fsys[levels.ManifestFile] = &fstest.MapFile{Data: []byte(manifest.String())}

	p, err := levels.LoadPack(fsys, ".")
	if err != nil {
		t.Fatalf("LoadPack() failed: %v", err)
	}
	return p
}

func newEngine(t *testing.T, cfg config.MazeConfig, victory int, defs ...levelDef) *Engine {
	t.Helper()
	e, err := New(testPack(t, victory, defs...), cfg, 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

func hasEvent(f FrameState, kind EventKind) bool {
	for _, ev := range f.Events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// corridor: player, dot, energy dot, frightened-to-be blinky; extra dots keep the level open.
const corridor = `
1111111
1823401
1222221
1111111
`

func TestScoringSequence(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: corridor})

	if !e.SetPlayerDirection(core.DirRight) {
		t.Fatal("SetPlayerDirection(right) rejected")
	}

	e.PlayerTick(1 * tick)
	if f := e.Frame(); f.Score != 10 || !hasEvent(f, EventDot) {
		t.Fatalf("after dot: score %d events %v", f.Score, f.Events)
	}

	e.PlayerTick(2 * tick)
	f := e.Frame()
	if f.Score != 60 || !f.Frightened {
		t.Fatalf("after energy dot: score %d frightened %v", f.Score, f.Frightened)
	}
	if f.Adversaries[0].Mode != adversary.Frightened {
		t.Fatalf("blinky mode = %v", f.Adversaries[0].Mode)
	}

	e.PlayerTick(3 * tick)
	f = e.Frame()
	if f.Score != 260 {
		t.Errorf("score = %d, expected 260", f.Score)
	}
	if f.Adversaries[0].Mode != adversary.Captured || !hasEvent(f, EventCaptured) {
		t.Errorf("blinky mode = %v, events %v", f.Adversaries[0].Mode, f.Events)
	}
}

func TestCaptureRestoresLives(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: corridor})
	e.session.Lives = 1

	e.SetPlayerDirection(core.DirRight)
	for i := 1; i <= 3; i++ {
		e.PlayerTick(time.Duration(i) * tick)
	}
	if got := e.Frame().Lives; got != 3 {
		t.Errorf("lives = %d after capture, expected 3", got)
	}
}

func TestGameOverOnLastLife(t *testing.T) {
	cfg := config.DefaultMazeConfig()
	cfg.Gameplay.Lives = 1
	e := newEngine(t, cfg, 0, levelDef{grid: "11111\n18221\n12221\n11111"})

	e.SetPlayerDirection(core.DirRight)
	e.PlayerTick(1 * tick) // (2,1)
	e.PlayerTick(2 * tick) // (3,1)
	e.PlayerTick(3 * tick) // wall

	f := e.Frame()
	if f.Lives != 0 || f.Status != StatusGameOver {
		t.Fatalf("lives %d status %v, expected 0 game_over", f.Lives, f.Status)
	}
	if !hasEvent(f, EventGameOver) {
		t.Errorf("events = %v", f.Events)
	}
	if f.HighScore != 20 {
		t.Errorf("high score = %d, expected 20", f.HighScore)
	}

	before := e.Frame()
	e.PlayerTick(4 * tick)
	e.AdversaryTick(5 * tick)
	if after := e.Frame(); after.PlayerTicks != before.PlayerTicks || after.Score != before.Score {
		t.Error("ticks after game over must not change the session")
	}
}

func TestInvulnerabilityWindow(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: "1111\n1821\n1221\n1111"})

	e.SetPlayerDirection(core.DirRight)
	e.PlayerTick(tick) // onto the dot at (2,1)

	spawn, dot := core.Pos(1, 1), core.Pos(2, 1)
	tests := []struct {
		turn  core.Direction // applied before the tick unless DirNone
		at    time.Duration
		lives int
		pos   core.Position
	}{
		{core.DirNone, 100 * time.Millisecond, 2, spawn}, // wall hit, back to spawn
		{core.DirRight, 140 * time.Millisecond, 2, dot},
		{core.DirNone, 1599 * time.Millisecond, 2, dot}, // ignored hit, player stays
		{core.DirNone, 1600 * time.Millisecond, 1, spawn},
	}
	for _, tc := range tests {
		if tc.turn != core.DirNone {
			e.SetPlayerDirection(tc.turn)
		}
		e.PlayerTick(tc.at)
		f := e.Frame()
		if f.Lives != tc.lives || f.Player.Pos != tc.pos {
			t.Errorf("at %v lives %d pos %v, expected %d %v", tc.at, f.Lives, f.Player.Pos, tc.lives, tc.pos)
		}
	}
}

func TestLifeLossRespawnsPlayer(t *testing.T) {
	tests := []struct {
		name  string
		grid  string
		ticks int
	}{
		{"wall", "11111\n18221\n12221\n11111", 3},
		{"patrol adversary", "111111\n182421\n122221\n111111", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: tc.grid})
			e.SetPlayerDirection(core.DirRight)
			for i := 1; i <= tc.ticks; i++ {
				e.PlayerTick(time.Duration(i) * tick)
			}

			f := e.Frame()
			if f.Lives != 2 || !hasEvent(f, EventHit) {
				t.Fatalf("lives %d events %v, expected a hit", f.Lives, f.Events)
			}
			if f.Player.Pos != core.Pos(1, 1) || f.Player.Dir != core.DirNone {
				t.Errorf("player %+v, expected back on spawn (1,1) with no heading", f.Player)
			}
			if !f.Player.Invulnerable {
				t.Error("respawned player lost the hit window")
			}
		})
	}
}

func TestPlayerNeverOnWall(t *testing.T) {
	p, err := levels.Open(levels.ClassicID)
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(p, config.DefaultMazeConfig(), 9)
	if err != nil {
		t.Fatal(err)
	}

	dirs := []core.Direction{core.DirLeft, core.DirUp, core.DirRight, core.DirDown}
	now := time.Duration(0)
	for i := range 2000 {
		now += tick
		e.SetPlayerDirection(dirs[(i/7)%len(dirs)])
		e.PlayerTick(now)
		if i%25 == 0 {
			e.AdversaryTick(now)
		}
		if e.Status().Finished() {
			if err := e.Restart(); err != nil {
				t.Fatal(err)
			}
		}
		if pos := e.PlayerPosition(); !e.Board().IsWalkable(pos) {
			t.Fatalf("player on %v which is not walkable", pos)
		}
	}
}

func TestFrightenedRevertsAfterDeadline(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: "1111111\n1832221\n1111121\n1411111\n1111111"})

	e.SetPlayerDirection(core.DirRight)
	e.PlayerTick(tick)
	if !e.Frame().Frightened {
		t.Fatal("energy dot did not frighten")
	}

	e.AdversaryTick(tick + 20*time.Second - time.Millisecond)
	if !e.Frame().Frightened {
		t.Fatal("reverted before the deadline")
	}

	e.AdversaryTick(tick + 20*time.Second)
	f := e.Frame()
	if f.Frightened || f.Adversaries[0].Mode != adversary.Patrol {
		t.Errorf("frightened %v mode %v after deadline", f.Frightened, f.Adversaries[0].Mode)
	}
	if !hasEvent(f, EventCalmed) {
		t.Errorf("events = %v", f.Events)
	}
}

func TestCapturedRespawns(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: corridor})
	e.SetPlayerDirection(core.DirRight)
	for i := 1; i <= 3; i++ {
		e.PlayerTick(time.Duration(i) * tick)
	}
	capturedAt := 3 * tick

	e.AdversaryTick(capturedAt + 15*time.Second - time.Millisecond)
	if mode := e.Frame().Adversaries[0].Mode; mode != adversary.Captured {
		t.Fatalf("mode = %v before respawn deadline", mode)
	}

	e.PlayerTick(capturedAt + 15*time.Second)
	f := e.Frame()
	a := f.Adversaries[0]
	if a.Mode != adversary.Patrol || a.Pos != a.Home {
		t.Errorf("after respawn: %+v", a)
	}
	if !hasEvent(f, EventRespawned) {
		t.Errorf("events = %v", f.Events)
	}
}

func TestAdversaryMovesOntoPlayer(t *testing.T) {
	// blinky at (1,2) faces up into the player at (1,1)
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: "11111\n18221\n14111\n11111"})

	e.AdversaryTick(time.Second)
	f := e.Frame()
	if f.Adversaries[0].Pos != core.Pos(1, 1) {
		t.Fatalf("blinky at %v, expected (1,1)", f.Adversaries[0].Pos)
	}
	if f.Lives != 2 || !hasEvent(f, EventHit) {
		t.Errorf("lives %d events %v after contact", f.Lives, f.Events)
	}
}

func TestLevelUpOnClear(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0,
		levelDef{grid: "11111\n18201\n11111"},
		levelDef{grid: "111111\n102281\n111111"},
	)

	e.SetPlayerDirection(core.DirRight)
	e.PlayerTick(tick)

	f := e.Frame()
	if f.Level != 2 || !hasEvent(f, EventLevelUp) {
		t.Fatalf("level %d events %v", f.Level, f.Events)
	}
	if f.Speed != 1.5 {
		t.Errorf("speed = %.2f, expected 1.5", f.Speed)
	}
	if f.Player.Pos != core.Pos(4, 1) || f.Player.Dir != core.DirNone {
		t.Errorf("player %+v, expected reset to (4,1)", f.Player)
	}
	if f.Score != 10 || f.Remaining != 2 {
		t.Errorf("score %d remaining %d", f.Score, f.Remaining)
	}
	rate := 1.5
	wantPlayer := time.Duration(float64(40*time.Millisecond) / rate)
	wantAdv := time.Duration(float64(time.Second) / rate)
	if p, a := e.Intervals(); p != wantPlayer || a != wantAdv {
		t.Errorf("Intervals() = %v, %v, expected %v, %v", p, a, wantPlayer, wantAdv)
	}
}

func TestLevelUpPastManualSpeedCap(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0,
		levelDef{grid: "11111\n18201\n11111"},
		levelDef{grid: "11111\n18221\n11111"},
	)
	for range 10 {
		e.IncreaseSpeed()
	}
	capped := e.Session().Speed
	before, _ := e.Intervals()

	e.SetPlayerDirection(core.DirRight)
	e.PlayerTick(tick)

	if got := e.Frame(); got.Level != 2 || got.Speed != capped+0.5 {
		t.Fatalf("level %d speed %.2f, expected 2 and %.2f", got.Level, got.Speed, capped+0.5)
	}
	if after, _ := e.Intervals(); after >= before {
		t.Errorf("player interval %v not shorter than %v after level up", after, before)
	}
	if got := e.IncreaseSpeed(); got != capped+0.5 {
		t.Errorf("IncreaseSpeed() above the cap = %.2f, expected no change", got)
	}
}

func TestCommandsClearEvents(t *testing.T) {
	commands := []struct {
		name string
		run  func(e *Engine)
	}{
		{"turn", func(e *Engine) { e.SetPlayerDirection(core.DirDown) }},
		{"pause", func(e *Engine) { e.Pause() }},
		{"faster", func(e *Engine) { e.IncreaseSpeed() }},
		{"slower", func(e *Engine) { e.DecreaseSpeed() }},
	}
	for _, tc := range commands {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: corridor})
			e.SetPlayerDirection(core.DirRight)
			e.PlayerTick(tick)
			if !hasEvent(e.Frame(), EventDot) {
				t.Fatal("tick did not report the dot")
			}

			tc.run(e)
			if events := e.Frame().Events; len(events) != 0 {
				t.Errorf("events after %s = %v, expected none", tc.name, events)
			}
		})
	}
}

func TestCheckpointOnExit(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0,
		levelDef{grid: "1111111\n1829221\n1111111", checkpoint: 5},
		levelDef{grid: "1111\n1821\n1111"},
	)
	e.SetPlayerDirection(core.DirRight)

	e.PlayerTick(tick) // dot, score 10 > 5 but not on the exit
	if e.Frame().Level != 1 {
		t.Fatal("level changed before reaching the exit")
	}
	e.PlayerTick(2 * tick) // exit
	if f := e.Frame(); f.Level != 2 {
		t.Errorf("level = %d after reaching the exit past the checkpoint", f.Level)
	}
}

func TestFinalLevel(t *testing.T) {
	final := levelDef{grid: "11111\n18201\n11111"}

	t.Run("victory above threshold", func(t *testing.T) {
		e := newEngine(t, config.DefaultMazeConfig(), 5, final)
		e.SetPlayerDirection(core.DirRight)
		e.PlayerTick(tick)
		f := e.Frame()
		if f.Status != StatusVictory || !hasEvent(f, EventVictory) {
			t.Errorf("status %v events %v", f.Status, f.Events)
		}
	})

	t.Run("victory without threshold", func(t *testing.T) {
		e := newEngine(t, config.DefaultMazeConfig(), 0, final)
		e.SetPlayerDirection(core.DirRight)
		e.PlayerTick(tick)
		if f := e.Frame(); f.Status != StatusVictory {
			t.Errorf("status %v, expected victory", f.Status)
		}
	})

	t.Run("replay at threshold", func(t *testing.T) {
		e := newEngine(t, config.DefaultMazeConfig(), 10, final)
		e.SetPlayerDirection(core.DirRight)
		e.PlayerTick(tick)
		if f := e.Frame(); f.Status != StatusRunning || f.Level != 1 || f.Score != 10 {
			t.Errorf("status %v level %d score %d, expected a replay", f.Status, f.Level, f.Score)
		}
	})

	t.Run("replay below threshold", func(t *testing.T) {
		e := newEngine(t, config.DefaultMazeConfig(), 1000, final)
		e.SetPlayerDirection(core.DirRight)
		e.PlayerTick(tick)
		f := e.Frame()
		if f.Status != StatusRunning || f.Level != 1 {
			t.Fatalf("status %v level %d", f.Status, f.Level)
		}
		if f.Remaining != 1 || f.Score != 10 || f.Speed != 1.5 {
			t.Errorf("remaining %d score %d speed %.2f", f.Remaining, f.Score, f.Speed)
		}
	})
}

func TestConfigurationErrors(t *testing.T) {
	t.Run("missing adversary at start", func(t *testing.T) {
		p := testPack(t, 0, levelDef{grid: "11111\n14821\n11111", adversaries: "[blinky, clyde]"})
		_, err := New(p, config.DefaultMazeConfig(), 1)
		var cfgErr *board.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("New() error = %v, expected ConfigurationError", err)
		}
	})

	t.Run("failed load keeps state", func(t *testing.T) {
		e := newEngine(t, config.DefaultMazeConfig(), 0,
			levelDef{grid: "111111\n182221\n111111"},
			levelDef{grid: "11111\n14821\n11111", adversaries: "[pinky]"},
		)
		e.SetPlayerDirection(core.DirRight)
		e.PlayerTick(tick)
		before := e.Frame()

		if _, err := e.LoadLevel(2); err == nil {
			t.Fatal("expected LoadLevel(2) to fail")
		}
		after := e.Frame()
		if after.Level != 1 || after.Score != before.Score || after.Player != before.Player {
			t.Errorf("state changed: before %+v after %+v", before, after)
		}
	})
}

func TestPauseResume(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: "111111\n182221\n111111"})
	e.SetPlayerDirection(core.DirRight)

	if !e.Pause() || e.Status() != StatusPaused {
		t.Fatal("Pause() failed")
	}
	e.PlayerTick(tick)
	if f := e.Frame(); f.Score != 0 || f.PlayerTicks != 0 {
		t.Error("paused engine advanced")
	}
	if e.SetPlayerDirection(core.DirLeft) {
		t.Error("input accepted while paused")
	}
	if e.Pause() {
		t.Error("double pause should be rejected")
	}

	if !e.TogglePause() || e.Status() != StatusRunning {
		t.Fatal("TogglePause() did not resume")
	}
	e.PlayerTick(tick)
	if e.Frame().Score != 10 {
		t.Error("resumed engine did not advance")
	}
	if e.Resume() {
		t.Error("Resume() of a running session should be rejected")
	}
}

func TestRestart(t *testing.T) {
	cfg := config.DefaultMazeConfig()
	cfg.Gameplay.Lives = 1
	e := newEngine(t, cfg, 0, levelDef{grid: "11111\n18221\n12221\n11111"})

	e.SetPlayerDirection(core.DirRight)
	e.IncreaseSpeed()
	for i := 1; i <= 3; i++ {
		e.PlayerTick(time.Duration(i) * tick)
	}
	if e.Status() != StatusGameOver {
		t.Fatalf("status = %v", e.Status())
	}

	if err := e.Restart(); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}
	f := e.Frame()
	if f.Status != StatusRunning || f.Score != 0 || f.Lives != 1 || f.Level != 1 {
		t.Errorf("after restart: %+v", f)
	}
	if f.HighScore != 20 {
		t.Errorf("high score = %d, expected 20", f.HighScore)
	}
	if f.Speed != 1.0 {
		t.Errorf("speed = %.2f, expected 1.0", f.Speed)
	}
	if f.Remaining != f.Total {
		t.Errorf("board not reset: %d of %d", f.Remaining, f.Total)
	}
}

func TestSpeedControls(t *testing.T) {
	e := newEngine(t, config.DefaultMazeConfig(), 0, levelDef{grid: corridor})

	for range 10 {
		e.IncreaseSpeed()
	}
	if got := e.Session().Speed; got != 4.0 {
		t.Errorf("speed = %.2f, expected clamp at 4.0", got)
	}
	for range 10 {
		e.DecreaseSpeed()
	}
	if got := e.Session().Speed; got != 0.5 {
		t.Errorf("speed = %.2f, expected clamp at 0.5", got)
	}
	p, a := e.Intervals()
	if p != 80*time.Millisecond || a != 2*time.Second {
		t.Errorf("Intervals() at 0.5 = %v, %v", p, a)
	}
}

func TestDeterminism(t *testing.T) {
	p1, err := levels.Open(levels.ClassicID)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := levels.Open(levels.ClassicID)
	if err != nil {
		t.Fatal(err)
	}
	e1, err := New(p1, config.DefaultMazeConfig(), 77)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := New(p2, config.DefaultMazeConfig(), 77)
	if err != nil {
		t.Fatal(err)
	}

	dirs := []core.Direction{core.DirRight, core.DirDown, core.DirLeft, core.DirUp}
	now := time.Duration(0)
	for i := range 1500 {
		now += tick
		d := dirs[(i/11)%len(dirs)]
		e1.SetPlayerDirection(d)
		e2.SetPlayerDirection(d)
		e1.PlayerTick(now)
		e2.PlayerTick(now)
		if i%25 == 24 {
			e1.AdversaryTick(now)
			e2.AdversaryTick(now)
		}
		if !reflect.DeepEqual(e1.Frame(), e2.Frame()) {
			t.Fatalf("engines diverged at step %d", i)
		}
	}
}
