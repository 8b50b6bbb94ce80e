package autopilot

import (
	"testing"
	"time"

	"github.com/MilleBA/Pac-Man/internal/config"
	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/engine"
	"github.com/MilleBA/Pac-Man/internal/games/maze/levels"
)

func parse(t *testing.T, src string) *board.Board {
	t.Helper()
	b, err := board.Parse("t", src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return b
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		grid     string
		threats  []core.Position
		expected core.Direction
	}{
		{
			name:     "adjacent dot",
			grid:     "11111\n18201\n11111",
			expected: core.DirRight,
		},
		{
			name:     "around a corner",
			grid:     "11111\n18011\n11011\n11021\n11111",
			expected: core.DirRight,
		},
		{
			name:     "nearest of two",
			grid:     "1111111\n1200821\n1111111",
			expected: core.DirRight,
		},
		{
			name:     "detour around a threat",
			grid:     "111111\n180021\n101101\n100001\n111111",
			threats:  []core.Position{core.Pos(2, 1)},
			expected: core.DirDown,
		},
		{
			name:     "nothing left",
			grid:     "1111\n1801\n1111",
			expected: core.DirNone,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := parse(t, tc.grid)
			if got := Plan(b, b.PlayerSpawn(), tc.threats); got != tc.expected {
				t.Errorf("Plan() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestPlanFallsBackWhenCutOff(t *testing.T) {
	// the only corridor to the dot is occupied
	b := parse(t, "111111\n180021\n111111")
	got := Plan(b, b.PlayerSpawn(), []core.Position{core.Pos(2, 1)})
	if got != core.DirRight {
		t.Errorf("Plan() = %v, expected right", got)
	}
}

func TestSteerClearsALevel(t *testing.T) {
	p, err := levels.Open(levels.ClassicID)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultMazeConfig()
	cfg.Gameplay.Lives = 99
	e, err := engine.New(p, cfg, 3)
	if err != nil {
		t.Fatal(err)
	}

	start := e.Frame().Remaining
	now := time.Duration(0)
	for i := range 5000 {
		now += 40 * time.Millisecond
		Steer(e)
		e.PlayerTick(now)
		if i%25 == 24 {
			e.AdversaryTick(now)
		}
		if f := e.Frame(); f.Level > 1 || f.Status.Finished() {
			return
		}
	}
	if f := e.Frame(); f.Remaining >= start {
		t.Errorf("autopilot collected nothing: %d of %d left", f.Remaining, start)
	}
}
