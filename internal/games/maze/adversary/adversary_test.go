package adversary

import (
	"testing"
	"time"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/entity"
)

const arena = `
1111111
1222221
1221221
1245671
1222821
1111111
`

func newArena(t *testing.T) (*board.Board, *Controller) {
	t.Helper()
	b, err := board.Parse("arena", arena)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	c := NewController(42)
	c.Reset(b.AdversarySpawns())
	return b, c
}

func TestResetRoster(t *testing.T) {
	_, c := newArena(t)
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, expected 4", c.Len())
	}
	for i, id := range core.AdversaryIDs {
		a := c.At(i)
		if a.ID != id || a.Mode != Patrol || a.Dir != core.DirUp || a.Pos != a.Home {
			t.Errorf("adversary %d = %+v", i, a)
		}
	}
}

func TestMoveStaysOnFloor(t *testing.T) {
	b, c := newArena(t)
	for range 500 {
		for i := range c.Len() {
			c.Move(i, b)
			if p := c.At(i).Pos; !b.IsWalkable(p) {
				t.Fatalf("%v moved into %v", c.At(i).ID, p)
			}
		}
	}
}

func TestMoveKeepsOpenHeading(t *testing.T) {
	b, c := newArena(t)
	// blinky at (2,3) facing up has (2,2) open above it
	if got := c.Move(0, b); got != entity.Moved {
		t.Fatalf("Move() = %v", got)
	}
	if a := c.At(0); a.Pos != core.Pos(2, 2) || a.Dir != core.DirUp {
		t.Errorf("blinky at %v facing %v, expected (2,2) up", a.Pos, a.Dir)
	}
}

func TestMoveBoxedIn(t *testing.T) {
	b, err := board.Parse("box", "11111\n14181\n11111")
	if err != nil {
		t.Fatal(err)
	}
	c := NewController(1)
	c.Reset(b.AdversarySpawns())
	if got := c.Move(0, b); got != entity.Blocked {
		t.Errorf("boxed adversary Move() = %v", got)
	}
	if c.At(0).Pos != core.Pos(1, 1) {
		t.Errorf("boxed adversary moved to %v", c.At(0).Pos)
	}
}

func TestSeededMovesAreDeterministic(t *testing.T) {
	b1, c1 := newArena(t)
	b2, c2 := newArena(t)
	for step := range 300 {
		for i := range c1.Len() {
			c1.Move(i, b1)
			c2.Move(i, b2)
			if c1.At(i) != c2.At(i) {
				t.Fatalf("step %d: controllers diverged on %v", step, c1.At(i).ID)
			}
		}
	}
}

func TestFrightenedLifecycle(t *testing.T) {
	_, c := newArena(t)
	const frightened = 20 * time.Second

	c.Frighten(time.Second, frightened)
	for i := range c.Len() {
		if c.At(i).Mode != Frightened {
			t.Fatalf("%v mode = %v", c.At(i).ID, c.At(i).Mode)
		}
	}

	if calmed, _ := c.Expire(20 * time.Second); calmed {
		t.Fatal("calmed before the deadline")
	}
	if calmed, _ := c.Expire(21 * time.Second); !calmed {
		t.Fatal("expected calm at the deadline")
	}
	for i := range c.Len() {
		if c.At(i).Mode != Patrol {
			t.Errorf("%v mode = %v after calm", c.At(i).ID, c.At(i).Mode)
		}
	}
	if c.Frightened() {
		t.Error("Frightened() still true")
	}
}

func TestFrightenRestartsDeadline(t *testing.T) {
	_, c := newArena(t)
	c.Frighten(0, 20*time.Second)
	c.Frighten(10*time.Second, 20*time.Second)
	if calmed, _ := c.Expire(25 * time.Second); calmed {
		t.Error("second energy dot should extend the period")
	}
	if c.FrightenedUntil() != 30*time.Second {
		t.Errorf("FrightenedUntil() = %v", c.FrightenedUntil())
	}
}

func TestCaptureAndRespawn(t *testing.T) {
	b, c := newArena(t)
	const respawn = 15 * time.Second

	if c.Capture(0, 0, respawn) {
		t.Fatal("a patrolling adversary must not be capturable")
	}

	c.Frighten(0, 20*time.Second)
	c.Move(0, b)
	if !c.Capture(0, time.Second, respawn) {
		t.Fatal("Capture() of a frightened adversary failed")
	}
	captured := c.At(0)
	if captured.Mode != Captured {
		t.Fatalf("mode = %v", captured.Mode)
	}
	if len(c.Occupants(captured.Pos)) != 0 {
		t.Error("captured adversary should not collide")
	}
	if got := c.Move(0, b); got != entity.Blocked || c.At(0).Pos != captured.Pos {
		t.Error("captured adversary should not move")
	}

	// A new energy dot does not revive the captured one.
	c.Frighten(2*time.Second, 20*time.Second)
	if c.At(0).Mode != Captured {
		t.Errorf("Frighten changed a captured adversary to %v", c.At(0).Mode)
	}

	if _, respawned := c.Expire(15 * time.Second); len(respawned) != 0 {
		t.Fatalf("respawned early: %v", respawned)
	}
	_, respawned := c.Expire(16 * time.Second)
	if len(respawned) != 1 || respawned[0] != core.Blinky {
		t.Fatalf("respawned = %v", respawned)
	}
	a := c.At(0)
	if a.Mode != Patrol || a.Pos != a.Home {
		t.Errorf("after respawn: mode %v at %v, home %v", a.Mode, a.Pos, a.Home)
	}
}

func TestOccupants(t *testing.T) {
	_, c := newArena(t)
	if got := c.Occupants(core.Pos(3, 3)); len(got) != 1 || got[0] != 1 {
		t.Errorf("Occupants((3,3)) = %v, expected [1]", got)
	}
	if got := c.Occupants(core.Pos(1, 1)); len(got) != 0 {
		t.Errorf("Occupants((1,1)) = %v, expected none", got)
	}
}
