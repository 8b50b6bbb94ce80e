// Package adversary implements the chasers: their patrol/frightened/captured
// state machine and the wandering movement policy.
package adversary

import (
	"math/rand"
	"time"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/entity"
)

// Mode is the behaviour state of one adversary.
type Mode uint8

const (
	Patrol Mode = iota
	Frightened
	Captured
)

func (m Mode) String() string {
	switch m {
	case Patrol:
		return "patrol"
	case Frightened:
		return "frightened"
	case Captured:
		return "captured"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Adversary is one chaser record.
type Adversary struct {
	ID core.AdversaryID
	entity.Body
	Home      core.Position
	Mode      Mode
	RespawnAt time.Duration // meaningful while Captured
}

// Active reports whether the adversary moves and collides.
func (a Adversary) Active() bool { return a.Mode != Captured }

// Controller owns every adversary of the current level.
// It is not safe for concurrent use.
type Controller struct {
	rng         *rand.Rand
	adversaries []Adversary

	frightened      bool
	frightenedUntil time.Duration
}

// NewController creates an empty controller whose movement choices derive from seed.
func NewController(seed int64) *Controller {
	return &Controller{rng: rand.New(rand.NewSource(seed))}
}

// Reset replaces the roster with one patrolling adversary per spawn, facing up.
func (c *Controller) Reset(spawns []board.Spawn) {
	c.adversaries = make([]Adversary, len(spawns))
	for i, s := range spawns {
		c.adversaries[i] = Adversary{
			ID:   s.ID,
			Body: entity.Body{Pos: s.Pos, Dir: core.DirUp},
			Home: s.Pos,
			Mode: Patrol,
		}
	}
	c.frightened = false
	c.frightenedUntil = 0
}

// Len returns the number of adversaries.
func (c *Controller) Len() int { return len(c.adversaries) }

// At returns a copy of the i-th adversary.
func (c *Controller) At(i int) Adversary { return c.adversaries[i] }

// Snapshot returns a copy of every adversary record.
func (c *Controller) Snapshot() []Adversary {
	out := make([]Adversary, len(c.adversaries))
	copy(out, c.adversaries)
	return out
}

// Frightened reports whether a frightened period is running.
func (c *Controller) Frightened() bool { return c.frightened }

// FrightenedUntil is the deadline of the running frightened period.
func (c *Controller) FrightenedUntil() time.Duration { return c.frightenedUntil }

// Frighten starts or restarts the global frightened period and turns every
// adversary that is not captured to Frightened.
func (c *Controller) Frighten(now, d time.Duration) {
	c.frightened = true
	c.frightenedUntil = now + d
	for i := range c.adversaries {
		if c.adversaries[i].Mode != Captured {
			c.adversaries[i].Mode = Frightened
		}
	}
}

// Calm ends the frightened period at once.
func (c *Controller) Calm() {
	c.frightened = false
	c.frightenedUntil = 0
	for i := range c.adversaries {
		if c.adversaries[i].Mode == Frightened {
			c.adversaries[i].Mode = Patrol
		}
	}
}

// Capture takes the i-th adversary out of play until now+respawn.
// Only a frightened adversary can be captured.
func (c *Controller) Capture(i int, now, respawn time.Duration) bool {
	a := &c.adversaries[i]
	if a.Mode != Frightened {
		return false
	}
	a.Mode = Captured
	a.RespawnAt = now + respawn
	return true
}

// Expire applies every deadline that has passed by now. It reports whether the
// frightened period ended and which adversaries came back home.
func (c *Controller) Expire(now time.Duration) (calmed bool, respawned []core.AdversaryID) {
	if c.frightened && now >= c.frightenedUntil {
		c.Calm()
		calmed = true
	}
	for i := range c.adversaries {
		a := &c.adversaries[i]
		if a.Mode != Captured || now < a.RespawnAt {
			continue
		}
		a.Mode = Patrol
		a.Pos = a.Home
		a.Dir = core.DirUp
		a.RespawnAt = 0
		respawned = append(respawned, a.ID)
	}
	return calmed, respawned
}

// Move steps the i-th adversary. It keeps its heading while that is open,
// otherwise tries the four directions in a shuffled order and stays put when
// boxed in. Captured adversaries do not move.
func (c *Controller) Move(i int, g entity.Grid) entity.MoveResult {
	a := &c.adversaries[i]
	if a.Mode == Captured {
		return entity.Blocked
	}
	if g.IsWalkable(entity.ProposeStep(a.Pos, a.Dir)) {
		return a.Step(g)
	}

	dirs := core.Cardinals
	c.rng.Shuffle(len(dirs), func(x, y int) {
		dirs[x], dirs[y] = dirs[y], dirs[x]
	})
	for _, d := range dirs {
		if g.IsWalkable(entity.ProposeStep(a.Pos, d)) {
			a.Dir = d
			return a.Step(g)
		}
	}
	return entity.Blocked
}

// Occupants returns the indices of active adversaries standing on p.
func (c *Controller) Occupants(p core.Position) []int {
	var out []int
	for i, a := range c.adversaries {
		if a.Active() && a.Pos == p {
			out = append(out, i)
		}
	}
	return out
}
