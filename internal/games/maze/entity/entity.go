// Package entity holds the movable things on the board: a positioned, directed
// Body and the Player built on it.
package entity

import (
	"time"

	"github.com/MilleBA/Pac-Man/internal/core"
)

// Grid is the part of the board movement needs.
type Grid interface {
	InBounds(p core.Position) bool
	IsWalkable(p core.Position) bool
}

// MoveResult reports what happened to a proposed step.
type MoveResult uint8

const (
	Moved   MoveResult = iota // position committed (a zero step also counts)
	Blocked                   // target is a wall; the body stays
	OffGrid                   // target is outside the board; silently ignored
)

func (r MoveResult) String() string {
	switch r {
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case OffGrid:
		return "off_grid"
	default:
		return "unknown"
	}
}

// ProposeStep returns the cell one step from pos in dir.
func ProposeStep(pos core.Position, dir core.Direction) core.Position {
	return pos.Add(dir)
}

// Body is a position with a persistent heading.
type Body struct {
	Pos core.Position
	Dir core.Direction
}

// CommitIfWalkable moves the body to candidate when the grid allows it.
func (b *Body) CommitIfWalkable(candidate core.Position, g Grid) MoveResult {
	if !g.InBounds(candidate) {
		return OffGrid
	}
	if !g.IsWalkable(candidate) {
		return Blocked
	}
	b.Pos = candidate
	return Moved
}

// Step advances the body one cell along its current heading.
func (b *Body) Step(g Grid) MoveResult {
	return b.CommitIfWalkable(ProposeStep(b.Pos, b.Dir), g)
}

// Player is the controlled agent. Its heading is applied on every player tick.
type Player struct {
	Body
	Spawn core.Position

	invulnerableUntil time.Duration
}

// NewPlayer places a player on its spawn cell with no heading.
func NewPlayer(spawn core.Position) *Player {
	p := &Player{}
	p.Reset(spawn)
	return p
}

// Reset returns the player to spawn, clears the heading and the hit window.
func (p *Player) Reset(spawn core.Position) {
	p.Spawn = spawn
	p.Pos = spawn
	p.Dir = core.DirNone
	p.invulnerableUntil = 0
}

// SetDirection changes the heading if the very next cell that way is walkable.
// A rejected change leaves the previous heading in place.
func (p *Player) SetDirection(dir core.Direction, g Grid) bool {
	if dir == core.DirNone {
		return false
	}
	if !g.IsWalkable(ProposeStep(p.Pos, dir)) {
		return false
	}
	p.Dir = dir
	return true
}

// TryHit accepts a hit at now unless the player is still inside a previous
// window. An accepted hit opens a new window of the given length.
func (p *Player) TryHit(now, window time.Duration) bool {
	if now < p.invulnerableUntil {
		return false
	}
	p.invulnerableUntil = now + window
	return true
}

// Invulnerable reports whether a hit at now would be ignored.
func (p *Player) Invulnerable(now time.Duration) bool {
	return now < p.invulnerableUntil
}
