// Package autopilot steers the player without a human: a breadth-first search
// toward the closest remaining item that stays clear of patrolling adversaries.
package autopilot

import (
	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/engine"
)

// Plan returns the first step of a shortest path from `from` to the nearest
// collectible, never passing through a threat cell. When no such path exists
// it heads for the board's NearestCollectible as the crow flies, and returns
// DirNone only when nothing is left.
func Plan(b *board.Board, from core.Position, threats []core.Position) core.Direction {
	blocked := make(map[core.Position]bool, len(threats))
	for _, p := range threats {
		blocked[p] = true
	}

	type node struct {
		pos   core.Position
		first core.Direction
	}
	seen := map[core.Position]bool{from: true}
	queue := []node{{pos: from}}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if n.pos != from && b.CellAt(n.pos).Collectible() {
			return n.first
		}
		for _, d := range core.Cardinals {
			next := n.pos.Add(d)
			if seen[next] || blocked[next] || !b.IsWalkable(next) {
				continue
			}
			seen[next] = true
			first := n.first
			if n.pos == from {
				first = d
			}
			queue = append(queue, node{pos: next, first: first})
		}
	}

	target, ok := b.NearestCollectible(from)
	if !ok {
		return core.DirNone
	}
	return toward(b, from, target)
}

// toward picks an open direction that reduces the distance to target.
func toward(b *board.Board, from, target core.Position) core.Direction {
	best := core.DirNone
	bestDist := from.Distance(target)
	for _, d := range core.Cardinals {
		next := from.Add(d)
		if !b.IsWalkable(next) {
			continue
		}
		if dist := next.Distance(target); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

// Steer is a scheduler pilot: it turns the player along the planned path.
func Steer(e *engine.Engine) {
	if d := Plan(e.Board(), e.PlayerPosition(), e.Threats()); d != core.DirNone {
		e.SetPlayerDirection(d)
	}
}
