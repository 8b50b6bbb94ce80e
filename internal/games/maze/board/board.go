// Package board holds the tile-grid world model: cell classification, the mutable
// grid with its pristine snapshot, and collectible bookkeeping.
package board

import (
	"github.com/MilleBA/Pac-Man/internal/core"
)

// Kind classifies a single grid cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindWall
	KindDot
	KindEnergyDot
	KindAdversarySpawn
	KindPlayerSpawn
	KindLevelExit
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindWall:
		return "wall"
	case KindDot:
		return "dot"
	case KindEnergyDot:
		return "energy_dot"
	case KindAdversarySpawn:
		return "adversary_spawn"
	case KindPlayerSpawn:
		return "player_spawn"
	case KindLevelExit:
		return "level_exit"
	default:
		return "unknown"
	}
}

// Cell is one tile. Adversary is meaningful only for KindAdversarySpawn.
type Cell struct {
	Kind      Kind
	Adversary core.AdversaryID
}

// Collectible reports whether the cell holds a dot or an energy dot.
func (c Cell) Collectible() bool {
	return c.Kind == KindDot || c.Kind == KindEnergyDot
}

// Consumed is the result of eating whatever is on a cell.
type Consumed uint8

const (
	ConsumedNone Consumed = iota
	ConsumedDot
	ConsumedEnergyDot
)

func (c Consumed) String() string {
	switch c {
	case ConsumedDot:
		return "dot"
	case ConsumedEnergyDot:
		return "energy_dot"
	default:
		return "none"
	}
}

// Spawn is the home cell of one adversary.
type Spawn struct {
	ID  core.AdversaryID
	Pos core.Position
}

// Board is the grid of one level. It is not safe for concurrent use; the
// scheduler serialises every access.
type Board struct {
	name      string
	width     int
	height    int
	cells     [][]Cell
	original  [][]Cell
	total     int
	remaining int

	playerSpawn core.Position
	spawns      []Spawn // ordered by adversary ID
	exits       []core.Position
}

// Name returns the level name the board was parsed under.
func (b *Board) Name() string { return b.name }

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// InBounds reports whether p lies on the grid.
func (b *Board) InBounds(p core.Position) bool {
	return p.Col >= 0 && p.Col < b.width && p.Row >= 0 && p.Row < b.height
}

// CellAt returns the current cell at p. Off-grid positions read as walls.
func (b *Board) CellAt(p core.Position) Cell {
	if !b.InBounds(p) {
		return Cell{Kind: KindWall}
	}
	return b.cells[p.Row][p.Col]
}

// IsWalkable is true for every in-bounds cell that is not a wall.
func (b *Board) IsWalkable(p core.Position) bool {
	return b.InBounds(p) && b.cells[p.Row][p.Col].Kind != KindWall
}

// Consume eats the item at p, if any, and returns what was eaten.
func (b *Board) Consume(p core.Position) Consumed {
	if !b.InBounds(p) {
		return ConsumedNone
	}
	var got Consumed
	switch b.cells[p.Row][p.Col].Kind {
	case KindDot:
		got = ConsumedDot
	case KindEnergyDot:
		got = ConsumedEnergyDot
	default:
		return ConsumedNone
	}
	b.cells[p.Row][p.Col] = Cell{Kind: KindEmpty}
	b.remaining--
	return got
}

// Reset restores the grid to the layout it was parsed with.
func (b *Board) Reset() {
	b.cells = copyCells(b.original)
	b.remaining = b.total
}

// TotalCollectibles is the number of dots and energy dots at load time.
func (b *Board) TotalCollectibles() int { return b.total }

// Remaining is the number of dots and energy dots still on the grid.
func (b *Board) Remaining() int { return b.remaining }

// PlayerSpawn returns the player's start cell.
func (b *Board) PlayerSpawn() core.Position { return b.playerSpawn }

// AdversarySpawns returns the adversary home cells ordered by identity.
func (b *Board) AdversarySpawns() []Spawn {
	out := make([]Spawn, len(b.spawns))
	copy(out, b.spawns)
	return out
}

// HasAdversary reports whether the layout contains a spawn for id.
func (b *Board) HasAdversary(id core.AdversaryID) bool {
	for _, s := range b.spawns {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Exits returns the level-exit cells in row-major order.
func (b *Board) Exits() []core.Position {
	out := make([]core.Position, len(b.exits))
	copy(out, b.exits)
	return out
}

// IsExit reports whether p is a level-exit cell.
func (b *Board) IsExit(p core.Position) bool {
	return b.CellAt(p).Kind == KindLevelExit
}

// NearestCollectible finds the remaining dot closest to from by grid distance.
// Ties resolve to the first cell in row-major order.
func (b *Board) NearestCollectible(from core.Position) (core.Position, bool) {
	best := core.Position{}
	bestDist := -1
	for row := range b.cells {
		for col, c := range b.cells[row] {
			if !c.Collectible() {
				continue
			}
			p := core.Pos(col, row)
			if d := from.Distance(p); bestDist < 0 || d < bestDist {
				best, bestDist = p, d
			}
		}
	}
	return best, bestDist >= 0
}

// Cells returns a deep copy of the current grid for presentation.
func (b *Board) Cells() [][]Cell {
	return copyCells(b.cells)
}

// countCollectibles walks the grid; used to verify the remaining counter.
func (b *Board) countCollectibles() int {
	n := 0
	for _, row := range b.cells {
		for _, c := range row {
			if c.Collectible() {
				n++
			}
		}
	}
	return n
}

func copyCells(src [][]Cell) [][]Cell {
	dst := make([][]Cell, len(src))
	for i := range src {
		dst[i] = make([]Cell, len(src[i]))
		copy(dst[i], src[i])
	}
	return dst
}
