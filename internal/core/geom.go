// Package core provides the grid geometry and presentation primitives shared by the
// maze simulation and its hosts. It has no external dependencies so the simulation
// packages stay pure and testable.
package core

import "fmt"

// Position is a cell coordinate on the board. Col grows to the right, Row grows down.
type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Pos is shorthand for Position{Col: col, Row: row}.
func Pos(col, row int) Position {
	return Position{Col: col, Row: row}
}

// Add returns p shifted by one step in direction d.
func (p Position) Add(d Direction) Position {
	dc, dr := d.Delta()
	return Position{Col: p.Col + dc, Row: p.Row + dr}
}

// Distance returns the Manhattan distance between two cells.
func (p Position) Distance(o Position) int {
	return Abs(p.Col-o.Col) + Abs(p.Row-o.Row)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Direction is a unit grid step.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Cardinals lists the four movable directions in a fixed order.
// Callers that need randomness shuffle a copy.
var Cardinals = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the column and row offsets of one step.
func (d Direction) Delta() (dc, dr int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction. DirNone is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText lets directions appear by name in JSON frames.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// AdversaryID names one of the fixed set of adversaries.
type AdversaryID uint8

const (
	Blinky AdversaryID = iota
	Inky
	Pinky
	Clyde
)

// AdversaryIDs lists every known adversary in spawn-code order.
var AdversaryIDs = [4]AdversaryID{Blinky, Inky, Pinky, Clyde}

func (id AdversaryID) String() string {
	switch id {
	case Blinky:
		return "blinky"
	case Inky:
		return "inky"
	case Pinky:
		return "pinky"
	case Clyde:
		return "clyde"
	default:
		return fmt.Sprintf("adversary(%d)", uint8(id))
	}
}

// MarshalText encodes the adversary by name.
func (id AdversaryID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// ParseAdversaryID resolves a name such as "blinky".
func ParseAdversaryID(name string) (AdversaryID, bool) {
	for _, id := range AdversaryIDs {
		if id.String() == name {
			return id, true
		}
	}
	return 0, false
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
