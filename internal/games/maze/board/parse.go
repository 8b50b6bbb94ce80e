package board

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/MilleBA/Pac-Man/internal/core"
)

// Cell codes of the text level format, one digit per cell.
const (
	CodeEmpty     = '0'
	CodeWall      = '1'
	CodeDot       = '2'
	CodeEnergyDot = '3'
	CodeBlinky    = '4'
	CodeInky      = '5'
	CodePinky     = '6'
	CodeClyde     = '7'
	CodePlayer    = '8'
	CodeExit      = '9'
)

// DecodeCell maps a level character to a cell.
func DecodeCell(r rune) (Cell, bool) {
	switch r {
	case CodeEmpty:
		return Cell{Kind: KindEmpty}, true
	case CodeWall:
		return Cell{Kind: KindWall}, true
	case CodeDot:
		return Cell{Kind: KindDot}, true
	case CodeEnergyDot:
		return Cell{Kind: KindEnergyDot}, true
	case CodeBlinky, CodeInky, CodePinky, CodeClyde:
		return Cell{Kind: KindAdversarySpawn, Adversary: core.AdversaryID(r - CodeBlinky)}, true
	case CodePlayer:
		return Cell{Kind: KindPlayerSpawn}, true
	case CodeExit:
		return Cell{Kind: KindLevelExit}, true
	default:
		return Cell{Kind: KindEmpty}, false
	}
}

// EncodeCell is the inverse of DecodeCell.
func EncodeCell(c Cell) rune {
	switch c.Kind {
	case KindWall:
		return CodeWall
	case KindDot:
		return CodeDot
	case KindEnergyDot:
		return CodeEnergyDot
	case KindAdversarySpawn:
		return CodeBlinky + rune(c.Adversary)
	case KindPlayerSpawn:
		return CodePlayer
	case KindLevelExit:
		return CodeExit
	default:
		return CodeEmpty
	}
}

// Parse builds a board from a digit grid. Whitespace inside a row and blank lines
// are ignored; the first non-blank row fixes the width.
//
// Parsing is lenient. Unknown characters, rows of the wrong length, a second player
// spawn and duplicate adversary spawns are coerced to Empty and reported through a
// *MalformedLevelError, returned together with a usable board. A nil board is only
// returned with a *ConfigurationError: the text has no rows or no player spawn.
func Parse(name, src string) (*Board, error) {
	var rows [][]rune
	for _, line := range strings.Split(src, "\n") {
		row := stripSpace(line)
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &ConfigurationError{Level: name, Reason: "layout has no rows"}
	}

	b := &Board{
		name:   name,
		width:  len(rows[0]),
		height: len(rows),
		cells:  make([][]Cell, len(rows)),
	}

	var issues []Issue
	seenPlayer := false
	seenAdversary := make(map[core.AdversaryID]bool)

	for r, row := range rows {
		if len(row) != b.width {
			issues = append(issues, Issue{
				Row:    r,
				Col:    min(len(row), b.width),
				Reason: fmt.Sprintf("row has %d cells, expected %d", len(row), b.width),
			})
		}
		b.cells[r] = make([]Cell, b.width)
		for c := 0; c < b.width && c < len(row); c++ {
			cell, ok := DecodeCell(row[c])
			if !ok {
				issues = append(issues, Issue{Row: r, Col: c, Reason: fmt.Sprintf("unknown cell code %q", row[c])})
				continue
			}

			switch cell.Kind {
			case KindPlayerSpawn:
				if seenPlayer {
					issues = append(issues, Issue{Row: r, Col: c, Reason: "duplicate player spawn"})
					continue
				}
				seenPlayer = true
				b.playerSpawn = core.Pos(c, r)
			case KindAdversarySpawn:
				if seenAdversary[cell.Adversary] {
					issues = append(issues, Issue{Row: r, Col: c, Reason: fmt.Sprintf("duplicate spawn for %s", cell.Adversary)})
					continue
				}
				seenAdversary[cell.Adversary] = true
				b.spawns = append(b.spawns, Spawn{ID: cell.Adversary, Pos: core.Pos(c, r)})
			case KindLevelExit:
				b.exits = append(b.exits, core.Pos(c, r))
			case KindDot, KindEnergyDot:
				b.total++
			}
			b.cells[r][c] = cell
		}
	}

	if !seenPlayer {
		return nil, &ConfigurationError{Level: name, Reason: "layout has no player spawn"}
	}

	sort.Slice(b.spawns, func(i, j int) bool {
		return b.spawns[i].ID < b.spawns[j].ID
	})
	b.original = copyCells(b.cells)
	b.remaining = b.total

	if len(issues) > 0 {
		return b, &MalformedLevelError{Level: name, Issues: issues}
	}
	return b, nil
}

// String renders the current grid back into the text format.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height)
	for r, row := range b.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			sb.WriteRune(EncodeCell(c))
		}
	}
	return sb.String()
}

func stripSpace(line string) []rune {
	out := make([]rune, 0, len(line))
	for _, r := range line {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	return out
}
