package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/adversary"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/engine"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorWall:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorDot:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorEnergy:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorExit:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorPlayer:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorBlinky:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorInky:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorPinky:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorClyde:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorFrightened: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorHUD:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorAlert:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// Glyphs used on the board.
const (
	glyphWall      = '█'
	glyphDot       = '·'
	glyphEnergy    = '●'
	glyphExit      = '▒'
	glyphPlayer    = 'C'
	glyphAdversary = 'M'
)

// hudRows is the number of screen rows above the board.
const hudRows = 3

var adversaryColors = map[core.AdversaryID]core.Color{
	core.Blinky: core.ColorBlinky,
	core.Inky:   core.ColorInky,
	core.Pinky:  core.ColorPinky,
	core.Clyde:  core.ColorClyde,
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// DrawFrame draws the HUD, the board and the status line of a frame. The
// board is centered horizontally below the HUD.
func DrawFrame(s *core.Screen, f engine.FrameState) {
	s.Clear()

	title := fmt.Sprintf("%s  level %d/%d", f.Pack, f.Level, f.Levels)
	if f.LevelName != "" {
		title += "  " + f.LevelName
	}
	s.DrawTextCentered(0, title, core.ColorHUD)
	s.DrawTextCentered(1, scoreLine(f), core.ColorHUD)

	left := (s.Width() - f.Width) / 2
	top := hudRows

	for row, line := range f.Grid {
		col := 0
		for _, r := range line {
			if g, c, ok := cellGlyph(r); ok {
				s.Set(left+col, top+row, g, c)
			}
			col++
		}
	}

	for _, a := range f.Adversaries {
		if a.Mode == adversary.Captured {
			continue
		}
		c := adversaryColors[a.ID]
		if a.Mode == adversary.Frightened {
			c = core.ColorFrightened
		}
		s.Set(left+a.Pos.Col, top+a.Pos.Row, glyphAdversary, c)
	}

	playerColor := core.ColorPlayer
	if f.Player.Invulnerable && f.PlayerTicks%4 < 2 {
		playerColor = core.ColorAlert
	}
	s.Set(left+f.Player.Pos.Col, top+f.Player.Pos.Row, glyphPlayer, playerColor)

	if msg, c := statusLine(f); msg != "" {
		s.DrawTextCentered(top+f.Height+1, msg, c)
	}
}

func scoreLine(f engine.FrameState) string {
	lives := strings.Repeat("♥", max(f.Lives, 0)) + strings.Repeat("♡", max(f.MaxLives-f.Lives, 0))
	return fmt.Sprintf("score %d  high %d  %s  speed x%.1f  left %d/%d",
		f.Score, f.HighScore, lives, f.Speed, f.Remaining, f.Total)
}

func statusLine(f engine.FrameState) (string, core.Color) {
	switch f.Status {
	case engine.StatusPaused:
		return "PAUSED - press s to resume", core.ColorHUD
	case engine.StatusGameOver:
		return "GAME OVER - press r to play again", core.ColorAlert
	case engine.StatusVictory:
		return "VICTORY! - press r to play again", core.ColorPlayer
	}
	if f.Frightened {
		return fmt.Sprintf("frightened %ds", int(f.FrightenedLeft.Seconds()+0.5)), core.ColorFrightened
	}
	return "", core.ColorDefault
}

// cellGlyph maps a grid character to what is drawn for it. Spawn cells draw
// as floor.
func cellGlyph(r rune) (rune, core.Color, bool) {
	cell, ok := board.DecodeCell(r)
	if !ok {
		return 0, core.ColorDefault, false
	}
	switch cell.Kind {
	case board.KindWall:
		return glyphWall, core.ColorWall, true
	case board.KindDot:
		return glyphDot, core.ColorDot, true
	case board.KindEnergyDot:
		return glyphEnergy, core.ColorEnergy, true
	case board.KindLevelExit:
		return glyphExit, core.ColorExit, true
	default:
		return ' ', core.ColorDefault, true
	}
}

// minScreen returns the smallest screen that fits a frame.
func minScreen(f engine.FrameState) (w, h int) {
	return max(f.Width, len([]rune(scoreLine(f)))), hudRows + f.Height + 2
}
