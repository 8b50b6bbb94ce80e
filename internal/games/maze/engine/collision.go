package engine

import (
	"time"

	"github.com/MilleBA/Pac-Man/internal/games/maze/adversary"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
)

// collect eats whatever lies under the player.
func (e *Engine) collect(now time.Duration) {
	pos := e.player.Pos
	switch e.board.Consume(pos) {
	case board.ConsumedDot:
		e.session.addScore(e.cfg.Scoring.Dot)
		e.emit(Event{Kind: EventDot, Pos: pos, Points: e.cfg.Scoring.Dot})
	case board.ConsumedEnergyDot:
		e.session.addScore(e.cfg.Scoring.EnergyDot)
		e.adversaries.Frighten(now, e.cfg.Timing.Frightened)
		e.emit(Event{Kind: EventEnergized, Pos: pos, Points: e.cfg.Scoring.EnergyDot})
	}
}

// meet resolves the player sharing a cell with the i-th adversary.
func (e *Engine) meet(i int, now time.Duration) {
	a := e.adversaries.At(i)
	switch a.Mode {
	case adversary.Frightened:
		if !e.adversaries.Capture(i, now, e.cfg.Timing.Respawn) {
			return
		}
		e.session.addScore(e.cfg.Scoring.Capture)
		e.session.Lives = e.session.MaxLives
		e.emit(Event{Kind: EventCaptured, Pos: a.Pos, Adversary: a.ID.String(), Points: e.cfg.Scoring.Capture})
	case adversary.Patrol:
		e.reduceLife(now)
	}
}

// resolvePlayerCell handles every adversary standing on the player's cell.
// It stops once a hit has sent the player back to spawn.
func (e *Engine) resolvePlayerCell(now time.Duration) {
	pos := e.player.Pos
	for _, i := range e.adversaries.Occupants(pos) {
		if e.session.Status != StatusRunning || e.player.Pos != pos {
			return
		}
		e.meet(i, now)
	}
}
