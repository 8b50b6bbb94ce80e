package engine

import (
	"time"

	"github.com/MilleBA/Pac-Man/internal/core"
)

// Status is the lifecycle state of a session.
type Status uint8

const (
	StatusRunning Status = iota
	StatusPaused
	StatusGameOver
	StatusVictory
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game_over"
	case StatusVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finished reports whether the session needs a restart to continue.
func (s Status) Finished() bool {
	return s == StatusGameOver || s == StatusVictory
}

// Session is the score, lives and level state. The engine is its only writer.
type Session struct {
	Score     int
	HighScore int // kept for the lifetime of the engine
	Lives     int
	MaxLives  int
	Level     int // 1-based
	Status    Status
	Speed     float64
}

func (s *Session) addScore(points int) {
	s.Score += points
}

func (s *Session) recordHigh() {
	s.HighScore = max(s.HighScore, s.Score)
}

// reduceLife applies a hit unless the player is inside the invulnerability
// window. It returns true when a life was taken. A player with lives left is
// sent back to the spawn cell and keeps the fresh hit window.
func (e *Engine) reduceLife(now time.Duration) bool {
	if !e.player.TryHit(now, e.cfg.Timing.Invulnerability) {
		return false
	}

	e.session.Lives--
	e.emit(Event{Kind: EventHit, Pos: e.player.Pos})

	if e.session.Lives <= 0 {
		e.session.Lives = 0
		e.session.Status = StatusGameOver
		e.session.recordHigh()
		e.emit(Event{Kind: EventGameOver, Pos: e.player.Pos, Points: e.session.Score})
		e.logger.Info("game over", "score", e.session.Score, "level", e.session.Level)
		return true
	}

	e.player.Pos = e.player.Spawn
	e.player.Dir = core.DirNone
	return true
}

// levelComplete reports whether the current level is done: every item eaten,
// or the level checkpoint passed while standing on an exit.
func (e *Engine) levelComplete() bool {
	if e.board.Remaining() == 0 {
		return true
	}
	cp := e.stage.Level.Checkpoint
	if cp <= 0 || e.session.Score <= cp {
		return false
	}
	return len(e.board.Exits()) == 0 || e.board.IsExit(e.player.Pos)
}

// advance moves past a completed level. The final level ends in victory when
// the score is above the pack threshold (or the pack has none) and is replayed
// otherwise.
func (e *Engine) advance() {
	final := e.session.Level >= e.pack.LevelCount()
	threshold := e.pack.VictoryScore()
	if final && (threshold == 0 || e.session.Score > threshold) {
		e.session.Status = StatusVictory
		e.session.recordHigh()
		e.emit(Event{Kind: EventVictory, Pos: e.player.Pos, Points: e.session.Score})
		e.logger.Info("victory", "score", e.session.Score)
		return
	}

	next := e.session.Level + 1
	if final {
		next = e.session.Level
	}
	if _, err := e.loadLevel(next); err != nil {
		e.stalled = true
		e.logger.Error("level change failed", "level", next, "err", err)
		return
	}

	if e.cfg.Gameplay.LevelSpeedup {
		e.session.Speed = e.speed.LevelUp(e.session.Speed)
	}
	e.emit(Event{Kind: EventLevelUp, Pos: e.player.Pos, Level: next})
	e.logger.Info("level up", "level", next, "score", e.session.Score, "speed", e.session.Speed)
}
