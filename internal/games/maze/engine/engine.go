// Package engine is the maze simulation: it owns the board, the player, the
// adversaries and the session, and advances them on player and adversary ticks.
//
// An Engine is not safe for concurrent use. The scheduler package runs it on a
// single goroutine and publishes Frame copies to readers.
package engine

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MilleBA/Pac-Man/internal/config"
	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/adversary"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
	"github.com/MilleBA/Pac-Man/internal/games/maze/entity"
	"github.com/MilleBA/Pac-Man/internal/games/maze/levels"
)

// Engine runs one game session over a level pack.
type Engine struct {
	cfg   config.MazeConfig
	speed config.SpeedRange
	pack  *levels.Pack

	stage       *levels.Stage
	board       *board.Board
	player      *entity.Player
	adversaries *adversary.Controller
	session     Session

	clock          time.Duration
	playerTicks    uint64
	adversaryTicks uint64
	stalled        bool // current level is done but the next one failed to load
	events         []Event

	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine on the first level of pack. The seed drives every
// random adversary choice, so equal seeds and inputs give equal games.
func New(pack *levels.Pack, cfg config.MazeConfig, seed int64, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		speed:       config.SpeedRangeOf(cfg.Gameplay),
		pack:        pack,
		player:      entity.NewPlayer(core.Position{}),
		adversaries: adversary.NewController(seed),
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	if _, err := e.loadLevel(1); err != nil {
		return nil, err
	}
	e.session = Session{
		Lives:    cfg.Gameplay.Lives,
		MaxLives: cfg.Gameplay.Lives,
		Level:    1,
		Status:   StatusRunning,
		Speed:    e.speed.Clamp(cfg.Gameplay.InitialSpeed),
	}
	return e, nil
}

// loadLevel swaps in a fresh stage and resets every entity to its spawn.
// On error nothing changes.
func (e *Engine) loadLevel(index int) (*levels.Stage, error) {
	stage, err := e.pack.Load(index)
	var malformed *board.MalformedLevelError
	if errors.As(err, &malformed) {
		e.logger.Warn("level has malformed cells", "level", stage.Level.Name, "issues", len(malformed.Issues), "err", malformed)
	} else if err != nil {
		return nil, err
	}

	e.stage = stage
	e.board = stage.Board
	e.player.Reset(stage.Board.PlayerSpawn())
	e.adversaries.Reset(stage.Spawns)
	e.session.Level = index
	e.stalled = false

	e.logger.Debug("level loaded",
		"pack", e.pack.ID(),
		"level", index,
		"name", stage.Level.Name,
		"size", stage.Board.Width()*stage.Board.Height(),
		"collectibles", stage.Board.TotalCollectibles(),
		"adversaries", len(stage.Spawns))
	return stage, nil
}

// LoadLevel jumps to a 1-based level of the pack, resetting positions.
// Score, lives and speed are kept. A level that fails to load leaves the
// session untouched.
func (e *Engine) LoadLevel(index int) (*board.Board, error) {
	e.clearEvents()
	stage, err := e.loadLevel(index)
	if err != nil {
		return nil, err
	}
	return stage.Board, nil
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

// clearEvents starts a new step. Frames only carry the events of the latest
// tick or command.
func (e *Engine) clearEvents() {
	e.events = e.events[:0]
}

// expire applies every deadline that has passed by now.
func (e *Engine) expire(now time.Duration) {
	calmed, respawned := e.adversaries.Expire(now)
	if calmed {
		e.emit(Event{Kind: EventCalmed, Pos: e.player.Pos})
	}
	for _, id := range respawned {
		for _, a := range e.adversaries.Snapshot() {
			if a.ID == id {
				e.emit(Event{Kind: EventRespawned, Pos: a.Pos, Adversary: id.String()})
			}
		}
	}
}

// PlayerTick advances the player one step at simulation time now and resolves
// walls, items, adversaries and level completion. It does nothing unless the
// session is running.
func (e *Engine) PlayerTick(now time.Duration) {
	e.clearEvents()
	if e.session.Status != StatusRunning {
		return
	}
	e.clock = now
	e.playerTicks++
	e.expire(now)

	if e.player.Step(e.board) == entity.Blocked {
		e.reduceLife(now)
	}
	if e.session.Status != StatusRunning {
		return
	}

	e.collect(now)
	e.resolvePlayerCell(now)
	if e.session.Status != StatusRunning || e.stalled {
		return
	}

	if e.levelComplete() {
		e.advance()
	}
}

// AdversaryTick moves every active adversary one step at simulation time now.
// An adversary landing on the player is resolved right after its own move.
func (e *Engine) AdversaryTick(now time.Duration) {
	e.clearEvents()
	if e.session.Status != StatusRunning {
		return
	}
	e.clock = now
	e.adversaryTicks++
	e.expire(now)

	for i := range e.adversaries.Len() {
		if e.adversaries.Move(i, e.board) != entity.Moved {
			continue
		}
		if e.adversaries.At(i).Pos == e.player.Pos {
			e.meet(i, now)
			if e.session.Status != StatusRunning {
				return
			}
		}
	}
}

// SetPlayerDirection turns the player if the next cell that way is open.
// Input is ignored unless the session is running.
func (e *Engine) SetPlayerDirection(dir core.Direction) bool {
	e.clearEvents()
	if e.session.Status != StatusRunning {
		return false
	}
	return e.player.SetDirection(dir, e.board)
}

// Pause stops the session; ticks are ignored until Resume.
func (e *Engine) Pause() bool {
	e.clearEvents()
	if e.session.Status != StatusRunning {
		return false
	}
	e.session.Status = StatusPaused
	return true
}

// Resume continues a paused session.
func (e *Engine) Resume() bool {
	e.clearEvents()
	if e.session.Status != StatusPaused {
		return false
	}
	e.session.Status = StatusRunning
	return true
}

// TogglePause switches between running and paused.
func (e *Engine) TogglePause() bool {
	if e.session.Status == StatusPaused {
		return e.Resume()
	}
	return e.Pause()
}

// Restart begins a new game on the first level from any status. The high
// score survives; score, lives and speed go back to their initial values.
func (e *Engine) Restart() error {
	e.clearEvents()
	if _, err := e.loadLevel(1); err != nil {
		return err
	}
	e.session.recordHigh()
	e.session.Score = 0
	e.session.Lives = e.session.MaxLives
	e.session.Status = StatusRunning
	e.session.Speed = e.speed.Clamp(e.cfg.Gameplay.InitialSpeed)
	e.emit(Event{Kind: EventRestarted, Pos: e.player.Pos, Level: 1})
	e.logger.Info("restart", "high_score", e.session.HighScore)
	return nil
}

// IncreaseSpeed raises the speed rate by one step and returns the new rate.
func (e *Engine) IncreaseSpeed() float64 {
	e.clearEvents()
	e.session.Speed = e.speed.Up(e.session.Speed)
	return e.session.Speed
}

// DecreaseSpeed lowers the speed rate by one step and returns the new rate.
func (e *Engine) DecreaseSpeed() float64 {
	e.clearEvents()
	e.session.Speed = e.speed.Down(e.session.Speed)
	return e.session.Speed
}

// Intervals returns the current player and adversary tick periods.
func (e *Engine) Intervals() (player, adv time.Duration) {
	rate := e.session.Speed
	player = time.Duration(float64(e.cfg.Timing.PlayerTick) / rate)
	adv = time.Duration(float64(e.cfg.Timing.AdversaryTick) / rate)
	return player, adv
}

// Status returns the session status.
func (e *Engine) Status() Status { return e.session.Status }

// Session returns a copy of the score and lives state.
func (e *Engine) Session() Session { return e.session }

// Pack returns the level pack being played.
func (e *Engine) Pack() *levels.Pack { return e.pack }

// Board returns the live board. Callers must be on the engine's goroutine and
// must not mutate it.
func (e *Engine) Board() *board.Board { return e.board }

// PlayerPosition returns the player's cell.
func (e *Engine) PlayerPosition() core.Position { return e.player.Pos }

// Threats returns the cells of adversaries that would cost a life on contact.
func (e *Engine) Threats() []core.Position {
	var out []core.Position
	for _, a := range e.adversaries.Snapshot() {
		if a.Mode == adversary.Patrol {
			out = append(out, a.Pos)
		}
	}
	return out
}

// Frame builds an immutable copy of the current state.
func (e *Engine) Frame() FrameState {
	advs := e.adversaries.Snapshot()
	states := make([]AdversaryState, len(advs))
	for i, a := range advs {
		states[i] = AdversaryState{ID: a.ID, Pos: a.Pos, Dir: a.Dir, Mode: a.Mode, Home: a.Home}
	}

	var events []Event
	if len(e.events) > 0 {
		events = make([]Event, len(e.events))
		copy(events, e.events)
	}

	var left time.Duration
	if e.adversaries.Frightened() {
		left = max(e.adversaries.FrightenedUntil()-e.clock, 0)
	}

	return FrameState{
		Pack:      e.pack.ID(),
		LevelName: e.stage.Level.Name,
		Level:     e.session.Level,
		Levels:    e.pack.LevelCount(),

		Status:    e.session.Status,
		Score:     e.session.Score,
		HighScore: max(e.session.HighScore, e.session.Score),
		Lives:     e.session.Lives,
		MaxLives:  e.session.MaxLives,
		Speed:     e.session.Speed,

		Remaining: e.board.Remaining(),
		Total:     e.board.TotalCollectibles(),

		Frightened:     e.adversaries.Frightened(),
		FrightenedLeft: left,

		Player: PlayerState{
			Pos:          e.player.Pos,
			Dir:          e.player.Dir,
			Invulnerable: e.player.Invulnerable(e.clock),
		},
		Adversaries: states,

		Width:  e.board.Width(),
		Height: e.board.Height(),
		Grid:   gridRows(e.board),

		Clock:          e.clock,
		PlayerTicks:    e.playerTicks,
		AdversaryTicks: e.adversaryTicks,

		Events: events,
	}
}

func gridRows(b *board.Board) []string {
	cells := b.Cells()
	rows := make([]string, len(cells))
	buf := make([]rune, 0, b.Width())
	for r, row := range cells {
		buf = buf[:0]
		for _, c := range row {
			buf = append(buf, board.EncodeCell(c))
		}
		rows[r] = string(buf)
	}
	return rows
}
