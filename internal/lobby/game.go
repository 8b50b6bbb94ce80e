package lobby

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MilleBA/Pac-Man/internal/games/maze/engine"
	"github.com/MilleBA/Pac-Man/internal/scheduler"
	"github.com/MilleBA/Pac-Man/internal/storage"
)

// Game is one hosted session.
type Game struct {
	id      GameID
	player  string
	pack    string
	started time.Time
	runner  *scheduler.Runner
	cancel  func()

	saver  RunSaver
	logger *log.Logger

	// mark is the simulation clock when the current run began. It is only
	// touched on the runner goroutine, or after the runner has stopped.
	mark time.Duration

	stopOnce sync.Once
}

// ID returns the game identifier.
func (g *Game) ID() GameID { return g.id }

// Player returns the player's display name.
func (g *Game) Player() string { return g.player }

// Runner returns the scheduler driving the game.
func (g *Game) Runner() *scheduler.Runner { return g.runner }

// Info summarizes the game from its latest frame.
func (g *Game) Info() Info {
	f := g.runner.Frame()
	return Info{
		ID:      g.id,
		Player:  g.player,
		Pack:    g.pack,
		Started: g.started,
		Level:   f.Level,
		Score:   f.Score,
		Lives:   f.Lives,
		Status:  f.Status,
	}
}

// record journals a run that just reached game over or victory.
func (g *Game) record(f engine.FrameState) {
	outcome := storage.OutcomeGameOver
	if f.Status == engine.StatusVictory {
		outcome = storage.OutcomeVictory
	}
	g.save(f, outcome)
	g.mark = f.Clock
}

// stop cancels the runner, waits for it and journals the run in progress.
func (g *Game) stop() {
	g.stopOnce.Do(func() {
		g.cancel()
		<-g.runner.Done()

		f := g.runner.Frame()
		if !f.Status.Finished() && f.Score > 0 {
			g.save(f, storage.OutcomeQuit)
		}
		g.logger.Info("game ended", "score", f.Score, "level", f.Level)
	})
}

func (g *Game) save(f engine.FrameState, outcome string) {
	if g.saver == nil {
		return
	}
	run := storage.Run{
		PackID:   g.pack,
		Player:   g.player,
		Score:    f.Score,
		Level:    f.Level,
		Outcome:  outcome,
		Duration: f.Clock - g.mark,
	}
	// Best-effort save, the game continues regardless
	if _, err := g.saver.SaveRun(run); err != nil {
		g.logger.Warn("could not journal run", "err", err)
	}
}
