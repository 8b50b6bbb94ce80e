// Package lobby tracks the games a host is running. Each game pairs one engine
// with the scheduler that drives it; SSH sessions, the local terminal and the
// spectator API all find games here, and finished runs are handed to the
// journal.
package lobby

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/MilleBA/Pac-Man/internal/config"
	"github.com/MilleBA/Pac-Man/internal/games/maze/autopilot"
	"github.com/MilleBA/Pac-Man/internal/games/maze/engine"
	"github.com/MilleBA/Pac-Man/internal/games/maze/levels"
	"github.com/MilleBA/Pac-Man/internal/scheduler"
	"github.com/MilleBA/Pac-Man/internal/storage"
)

// GameID uniquely identifies a hosted game.
type GameID string

// RunSaver persists finished runs. *storage.Store satisfies it; a nil saver
// disables the journal.
type RunSaver interface {
	SaveRun(run storage.Run) (int64, error)
}

// Config holds what every game in the lobby is started with.
type Config struct {
	Maze      config.MazeConfig
	Pack      string
	Seed      int64 // 0 = time based, per game
	Autopilot bool
}

// Info describes a running game for listings.
type Info struct {
	ID      GameID        `json:"id"`
	Player  string        `json:"player"`
	Pack    string        `json:"pack"`
	Started time.Time     `json:"started"`
	Level   int           `json:"level"`
	Score   int           `json:"score"`
	Lives   int           `json:"lives"`
	Status  engine.Status `json:"status"`
}

// Lobby is a registry of running games.
// Thread-safe for concurrent access.
type Lobby struct {
	cfg    Config
	saver  RunSaver
	logger *log.Logger

	mu    sync.RWMutex
	games map[GameID]*Game
}

// New creates an empty lobby. saver and logger may be nil.
func New(cfg Config, saver RunSaver, logger *log.Logger) *Lobby {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Lobby{
		cfg:    cfg,
		saver:  saver,
		logger: logger,
		games:  make(map[GameID]*Game),
	}
}

// Start creates a game for player and begins driving it. The game stops when
// ctx is cancelled or End is called.
func (l *Lobby) Start(ctx context.Context, player string) (*Game, error) {
	pack, err := levels.Open(l.cfg.Pack)
	if err != nil {
		return nil, fmt.Errorf("lobby: %w", err)
	}

	seed := l.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	id := GameID(uuid.NewString())
	logger := l.logger.With("game", string(id)[:8], "player", player)

	eng, err := engine.New(pack, l.cfg.Maze, seed, engine.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("lobby: %w", err)
	}

	g := &Game{
		id:      id,
		player:  player,
		pack:    pack.ID(),
		started: time.Now(),
		saver:   l.saver,
		logger:  logger,
	}

	opts := []scheduler.Option{
		scheduler.WithLogger(logger),
		scheduler.WithFinish(g.record),
	}
	if l.cfg.Autopilot {
		opts = append(opts, scheduler.WithPilot(autopilot.Steer))
	}
	g.runner = scheduler.New(eng, opts...)

	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel

	l.mu.Lock()
	l.games[id] = g
	l.mu.Unlock()

	go func() {
		if err := g.runner.Run(runCtx); err != nil {
			logger.Error("runner stopped", "err", err)
		}
	}()

	logger.Info("game started", "pack", g.pack, "seed", seed)
	return g, nil
}

// End stops a game, journals an unfinished run and removes the game.
// Ending an unknown game is a no-op.
func (l *Lobby) End(id GameID) {
	l.mu.Lock()
	g, ok := l.games[id]
	delete(l.games, id)
	l.mu.Unlock()

	if !ok {
		return
	}
	g.stop()
}

// Shutdown ends every game.
func (l *Lobby) Shutdown() {
	l.mu.Lock()
	games := l.games
	l.games = make(map[GameID]*Game)
	l.mu.Unlock()

	for _, g := range games {
		g.stop()
	}
}

// Get retrieves a game by ID.
func (l *Lobby) Get(id GameID) (*Game, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.games[id]
	return g, ok
}

// List returns the running games, oldest first.
func (l *Lobby) List() []Info {
	l.mu.RLock()
	out := make([]Info, 0, len(l.games))
	for _, g := range l.games {
		out = append(out, g.Info())
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Started.Equal(out[j].Started) {
			return out[i].ID < out[j].ID
		}
		return out[i].Started.Before(out[j].Started)
	})
	return out
}

// Count returns the number of running games.
func (l *Lobby) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.games)
}
