// Package scheduler drives an engine in real time. A Runner owns its engine
// on a single goroutine: the player and adversary timers, queued commands and
// cancellation are multiplexed in one select loop, and every change is
// published as an immutable frame that any goroutine may read.
package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/engine"
)

var errAlreadyStarted = errors.New("scheduler: runner already started")

// Command mutates the engine on the runner goroutine.
type Command func(e *engine.Engine)

// Runner schedules ticks and commands for one engine.
type Runner struct {
	eng *engine.Engine

	cmds  chan Command
	frame atomic.Pointer[engine.FrameState]

	pilot    func(e *engine.Engine)
	onFinish func(f engine.FrameState)
	logger   *log.Logger

	// Loop state, touched only inside Run.
	sim      time.Duration
	lastWall time.Time
	armed    bool
	pInt     time.Duration
	aInt     time.Duration
	finished bool

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}

	started  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPilot installs a function called before every player tick, used to
// steer the player without a human.
func WithPilot(fn func(e *engine.Engine)) Option {
	return func(r *Runner) { r.pilot = fn }
}

// WithFinish installs a callback run on the runner goroutine whenever the
// session reaches game over or victory.
func WithFinish(fn func(f engine.FrameState)) Option {
	return func(r *Runner) { r.onFinish = fn }
}

// WithCommandBuffer sets the command queue length.
func WithCommandBuffer(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.cmds = make(chan Command, n)
		}
	}
}

// New wraps an engine. The engine must not be used directly afterwards.
func New(eng *engine.Engine, opts ...Option) *Runner {
	r := &Runner{
		eng:    eng,
		cmds:   make(chan Command, 64),
		logger: log.New(io.Discard),
		subs:   make(map[chan struct{}]struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.finished = eng.Status().Finished()
	r.publish()
	return r
}

// Frame returns the latest published frame.
func (r *Runner) Frame() engine.FrameState {
	return *r.frame.Load()
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Send queues a command. It never blocks: commands are dropped when the queue
// is full or the runner has stopped.
func (r *Runner) Send(cmd Command) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.cmds <- cmd:
		return true
	default:
		return false
	}
}

// SetDirection queues a player turn.
func (r *Runner) SetDirection(d core.Direction) bool {
	return r.Send(func(e *engine.Engine) { e.SetPlayerDirection(d) })
}

// Apply queues the engine command for a player action. Quit and None are not
// engine commands and return false.
func (r *Runner) Apply(a core.Action) bool {
	if d, ok := a.Direction(); ok {
		return r.SetDirection(d)
	}
	switch a {
	case core.ActionPause:
		return r.Send(func(e *engine.Engine) { e.TogglePause() })
	case core.ActionResume:
		return r.Send(func(e *engine.Engine) { e.Resume() })
	case core.ActionRestart:
		return r.Send(func(e *engine.Engine) {
			if err := e.Restart(); err != nil {
				r.logger.Error("restart failed", "err", err)
			}
		})
	case core.ActionFaster:
		return r.Send(func(e *engine.Engine) { e.IncreaseSpeed() })
	case core.ActionSlower:
		return r.Send(func(e *engine.Engine) { e.DecreaseSpeed() })
	default:
		return false
	}
}

// Subscribe returns a channel that receives a signal after every published
// frame. Signals coalesce; read Frame for the data. Call cancel to unsubscribe.
func (r *Runner) Subscribe() (updates <-chan struct{}, cancel func()) {
	ch := make(chan struct{}, 1)
	r.subMu.Lock()
	r.subs[ch] = struct{}{}
	r.subMu.Unlock()

	return ch, func() {
		r.subMu.Lock()
		delete(r.subs, ch)
		r.subMu.Unlock()
	}
}

// Run drives the engine until ctx is cancelled. It returns nil on
// cancellation; a Runner can only run once.
func (r *Runner) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return errAlreadyStarted
	}
	defer r.doneOnce.Do(func() { close(r.done) })

	playerT := time.NewTimer(time.Hour)
	advT := time.NewTimer(time.Hour)
	playerT.Stop()
	advT.Stop()
	defer playerT.Stop()
	defer advT.Stop()

	r.lastWall = time.Now()
	r.sync(playerT, advT)

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-playerT.C:
			r.advanceClock(now)
			if r.pilot != nil {
				r.pilot(r.eng)
			}
			r.eng.PlayerTick(r.sim)
			playerT.Reset(r.pInt)
			r.after(playerT, advT)

		case now := <-advT.C:
			r.advanceClock(now)
			r.eng.AdversaryTick(r.sim)
			advT.Reset(r.aInt)
			r.after(playerT, advT)

		case cmd := <-r.cmds:
			r.advanceClock(time.Now())
			cmd(r.eng)
			r.after(playerT, advT)
		}
	}
}

// advanceClock moves simulation time forward by the wall time elapsed while
// the session was running. Paused and finished time does not count.
func (r *Runner) advanceClock(now time.Time) {
	if r.eng.Status() == engine.StatusRunning && now.After(r.lastWall) {
		r.sim += now.Sub(r.lastWall)
	}
	r.lastWall = now
}

func (r *Runner) after(playerT, advT *time.Timer) {
	r.sync(playerT, advT)
	r.publish()

	finished := r.eng.Status().Finished()
	if finished && !r.finished && r.onFinish != nil {
		r.onFinish(r.Frame())
	}
	r.finished = finished
}

// sync arms the timers while the session runs, stops them otherwise, and
// re-arms them with full intervals when the speed changed.
func (r *Runner) sync(playerT, advT *time.Timer) {
	running := r.eng.Status() == engine.StatusRunning
	pInt, aInt := r.eng.Intervals()

	switch {
	case !running:
		if r.armed {
			playerT.Stop()
			advT.Stop()
			r.armed = false
		}
	case !r.armed || pInt != r.pInt || aInt != r.aInt:
		playerT.Reset(pInt)
		advT.Reset(aInt)
		r.armed = true
	}
	r.pInt, r.aInt = pInt, aInt
}

func (r *Runner) publish() {
	f := r.eng.Frame()
	r.frame.Store(&f)

	r.subMu.Lock()
	for ch := range r.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	r.subMu.Unlock()
}
