// Package turn drives the phase state machine of a skirmish match:
// resource -> action -> build -> end of turn, with timer-driven
// auto-advance. The controller owns no entities; it sequences transitions
// on the state store and gates re-entrant turn hand-offs.
package turn

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-skirmish/internal/config"
	"github.com/vovakirdan/tui-skirmish/internal/game"
)

// Controller sequences phases and turns on a state store.
//
// Every scheduled callback captures the generation token current at arming
// time and re-checks it under the lock before acting, so a timer that
// lost the race against a manual transition quietly does nothing. Tokens
// are never reused; raw timer handles are never relied on for
// cancellation.
//
// Phase timers and the whole-turn limit live on separate tokens: phase
// transitions within a turn must not invalidate the turn limit, which only
// an actual turn hand-off (or Stop) supersedes.
type Controller struct {
	state  *game.State
	timing config.TimingConfig
	logger *log.Logger

	mu             sync.Mutex
	generation     uint64
	turnGeneration uint64
	processing     bool
	stopped        bool
}

// New creates a controller for the given match.
func New(state *game.State, timing config.TimingConfig, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{
		state:  state,
		timing: timing,
		logger: logger,
	}

	// Watch action consumption so the action phase can auto-advance once
	// the player runs out of actions.
	for _, kind := range []game.EventKind{
		game.EventUnitMoved,
		game.EventUnitAttacked,
		game.EventUnitCreated,
		game.EventResourcesGathered,
	} {
		state.Events().Subscribe(kind, func(game.Event) { c.maybeAdvanceExhausted() })
	}

	return c
}

// Start begins the match: announces it, opens player 1's first turn, and
// arms the phase timers.
func (c *Controller) Start() {
	c.state.Start()

	c.mu.Lock()
	gen := c.bumpLocked()
	turnGen := c.bumpTurnLocked()
	c.mu.Unlock()

	c.armResourceTimer(gen)
	c.armTurnTimer(turnGen)
}

// Stop invalidates all pending timers. The match state is untouched.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.bumpLocked()
	c.bumpTurnLocked()
}

// bumpLocked advances the phase generation token, invalidating every phase
// timer armed against an earlier value. Callers hold c.mu.
func (c *Controller) bumpLocked() uint64 {
	c.generation++
	return c.generation
}

// bumpTurnLocked advances the turn generation token, invalidating a pending
// turn limit timer. Callers hold c.mu.
func (c *Controller) bumpTurnLocked() uint64 {
	c.turnGeneration++
	return c.turnGeneration
}

// current reports whether a captured phase token is still live.
func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped && gen == c.generation
}

// turnCurrent reports whether a captured turn token is still live.
func (c *Controller) turnCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped && gen == c.turnGeneration
}

// NextPhase advances to the next phase in order; advancing past the build
// phase ends the turn.
func (c *Controller) NextPhase() {
	if c.state.Status() == game.StatusEnded {
		return
	}

	c.mu.Lock()
	c.bumpLocked()
	c.mu.Unlock()

	switch c.state.Turn().Phase {
	case game.PhaseResource:
		c.state.SetPhase(game.PhaseAction)
		c.maybeAdvanceExhausted()
	case game.PhaseAction:
		c.state.SetPhase(game.PhaseBuild)
	case game.PhaseBuild:
		c.EndTurn()
	}
}

// EndTurn closes the current turn and opens the next one. Guarded against
// re-entrant double invocation: a second call while one is in flight, or a
// stale timer firing after a manual end, does nothing.
func (c *Controller) EndTurn() {
	c.mu.Lock()
	if c.processing || c.stopped {
		c.mu.Unlock()
		return
	}
	c.processing = true
	c.bumpLocked()
	c.bumpTurnLocked()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.processing = false
		c.mu.Unlock()
	}()

	if ended := c.state.FinishTurn(); ended {
		return
	}
	c.state.BeginTurn()

	c.mu.Lock()
	gen := c.bumpLocked()
	turnGen := c.bumpTurnLocked()
	c.mu.Unlock()

	c.armResourceTimer(gen)
	c.armTurnTimer(turnGen)
}

// ForceEndTurn ends the turn regardless of the current phase.
func (c *Controller) ForceEndTurn() {
	c.EndTurn()
}

// armResourceTimer schedules the automatic resource -> action advance.
func (c *Controller) armResourceTimer(gen uint64) {
	d := c.timing.ResourcePhase()
	if d <= 0 {
		return
	}
	time.AfterFunc(d, func() {
		if !c.current(gen) {
			c.logger.Debug("resource phase timer superseded", "generation", gen)
			return
		}
		if c.state.Turn().Phase != game.PhaseResource {
			return
		}
		c.NextPhase()
	})
}

// armTurnTimer schedules the optional whole-turn time limit.
func (c *Controller) armTurnTimer(gen uint64) {
	if !c.timing.AutoEndOnTimeout {
		return
	}
	d := c.timing.TurnLimit()
	if d <= 0 {
		return
	}
	turn := c.state.Turn().Number
	time.AfterFunc(d, func() {
		if !c.turnCurrent(gen) {
			c.logger.Debug("turn timer superseded", "generation", gen)
			return
		}
		c.logger.Info("turn time limit reached", "turn", turn)
		c.EndTurn()
	})
}

// maybeAdvanceExhausted arms the short grace delay that moves an
// out-of-actions player from the action phase to the build phase.
func (c *Controller) maybeAdvanceExhausted() {
	t := c.state.Turn()
	if t.Phase != game.PhaseAction {
		return
	}
	p, ok := c.state.Player(t.CurrentPlayer)
	if !ok || p.ActionsRemaining > 0 {
		return
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	d := c.timing.ActionGrace()
	if d <= 0 {
		c.NextPhase()
		return
	}
	time.AfterFunc(d, func() {
		if !c.current(gen) {
			return
		}
		if c.state.Turn().Phase != game.PhaseAction {
			return
		}
		c.NextPhase()
	})
}
