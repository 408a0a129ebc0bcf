package turn

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-skirmish/internal/config"
	"github.com/vovakirdan/tui-skirmish/internal/core"
	"github.com/vovakirdan/tui-skirmish/internal/game"
)

// newMatch builds a state plus controller with all timers disabled unless
// the test overrides the timing.
func newMatch(t *testing.T, timing config.TimingConfig) (*game.State, *Controller) {
	t.Helper()
	cfg := config.Default()
	s, err := game.New(cfg)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return s, New(s, timing, nil)
}

func TestStartOpensFirstTurn(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{})

	var kinds []game.EventKind
	s.Events().SubscribeAll(func(ev game.Event) { kinds = append(kinds, ev.Kind()) })

	c.Start()

	turn := s.Turn()
	if turn.Number != 1 || turn.CurrentPlayer != game.Player1 || turn.Phase != game.PhaseResource {
		t.Errorf("turn = %+v, want turn 1, player 1, resource phase", turn)
	}
	if len(kinds) < 2 || kinds[0] != game.EventGameStarted || kinds[1] != game.EventTurnStarted {
		t.Errorf("events = %v, want game start then turn start", kinds)
	}
}

func TestNextPhaseSequence(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{})
	c.Start()

	c.NextPhase()
	if p := s.Turn().Phase; p != game.PhaseAction {
		t.Fatalf("phase = %s, want action", p)
	}
	c.NextPhase()
	if p := s.Turn().Phase; p != game.PhaseBuild {
		t.Fatalf("phase = %s, want build", p)
	}

	// Advancing past build ends the turn and hands off.
	c.NextPhase()
	turn := s.Turn()
	if turn.Number != 2 || turn.CurrentPlayer != game.Player2 {
		t.Errorf("turn = %+v, want turn 2 for player 2", turn)
	}
	if turn.Phase != game.PhaseResource {
		t.Errorf("new turn phase = %s, want resource", turn.Phase)
	}
}

func TestEndTurnIsGuardedAgainstReentry(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{})
	c.Start()

	// A collaborator reacting to the turn ending tries to end it again.
	s.Events().Subscribe(game.EventTurnEnded, func(game.Event) {
		c.ForceEndTurn()
	})

	c.ForceEndTurn()

	turn := s.Turn()
	if turn.Number != 2 {
		t.Errorf("turn number = %d, want 2 (a re-entrant end must not rotate twice)", turn.Number)
	}
	if turn.CurrentPlayer != game.Player2 {
		t.Errorf("current player = %v, want player 2", turn.CurrentPlayer)
	}
}

func TestResourcePhaseAutoAdvances(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{ResourcePhaseMs: 10})
	c.Start()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Turn().Phase == game.PhaseAction {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("phase = %s, resource phase never auto-advanced", s.Turn().Phase)
}

func TestStaleResourceTimerDoesNotFire(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{ResourcePhaseMs: 30})
	c.Start()

	// Manual advance wins the race; the armed timer must become stale.
	c.NextPhase()
	c.NextPhase()
	if p := s.Turn().Phase; p != game.PhaseBuild {
		t.Fatalf("phase = %s, want build", p)
	}

	time.Sleep(80 * time.Millisecond)
	if p := s.Turn().Phase; p != game.PhaseBuild {
		t.Errorf("phase = %s after timer window, stale timer fired", p)
	}
}

func TestActionPhaseAdvancesWhenActionsExhausted(t *testing.T) {
	cfg := config.Default()
	cfg.Economy.ActionsPerTurn = 1
	s, err := game.New(cfg)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	c := New(s, config.TimingConfig{}, nil) // zero grace advances immediately
	c.Start()

	// Turn 1: build a scout with the single action.
	c.NextPhase() // action
	c.NextPhase() // build
	scout, err := s.CreateUnit(game.UnitScout, game.Player1, core.Pos(cfg.Bases.Player1.X+1, cfg.Bases.Player1.Y+1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c.ForceEndTurn() // player 2
	c.ForceEndTurn() // back to player 1

	c.NextPhase() // action
	if err := s.MoveUnit(scout.ID, core.Pos(scout.Position.X+1, scout.Position.Y)); err != nil {
		t.Fatalf("move: %v", err)
	}

	// The move spent the last action; with zero grace the controller
	// advances to the build phase immediately.
	if p := s.Turn().Phase; p != game.PhaseBuild {
		t.Errorf("phase = %s, want build after actions exhausted", p)
	}
}

func TestTurnTimerForcesEnd(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{TurnLimitMs: 10, AutoEndOnTimeout: true})
	c.Start()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Turn().Number >= 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("turn = %d, time limit never forced the turn to end", s.Turn().Number)
}

func TestTurnTimerSurvivesResourceAutoAdvance(t *testing.T) {
	// The resource phase auto-advances well before the turn limit; the
	// limit must still force the turn to end afterwards.
	s, c := newMatch(t, config.TimingConfig{ResourcePhaseMs: 10, TurnLimitMs: 60, AutoEndOnTimeout: true})
	c.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Turn().Number >= 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	turn := s.Turn()
	t.Errorf("stuck at turn %d phase %s, limit never forced the turn to end after the resource phase advanced",
		turn.Number, turn.Phase)
}

func TestTurnTimerSurvivesManualPhaseAdvance(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{TurnLimitMs: 30, AutoEndOnTimeout: true})
	c.Start()

	c.NextPhase() // action

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Turn().Number >= 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("turn = %d, limit never forced the turn to end after a manual phase advance", s.Turn().Number)
}

func TestNoTransitionsAfterGameEnds(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{})
	c.Start()

	if err := s.Surrender(game.Player2); err != nil {
		t.Fatalf("surrender: %v", err)
	}

	before := s.Turn()
	c.NextPhase()
	c.ForceEndTurn()
	if after := s.Turn(); after != before {
		t.Errorf("turn state changed after the match ended: %+v -> %+v", before, after)
	}
}

func TestControllerStopInvalidatesTimers(t *testing.T) {
	s, c := newMatch(t, config.TimingConfig{ResourcePhaseMs: 20})
	c.Start()
	c.Stop()

	time.Sleep(60 * time.Millisecond)
	if p := s.Turn().Phase; p != game.PhaseResource {
		t.Errorf("phase = %s, timer fired after Stop", p)
	}
}
