package game

import (
	"testing"

	"github.com/vovakirdan/tui-skirmish/internal/core"
)

func TestTurnRotation(t *testing.T) {
	s := newTestState(t)

	if turn := s.Turn(); turn.Number != 1 || turn.CurrentPlayer != Player1 {
		t.Fatalf("initial turn = %+v, want turn 1 for player 1", turn)
	}

	if ended := s.FinishTurn(); ended {
		t.Fatal("turn 1 should not end the match")
	}
	s.BeginTurn()

	turn := s.Turn()
	if turn.Number != 2 || turn.CurrentPlayer != Player2 {
		t.Errorf("turn = %+v, want turn 2 for player 2", turn)
	}
	if turn.Phase != PhaseResource {
		t.Errorf("new turn phase = %s, want resource", turn.Phase)
	}
}

func TestBeginTurnResetsPlayerAndUnits(t *testing.T) {
	s := newTestState(t)
	id := placeUnit(t, s, UnitScout, Player1, core.Pos(10, 10))
	setPhase(s, Player1, PhaseAction)

	if err := s.MoveUnit(id, core.Pos(12, 10)); err != nil {
		t.Fatalf("move: %v", err)
	}

	// Hand off to player 2 and back.
	s.FinishTurn()
	s.BeginTurn()
	s.FinishTurn()
	s.BeginTurn()

	u, _ := s.Unit(id)
	if u.HasMoved {
		t.Error("HasMoved not reset at turn start")
	}
	if u.ActionsRemaining != s.cfg.Economy.UnitActionsPerTurn {
		t.Errorf("unit actions = %d, want %d", u.ActionsRemaining, s.cfg.Economy.UnitActionsPerTurn)
	}
	p, _ := s.Player(Player1)
	if p.ActionsRemaining != s.cfg.Economy.ActionsPerTurn {
		t.Errorf("player actions = %d, want %d", p.ActionsRemaining, s.cfg.Economy.ActionsPerTurn)
	}
}

func TestResourceVictoryAtTurnEnd(t *testing.T) {
	s := newTestState(t)
	s.players[Player1].ResourcesGathered = s.cfg.Victory.ResourceThreshold

	var ended []GameEnded
	s.Events().Subscribe(EventGameEnded, func(ev Event) {
		ended = append(ended, ev.(GameEnded))
	})

	if finished := s.FinishTurn(); !finished {
		t.Fatal("reaching the resource threshold should end the match at turn end")
	}
	winner, reason := s.Outcome()
	if winner != Player1 || reason != EndResourceThreshold {
		t.Errorf("outcome = %v/%s, want player 1 by resource threshold", winner, reason)
	}
	if len(ended) != 1 {
		t.Errorf("game ended events = %d, want 1", len(ended))
	}

	// Further turn transitions are no-ops.
	if !s.FinishTurn() {
		t.Error("FinishTurn after the match ends should report ended")
	}
	if turn := s.Turn(); turn.Number != 1 {
		t.Errorf("turn advanced after end: %d", turn.Number)
	}
}

func TestRegenerationRunsOncePerFullCycle(t *testing.T) {
	s := newTestState(t)
	s.nodes[1].Value = 50

	regens := 0
	s.Events().Subscribe(EventNodeRegenerated, func(Event) { regens++ })

	// Player 1 -> player 2: no wrap, no regen.
	s.FinishTurn()
	s.BeginTurn()
	if regens != 0 {
		t.Fatalf("regen fired on mid-cycle hand-off: %d events", regens)
	}

	// Player 2 -> player 1: cycle complete, one regen tick.
	s.FinishTurn()
	s.BeginTurn()
	if regens == 0 {
		t.Fatal("regen did not fire when the rotation wrapped")
	}
	if s.nodes[1].Value != 60 {
		t.Errorf("node 1 value = %d, want 60 after one tick", s.nodes[1].Value)
	}
}

func TestEventOrderMatchesMutationOrder(t *testing.T) {
	s := newTestState(t)
	attacker := placeUnit(t, s, UnitHeavy, Player1, core.Pos(10, 10))
	placeUnit(t, s, UnitScout, Player2, core.Pos(10, 11))
	setPhase(s, Player1, PhaseAction)

	var kinds []EventKind
	s.Events().SubscribeAll(func(ev Event) { kinds = append(kinds, ev.Kind()) })

	if _, err := s.AttackUnit(attacker, core.Pos(10, 11)); err != nil {
		t.Fatalf("attack: %v", err)
	}

	want := []EventKind{EventUnitAttacked, EventUnitDestroyed}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
}

func TestHandlersMayIssueCommands(t *testing.T) {
	// Events dispatch after the mutation commits, so a handler reacting to
	// a move may immediately query or command the store.
	s := newTestState(t)
	id := placeUnit(t, s, UnitScout, Player1, core.Pos(10, 10))
	setPhase(s, Player1, PhaseAction)

	var movesSeen []MovePosition
	s.Events().Subscribe(EventUnitMoved, func(ev Event) {
		moves, err := s.ValidMovePositions(ev.(UnitMoved).Unit)
		if err != nil {
			t.Errorf("query from handler: %v", err)
		}
		movesSeen = moves
	})

	if err := s.MoveUnit(id, core.Pos(12, 10)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(movesSeen) == 0 {
		t.Error("handler saw no valid moves for the moved unit")
	}
}
