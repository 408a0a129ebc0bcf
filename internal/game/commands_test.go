package game

import (
	"testing"

	"github.com/vovakirdan/tui-skirmish/internal/config"
	"github.com/vovakirdan/tui-skirmish/internal/core"
)

// newTestState builds a fresh match with the default ruleset.
func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := New(config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// placeUnit drops a unit straight into the store, bypassing build rules, so
// tests can set up arbitrary positions.
func placeUnit(t *testing.T, s *State, typ UnitType, owner PlayerID, pos core.Position) UnitID {
	t.Helper()
	if _, taken := s.occupied[pos]; taken {
		t.Fatalf("test setup: %v already occupied", pos)
	}
	s.nextUnitID++
	u := &Unit{
		ID:               s.nextUnitID,
		Type:             typ,
		Owner:            owner,
		Position:         pos,
		Health:           s.stats(typ).MaxHealth,
		ActionsRemaining: s.cfg.Economy.UnitActionsPerTurn,
	}
	s.units[u.ID] = u
	s.occupied[pos] = u
	return u.ID
}

func setPhase(s *State, player PlayerID, phase Phase) {
	s.turn.CurrentPlayer = player
	s.turn.Phase = phase
}

func TestMoveUnitWithinRange(t *testing.T) {
	s := newTestState(t)
	scout := placeUnit(t, s, UnitScout, Player1, core.Pos(10, 10))
	setPhase(s, Player1, PhaseAction)

	if err := s.MoveUnit(scout, core.Pos(14, 10)); err != nil {
		t.Fatalf("move distance 4 with range 4 should succeed: %v", err)
	}

	u, _ := s.Unit(scout)
	if u.Position != core.Pos(14, 10) {
		t.Errorf("unit at %v, want (14, 10)", u.Position)
	}
	if !u.HasMoved {
		t.Error("HasMoved should be set after a move")
	}
	if _, occupied := s.EntityAt(10, 10); occupied {
		t.Error("origin cell should be empty after the move")
	}
}

func TestMoveUnitFailures(t *testing.T) {
	tests := []struct {
		name   string
		typ    UnitType
		from   core.Position
		to     core.Position
		reason Reason
	}{
		{"beyond range", UnitWorker, core.Pos(10, 10), core.Pos(13, 10), ReasonInvalidMove},
		{"heavy beyond range", UnitHeavy, core.Pos(10, 10), core.Pos(10, 12), ReasonInvalidMove},
		{"off grid", UnitScout, core.Pos(0, 0), core.Pos(-1, 0), ReasonInvalidMove},
		{"same cell", UnitWorker, core.Pos(10, 10), core.Pos(10, 10), ReasonInvalidMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t)
			id := placeUnit(t, s, tt.typ, Player1, tt.from)
			setPhase(s, Player1, PhaseAction)

			err := s.MoveUnit(id, tt.to)
			if err == nil {
				t.Fatal("expected move to fail")
			}
			if got := ReasonOf(err); got != tt.reason {
				t.Errorf("reason = %s, want %s", got, tt.reason)
			}
			u, _ := s.Unit(id)
			if u.Position != tt.from {
				t.Errorf("failed move must not change position, unit at %v", u.Position)
			}
		})
	}
}

func TestMoveUnitOnlyOncePerTurn(t *testing.T) {
	s := newTestState(t)
	scout := placeUnit(t, s, UnitScout, Player1, core.Pos(10, 10))
	setPhase(s, Player1, PhaseAction)

	if err := s.MoveUnit(scout, core.Pos(14, 10)); err != nil {
		t.Fatalf("first move: %v", err)
	}
	err := s.MoveUnit(scout, core.Pos(14, 11))
	if ReasonOf(err) != ReasonInvalidMove {
		t.Errorf("second move in one turn should fail with invalid_move, got %v", err)
	}

	// The flag clears when the owner's next turn begins.
	s.BeginTurn()
	setPhase(s, Player1, PhaseAction)
	if err := s.MoveUnit(scout, core.Pos(14, 11)); err != nil {
		t.Errorf("move on a fresh turn should succeed: %v", err)
	}
}

func TestMoveOntoOccupiedCell(t *testing.T) {
	s := newTestState(t)
	a := placeUnit(t, s, UnitWorker, Player1, core.Pos(10, 10))
	placeUnit(t, s, UnitWorker, Player1, core.Pos(11, 10))
	setPhase(s, Player1, PhaseAction)

	err := s.MoveUnit(a, core.Pos(11, 10))
	if ReasonOf(err) != ReasonInvalidMove {
		t.Errorf("moving onto an occupied cell should fail, got %v", err)
	}
}

func TestMoveRequiresActionPhase(t *testing.T) {
	s := newTestState(t)
	id := placeUnit(t, s, UnitWorker, Player1, core.Pos(10, 10))
	setPhase(s, Player1, PhaseResource)

	err := s.MoveUnit(id, core.Pos(11, 10))
	if ReasonOf(err) != ReasonWrongPhase {
		t.Errorf("move outside action phase should fail with wrong_phase, got %v", err)
	}
}

func TestMoveConsumesPlayerAction(t *testing.T) {
	s := newTestState(t)
	id := placeUnit(t, s, UnitWorker, Player1, core.Pos(10, 10))
	setPhase(s, Player1, PhaseAction)

	before, _ := s.Player(Player1)
	if err := s.MoveUnit(id, core.Pos(11, 10)); err != nil {
		t.Fatalf("move: %v", err)
	}
	after, _ := s.Player(Player1)
	if after.ActionsRemaining != before.ActionsRemaining-1 {
		t.Errorf("actions %d -> %d, want exactly one consumed",
			before.ActionsRemaining, after.ActionsRemaining)
	}
}

func TestValidMovePositions(t *testing.T) {
	s := newTestState(t)
	worker := placeUnit(t, s, UnitWorker, Player1, core.Pos(10, 10))
	blocker := placeUnit(t, s, UnitWorker, Player1, core.Pos(11, 10))
	_ = blocker

	moves, err := s.ValidMovePositions(worker)
	if err != nil {
		t.Fatalf("ValidMovePositions: %v", err)
	}

	seen := make(map[core.Position]int)
	for _, m := range moves {
		seen[m.Pos] = m.Cost
	}
	if _, ok := seen[core.Pos(11, 10)]; ok {
		t.Error("occupied cell listed as a valid move")
	}
	if _, ok := seen[core.Pos(10, 10)]; ok {
		t.Error("current cell listed as a valid move")
	}
	if cost, ok := seen[core.Pos(12, 10)]; !ok || cost != 2 {
		t.Errorf("(12, 10) cost = %d (present=%v), want 2", cost, ok)
	}
	if cost, ok := seen[core.Pos(11, 11)]; !ok || cost != 2 {
		t.Errorf("(11, 11) cost = %d (present=%v), want 2", cost, ok)
	}
	for p, cost := range seen {
		if cost > s.stats(UnitWorker).MoveRange {
			t.Errorf("cell %v beyond worker range with cost %d", p, cost)
		}
	}
}

func TestAttackAdjacentEnemy(t *testing.T) {
	s := newTestState(t)
	attacker := placeUnit(t, s, UnitInfantry, Player1, core.Pos(10, 10))
	victim := placeUnit(t, s, UnitScout, Player2, core.Pos(11, 11)) // diagonal
	setPhase(s, Player1, PhaseAction)

	res, err := s.AttackUnit(attacker, core.Pos(11, 11))
	if err != nil {
		t.Fatalf("diagonal attack should succeed: %v", err)
	}
	if res.Damage != 20 {
		t.Errorf("infantry damage = %d, want 20", res.Damage)
	}
	// Scout has 30 HP; 20 damage leaves it alive.
	if res.Destroyed {
		t.Error("scout should survive one infantry hit")
	}
	u, ok := s.Unit(victim)
	if !ok || u.Health != 10 {
		t.Errorf("victim health = %d (alive=%v), want 10", u.Health, ok)
	}
}

func TestAttackDestroysUnit(t *testing.T) {
	s := newTestState(t)
	attacker := placeUnit(t, s, UnitHeavy, Player1, core.Pos(10, 10))
	victim := placeUnit(t, s, UnitScout, Player2, core.Pos(10, 11))
	setPhase(s, Player1, PhaseAction)

	var destroyed []UnitID
	s.Events().Subscribe(EventUnitDestroyed, func(ev Event) {
		destroyed = append(destroyed, ev.(UnitDestroyed).Unit)
	})

	res, err := s.AttackUnit(attacker, core.Pos(10, 11))
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if !res.Destroyed {
		t.Error("35 damage should destroy a 30 HP scout")
	}
	if _, alive := s.Unit(victim); alive {
		t.Error("destroyed unit still in the store")
	}
	if _, occupied := s.EntityAt(10, 11); occupied {
		t.Error("destroyed unit still occupies its cell")
	}
	if len(destroyed) != 1 || destroyed[0] != victim {
		t.Errorf("destroyed events = %v, want [%d]", destroyed, victim)
	}
}

func TestAttackFailures(t *testing.T) {
	s := newTestState(t)
	attacker := placeUnit(t, s, UnitInfantry, Player1, core.Pos(10, 10))
	placeUnit(t, s, UnitWorker, Player1, core.Pos(10, 11))
	placeUnit(t, s, UnitScout, Player2, core.Pos(13, 10))
	setPhase(s, Player1, PhaseAction)

	if _, err := s.AttackUnit(attacker, core.Pos(10, 11)); ReasonOf(err) != ReasonInvalidAttack {
		t.Errorf("friendly fire should fail with invalid_attack, got %v", err)
	}
	if _, err := s.AttackUnit(attacker, core.Pos(13, 10)); ReasonOf(err) != ReasonOutOfRange {
		t.Errorf("distant target should fail with out_of_range, got %v", err)
	}
	if _, err := s.AttackUnit(attacker, core.Pos(9, 9)); ReasonOf(err) != ReasonInvalidAttack {
		t.Errorf("empty cell should fail with invalid_attack, got %v", err)
	}
}

func TestAttackDestroysBaseAndEndsGame(t *testing.T) {
	s := newTestState(t)
	basePos := s.cfg.Bases.Player2
	attacker := placeUnit(t, s, UnitInfantry, Player1, core.Pos(basePos.X-1, basePos.Y))
	setPhase(s, Player1, PhaseAction)

	// Wear the base down to 1 HP.
	s.bases[Player2].Health = 1

	var ended []GameEnded
	s.Events().Subscribe(EventGameEnded, func(ev Event) {
		ended = append(ended, ev.(GameEnded))
	})

	res, err := s.AttackUnit(attacker, basePos)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if !res.BaseDestroyed {
		t.Error("base at 1 HP should be destroyed")
	}

	b, _ := s.Base(Player2)
	if !b.IsDestroyed {
		t.Error("base IsDestroyed not set")
	}
	if s.Status() != StatusEnded {
		t.Error("match should end on base destruction")
	}
	winner, reason := s.Outcome()
	if winner != Player1 || reason != EndBaseDestroyed {
		t.Errorf("outcome = %v/%s, want player 1 by base destruction", winner, reason)
	}
	if len(ended) != 1 || ended[0].Winner != Player1 {
		t.Errorf("game ended events = %+v, want one with player 1 as winner", ended)
	}
}

func TestCreateUnit(t *testing.T) {
	s := newTestState(t)
	setPhase(s, Player1, PhaseBuild)
	base := s.cfg.Bases.Player1

	target := core.Pos(base.X+2, base.Y+1)
	u, err := s.CreateUnit(UnitWorker, Player1, target)
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if u.Position != target || u.Health != 50 {
		t.Errorf("unit = %+v, want worker at %v with 50 HP", u, target)
	}
	p, _ := s.Player(Player1)
	if p.Energy != 90 {
		t.Errorf("energy = %d, want 90 after paying 10", p.Energy)
	}
	if p.ActionsRemaining != s.cfg.Economy.ActionsPerTurn-1 {
		t.Errorf("actions = %d, want one consumed", p.ActionsRemaining)
	}
}

func TestCreateUnitOutsidePlacementRadius(t *testing.T) {
	s := newTestState(t)
	setPhase(s, Player1, PhaseBuild)
	base := s.cfg.Bases.Player1

	before, _ := s.Player(Player1)
	_, err := s.CreateUnit(UnitHeavy, Player1, core.Pos(base.X+10, base.Y+10))
	if ReasonOf(err) != ReasonInvalidPlacement {
		t.Fatalf("distance 10 with radius 3 should fail with invalid_placement, got %v", err)
	}
	after, _ := s.Player(Player1)
	if after.Energy != before.Energy {
		t.Errorf("energy changed on failed build: %d -> %d", before.Energy, after.Energy)
	}
	if after.ActionsRemaining != before.ActionsRemaining {
		t.Error("actions consumed on failed build")
	}
}

func TestCreateUnitInsufficientEnergy(t *testing.T) {
	s := newTestState(t)
	setPhase(s, Player1, PhaseBuild)
	s.players[Player1].Energy = 5

	_, err := s.CreateUnit(UnitWorker, Player1, core.Pos(s.cfg.Bases.Player1.X+1, s.cfg.Bases.Player1.Y))
	if ReasonOf(err) != ReasonInvalidPlacement {
		t.Errorf("unaffordable unit should fail with invalid_placement, got %v", err)
	}
}

func TestCreateUnitWrongPhase(t *testing.T) {
	s := newTestState(t)
	setPhase(s, Player1, PhaseAction)

	_, err := s.CreateUnit(UnitWorker, Player1, core.Pos(s.cfg.Bases.Player1.X+1, s.cfg.Bases.Player1.Y))
	if ReasonOf(err) != ReasonWrongPhase {
		t.Errorf("building outside the build phase should fail with wrong_phase, got %v", err)
	}
}

func TestPlacementRadiusWidensWhenFull(t *testing.T) {
	s := newTestState(t)
	setPhase(s, Player1, PhaseBuild)
	base := s.cfg.Bases.Player1
	r := s.cfg.Bases.PlacementRadius

	// Fill every empty cell within the normal radius.
	for y := base.Y - r; y <= base.Y+r; y++ {
		for x := base.X - r; x <= base.X+r; x++ {
			p := core.Pos(x, y)
			if !s.grid.Contains(p) {
				continue
			}
			if _, taken := s.occupied[p]; taken {
				continue
			}
			placeUnit(t, s, UnitWorker, Player1, p)
		}
	}

	// Radius 4 is normally out of reach but allowed when radius 3 is full.
	target := core.Pos(base.X+4, base.Y+1)
	if _, err := s.CreateUnit(UnitWorker, Player1, target); err != nil {
		t.Fatalf("extended-radius placement should succeed when inner radius full: %v", err)
	}

	// Radius 6 exceeds even the extended maximum.
	if _, err := s.CreateUnit(UnitWorker, Player1, core.Pos(base.X+6, base.Y)); ReasonOf(err) != ReasonInvalidPlacement {
		t.Error("placement beyond the extended radius should still fail")
	}
}

func TestFindPlacementScansDeterministically(t *testing.T) {
	s := newTestState(t)
	base := s.cfg.Bases.Player1

	p1, ok := s.FindPlacement(Player1)
	if !ok {
		t.Fatal("expected an open placement cell")
	}
	// First ring, row-major: top-left neighbor first.
	want := core.Pos(base.X-1, base.Y-1)
	if p1 != want {
		t.Errorf("first placement = %v, want %v", p1, want)
	}

	// Occupy it and the scan should return the next ring cell.
	placeUnit(t, s, UnitWorker, Player1, p1)
	p2, ok := s.FindPlacement(Player1)
	if !ok || p2 == p1 {
		t.Errorf("second placement = %v (ok=%v), want a different open cell", p2, ok)
	}
}

func TestOccupancyInvariant(t *testing.T) {
	s := newTestState(t)
	setPhase(s, Player1, PhaseBuild)

	// Drive a mixed command sequence, then verify no two entities share a
	// cell.
	if _, err := s.CreateUnit(UnitWorker, Player1, core.Pos(3, 11)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateUnit(UnitScout, Player1, core.Pos(3, 13)); err != nil {
		t.Fatalf("create: %v", err)
	}
	setPhase(s, Player1, PhaseAction)
	units := s.PlayerUnits(Player1)
	if err := s.MoveUnit(units[0].ID, core.Pos(4, 11)); err != nil {
		t.Fatalf("move: %v", err)
	}

	cells := make(map[core.Position]bool)
	for _, u := range s.Units() {
		if cells[u.Position] {
			t.Fatalf("two entities at %v", u.Position)
		}
		cells[u.Position] = true
	}
	for _, b := range s.Bases() {
		if cells[b.Position] {
			t.Fatalf("base overlaps entity at %v", b.Position)
		}
		cells[b.Position] = true
	}
	for _, n := range s.Nodes() {
		if cells[n.Position] {
			t.Fatalf("node overlaps entity at %v", n.Position)
		}
		cells[n.Position] = true
	}
}

func TestSurrender(t *testing.T) {
	s := newTestState(t)
	placeUnit(t, s, UnitWorker, Player1, core.Pos(10, 10))
	placeUnit(t, s, UnitScout, Player1, core.Pos(11, 10))

	if err := s.Surrender(Player1); err != nil {
		t.Fatalf("surrender: %v", err)
	}
	winner, reason := s.Outcome()
	if winner != Player2 || reason != EndSurrender {
		t.Errorf("outcome = %v/%s, want player 2 by surrender", winner, reason)
	}
	if units := s.PlayerUnits(Player1); len(units) != 0 {
		t.Errorf("surrendering player keeps %d units, want 0", len(units))
	}
}

func TestCommandsRejectedAfterGameEnds(t *testing.T) {
	s := newTestState(t)
	id := placeUnit(t, s, UnitScout, Player1, core.Pos(10, 10))
	setPhase(s, Player1, PhaseAction)

	if err := s.DeclareDraw(); err != nil {
		t.Fatalf("draw: %v", err)
	}

	if err := s.MoveUnit(id, core.Pos(11, 10)); ReasonOf(err) != ReasonGameEnded {
		t.Errorf("move after end = %v, want game_ended", err)
	}
	if _, err := s.AttackUnit(id, core.Pos(11, 10)); ReasonOf(err) != ReasonGameEnded {
		t.Errorf("attack after end = %v, want game_ended", err)
	}
	if _, err := s.CreateUnit(UnitWorker, Player1, core.Pos(3, 12)); ReasonOf(err) != ReasonGameEnded {
		t.Errorf("create after end = %v, want game_ended", err)
	}
	if _, err := s.GatherResources(id); ReasonOf(err) != ReasonGameEnded {
		t.Errorf("gather after end = %v, want game_ended", err)
	}
	if err := s.Surrender(Player1); ReasonOf(err) != ReasonGameEnded {
		t.Errorf("surrender after end = %v, want game_ended", err)
	}

	// State is frozen.
	u, _ := s.Unit(id)
	if u.Position != core.Pos(10, 10) {
		t.Errorf("state mutated after end: unit at %v", u.Position)
	}
}
