package game

import (
	"sort"

	"github.com/vovakirdan/tui-skirmish/internal/core"
)

// CreateUnit builds a new unit for a player during the build phase. The
// target cell must normally lie within the placement radius of the owner's
// base; when every cell inside that radius is taken, the allowed radius
// widens to the configured maximum. On success the unit cost is deducted,
// one player action is consumed, and a UnitCreated event fires.
func (s *State) CreateUnit(t UnitType, owner PlayerID, target core.Position) (Unit, error) {
	s.mu.Lock()
	u, err := s.createUnit(t, owner, target)
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return u, err
}

func (s *State) createUnit(t UnitType, owner PlayerID, target core.Position) (Unit, error) {
	if s.status == StatusEnded {
		return Unit{}, ruleErr(ReasonGameEnded, "the match is over")
	}
	if s.turn.CurrentPlayer != owner {
		return Unit{}, ruleErr(ReasonWrongPhase, "not player %d's turn", owner)
	}
	if s.turn.Phase != PhaseBuild {
		return Unit{}, ruleErr(ReasonWrongPhase, "units are built during the build phase")
	}

	stats, ok := s.cfg.Units[string(t)]
	if !ok {
		return Unit{}, ruleErr(ReasonInvalidPlacement, "unknown unit type %q", t)
	}

	player := s.players[owner]
	if player == nil {
		return Unit{}, ruleErr(ReasonInvalidPlacement, "unknown player %d", owner)
	}
	if player.ActionsRemaining <= 0 {
		return Unit{}, ruleErr(ReasonNoActions, "no actions remaining")
	}
	if player.Energy < stats.Cost {
		return Unit{}, ruleErr(ReasonInvalidPlacement,
			"%s costs %d energy, player has %d", t, stats.Cost, player.Energy)
	}

	base := s.bases[owner]
	if !s.grid.Contains(target) {
		return Unit{}, ruleErr(ReasonInvalidPlacement, "(%d, %d) is off the grid", target.X, target.Y)
	}
	if _, taken := s.occupied[target]; taken {
		return Unit{}, ruleErr(ReasonInvalidPlacement, "(%d, %d) is occupied", target.X, target.Y)
	}

	dist := core.Chebyshev(base.Position, target)
	if dist > s.cfg.Bases.PlacementRadius {
		// Radius widens only when the normal placement area is full.
		if dist > s.cfg.Bases.MaxPlacementRadius || !s.placementFull(base.Position) {
			return Unit{}, ruleErr(ReasonInvalidPlacement,
				"(%d, %d) is outside the placement radius", target.X, target.Y)
		}
	}

	player.Energy -= stats.Cost
	player.ActionsRemaining--

	s.nextUnitID++
	u := &Unit{
		ID:               s.nextUnitID,
		Type:             t,
		Owner:            owner,
		Position:         target,
		Health:           stats.MaxHealth,
		ActionsRemaining: s.cfg.Economy.UnitActionsPerTurn,
	}
	s.units[u.ID] = u
	s.occupied[target] = u

	s.emit(UnitCreated{Unit: u.ID, Type: t, Owner: owner, At: target})
	return *u, nil
}

// placementFull reports whether every in-bounds cell within the normal
// placement radius of a base is occupied.
func (s *State) placementFull(base core.Position) bool {
	r := s.cfg.Bases.PlacementRadius
	for y := base.Y - r; y <= base.Y+r; y++ {
		for x := base.X - r; x <= base.X+r; x++ {
			p := core.Pos(x, y)
			if !s.grid.Contains(p) {
				continue
			}
			if _, taken := s.occupied[p]; !taken {
				return false
			}
		}
	}
	return true
}

// FindPlacement scans expanding rings around the owner's base, row-major
// within each ring, and returns the first empty in-bounds cell up to the
// maximum placement radius. The scan order is deterministic so callers can
// rely on it for default placement suggestions.
func (s *State) FindPlacement(owner PlayerID) (core.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := s.bases[owner]
	if !ok {
		return core.Position{}, false
	}
	for r := 1; r <= s.cfg.Bases.MaxPlacementRadius; r++ {
		for y := base.Position.Y - r; y <= base.Position.Y+r; y++ {
			for x := base.Position.X - r; x <= base.Position.X+r; x++ {
				p := core.Pos(x, y)
				if core.Chebyshev(base.Position, p) != r {
					continue
				}
				if !s.grid.Contains(p) {
					continue
				}
				if _, taken := s.occupied[p]; !taken {
					return p, true
				}
			}
		}
	}
	return core.Position{}, false
}

// MoveUnit moves a unit to a target cell during the action phase. A unit
// moves at most once per turn, up to its Manhattan range, onto an empty
// in-bounds cell. Consumes one player action and fires UnitMoved.
func (s *State) MoveUnit(id UnitID, target core.Position) error {
	s.mu.Lock()
	err := s.moveUnit(id, target)
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return err
}

func (s *State) moveUnit(id UnitID, target core.Position) error {
	if s.status == StatusEnded {
		return ruleErr(ReasonGameEnded, "the match is over")
	}

	u, ok := s.units[id]
	if !ok {
		return ruleErr(ReasonUnknownUnit, "no unit %d", id)
	}
	if u.Owner != s.turn.CurrentPlayer {
		return ruleErr(ReasonWrongPhase, "not unit %d's owner's turn", id)
	}
	if s.turn.Phase != PhaseAction {
		return ruleErr(ReasonWrongPhase, "units move during the action phase")
	}
	if u.HasMoved {
		return ruleErr(ReasonInvalidMove, "unit %d already moved this turn", id)
	}

	player := s.players[u.Owner]
	if player.ActionsRemaining <= 0 {
		return ruleErr(ReasonNoActions, "no actions remaining")
	}

	if !s.grid.Contains(target) {
		return ruleErr(ReasonInvalidMove, "(%d, %d) is off the grid", target.X, target.Y)
	}
	if dist := core.Manhattan(u.Position, target); dist == 0 || dist > s.stats(u.Type).MoveRange {
		return ruleErr(ReasonInvalidMove,
			"(%d, %d) is out of range for a %s", target.X, target.Y, u.Type)
	}
	if _, taken := s.occupied[target]; taken {
		return ruleErr(ReasonInvalidMove, "(%d, %d) is occupied", target.X, target.Y)
	}

	from := u.Position
	delete(s.occupied, from)
	u.Position = target
	s.occupied[target] = u
	u.HasMoved = true
	player.ActionsRemaining--

	s.emit(UnitMoved{Unit: id, From: from, To: target})
	return nil
}

// AttackResult reports what an attack did.
type AttackResult struct {
	Damage        int
	TargetHP      int
	Destroyed     bool
	BaseDestroyed bool
}

// AttackUnit strikes the cell at target with the given unit during the
// action phase. The target must hold an enemy unit or base within Chebyshev
// distance 1 (diagonals included). Destroying a base ends the match in the
// attacker's favor. Consumes one player action.
func (s *State) AttackUnit(attacker UnitID, target core.Position) (AttackResult, error) {
	s.mu.Lock()
	res, err := s.attackUnit(attacker, target)
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return res, err
}

func (s *State) attackUnit(attacker UnitID, target core.Position) (AttackResult, error) {
	if s.status == StatusEnded {
		return AttackResult{}, ruleErr(ReasonGameEnded, "the match is over")
	}

	a, ok := s.units[attacker]
	if !ok {
		return AttackResult{}, ruleErr(ReasonUnknownUnit, "no unit %d", attacker)
	}
	if a.Owner != s.turn.CurrentPlayer {
		return AttackResult{}, ruleErr(ReasonWrongPhase, "not unit %d's owner's turn", attacker)
	}
	if s.turn.Phase != PhaseAction {
		return AttackResult{}, ruleErr(ReasonWrongPhase, "units attack during the action phase")
	}

	player := s.players[a.Owner]
	if player.ActionsRemaining <= 0 {
		return AttackResult{}, ruleErr(ReasonNoActions, "no actions remaining")
	}

	if !core.Adjacent(a.Position, target) {
		return AttackResult{}, ruleErr(ReasonOutOfRange,
			"(%d, %d) is not adjacent to unit %d", target.X, target.Y, attacker)
	}

	victim, ok := s.occupied[target]
	if !ok {
		return AttackResult{}, ruleErr(ReasonInvalidAttack, "nothing to attack at (%d, %d)", target.X, target.Y)
	}

	damage := s.stats(a.Type).Damage

	switch v := victim.(type) {
	case *Unit:
		if v.Owner == a.Owner {
			return AttackResult{}, ruleErr(ReasonInvalidAttack, "cannot attack a friendly unit")
		}
		player.ActionsRemaining--
		v.Health -= damage
		s.emit(UnitAttacked{Attacker: attacker, Target: target, Damage: damage, TargetHP: v.Health})
		res := AttackResult{Damage: damage, TargetHP: v.Health}
		if v.Health <= 0 {
			s.destroyUnit(v)
			res.Destroyed = true
		}
		return res, nil

	case *Base:
		if v.Owner == a.Owner {
			return AttackResult{}, ruleErr(ReasonInvalidAttack, "cannot attack your own base")
		}
		player.ActionsRemaining--
		v.Health -= damage
		s.emit(UnitAttacked{Attacker: attacker, Target: target, Damage: damage, TargetHP: v.Health})
		res := AttackResult{Damage: damage, TargetHP: v.Health}
		if v.Health <= 0 {
			v.Health = 0
			v.IsDestroyed = true
			res.Destroyed = true
			res.BaseDestroyed = true
			s.endGame(a.Owner, EndBaseDestroyed)
		}
		return res, nil

	default:
		return AttackResult{}, ruleErr(ReasonInvalidAttack, "(%d, %d) holds nothing attackable", target.X, target.Y)
	}
}

// destroyUnit removes a dead unit from the board and fires UnitDestroyed.
func (s *State) destroyUnit(u *Unit) {
	delete(s.occupied, u.Position)
	delete(s.units, u.ID)
	delete(s.cooldowns, u.ID)
	s.emit(UnitDestroyed{Unit: u.ID, Owner: u.Owner, At: u.Position})
}

// RemoveUnit unconditionally removes a unit, regardless of turn or phase.
// Used for cleanup paths such as surrender. Fires UnitRemoved.
func (s *State) RemoveUnit(id UnitID) error {
	s.mu.Lock()
	err := s.removeUnit(id)
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return err
}

func (s *State) removeUnit(id UnitID) error {
	u, ok := s.units[id]
	if !ok {
		return ruleErr(ReasonUnknownUnit, "no unit %d", id)
	}
	delete(s.occupied, u.Position)
	delete(s.units, id)
	delete(s.cooldowns, id)
	s.emit(UnitRemoved{Unit: id, Owner: u.Owner, At: u.Position})
	return nil
}

// Surrender immediately ends the match in the opponent's favor. The
// surrendering player's units are cleared from the board first.
func (s *State) Surrender(player PlayerID) error {
	s.mu.Lock()
	err := s.surrender(player)
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return err
}

func (s *State) surrender(player PlayerID) error {
	if s.status == StatusEnded {
		return ruleErr(ReasonGameEnded, "the match is over")
	}
	p, ok := s.players[player]
	if !ok {
		return ruleErr(ReasonInvalidPlacement, "unknown player %d", player)
	}
	p.IsActive = false

	for _, id := range s.unitIDsOf(player) {
		u := s.units[id]
		delete(s.occupied, u.Position)
		delete(s.units, id)
		delete(s.cooldowns, id)
		s.emit(UnitRemoved{Unit: id, Owner: player, At: u.Position})
	}

	s.endGame(player.Opponent(), EndSurrender)
	return nil
}

// unitIDsOf lists a player's unit IDs in ascending order.
func (s *State) unitIDsOf(player PlayerID) []UnitID {
	var ids []UnitID
	for id, u := range s.units {
		if u.Owner == player {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DeclareDraw immediately ends the match with no winner.
func (s *State) DeclareDraw() error {
	s.mu.Lock()
	var err error
	if s.status == StatusEnded {
		err = ruleErr(ReasonGameEnded, "the match is over")
	} else {
		s.endGame(NoPlayer, EndDraw)
	}
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return err
}

// endGame transitions to the terminal state and fires GameEnded exactly
// once. Idempotent.
func (s *State) endGame(winner PlayerID, reason EndReason) {
	if s.status == StatusEnded {
		return
	}
	s.status = StatusEnded
	s.winner = winner
	s.endReason = reason
	s.emit(GameEnded{Winner: winner, Reason: reason})
}
