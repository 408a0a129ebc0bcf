package game

import (
	"sort"

	"github.com/vovakirdan/tui-skirmish/internal/core"
)

// GatherResult reports a successful gather.
type GatherResult struct {
	Node      NodeID
	Amount    int
	NodeValue int // Node value after gathering.
}

// GatherResources has a worker harvest from an adjacent resource node
// during the resource phase. Gathering is the sole source of income: the
// harvested amount is credited to the owner's energy and running gathered
// total. Each worker then sits out a short real-time cooldown before it may
// gather again. Consumes one player action and one unit action.
func (s *State) GatherResources(id UnitID) (GatherResult, error) {
	s.mu.Lock()
	res, err := s.gatherResources(id)
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
	return res, err
}

func (s *State) gatherResources(id UnitID) (GatherResult, error) {
	if s.status == StatusEnded {
		return GatherResult{}, ruleErr(ReasonGameEnded, "the match is over")
	}

	u, ok := s.units[id]
	if !ok {
		return GatherResult{}, ruleErr(ReasonUnknownUnit, "no unit %d", id)
	}
	if u.Type != UnitWorker {
		return GatherResult{}, ruleErr(ReasonNotWorker, "only workers gather, unit %d is a %s", id, u.Type)
	}
	if u.Owner != s.turn.CurrentPlayer {
		return GatherResult{}, ruleErr(ReasonWrongPhase, "not unit %d's owner's turn", id)
	}
	if s.turn.Phase != PhaseResource {
		return GatherResult{}, ruleErr(ReasonWrongPhase, "gathering happens during the resource phase")
	}
	if until, cooling := s.cooldowns[id]; cooling && s.now().Before(until) {
		return GatherResult{}, ruleErr(ReasonOnCooldown, "unit %d is still recovering", id)
	}
	if u.ActionsRemaining <= 0 {
		return GatherResult{}, ruleErr(ReasonNoActions, "unit %d has no actions left", id)
	}

	player := s.players[u.Owner]
	if player.ActionsRemaining <= 0 {
		return GatherResult{}, ruleErr(ReasonNoActions, "no actions remaining")
	}

	node, err := s.nodeInReach(u.Position)
	if err != nil {
		return GatherResult{}, err
	}

	amount := core.Min(s.cfg.Economy.GatherAmount, node.Value)
	node.Value -= amount
	player.Energy += amount
	player.ResourcesGathered += amount
	player.ActionsRemaining--
	u.ActionsRemaining--
	s.cooldowns[id] = s.now().Add(s.cfg.Economy.GatherCooldown())

	s.emit(ResourcesGathered{
		Unit:   id,
		Player: u.Owner,
		Node:   node.ID,
		Amount: amount,
		Total:  player.ResourcesGathered,
	})

	return GatherResult{Node: node.ID, Amount: amount, NodeValue: node.Value}, nil
}

// nodeInReach finds the lowest-ID non-empty node within Chebyshev distance
// 1 of pos. Distinguishes "no node nearby" from "nearby nodes are empty".
func (s *State) nodeInReach(pos core.Position) (*ResourceNode, error) {
	var best *ResourceNode
	sawEmpty := false
	for _, n := range s.nodes {
		if core.Chebyshev(pos, n.Position) > 1 {
			continue
		}
		if n.Value <= 0 {
			sawEmpty = true
			continue
		}
		if best == nil || n.ID < best.ID {
			best = n
		}
	}
	if best != nil {
		return best, nil
	}
	if sawEmpty {
		return nil, ruleErr(ReasonNodeEmpty, "nearby nodes are depleted")
	}
	return nil, ruleErr(ReasonNoNodeInRange, "no resource node in reach")
}

// RegenerateResources runs one regeneration tick: every node's value grows
// by its regeneration rate, capped at its maximum. Fires NodeRegenerated
// for each node that changed. Called once per full turn cycle.
func (s *State) RegenerateResources() {
	s.mu.Lock()
	s.regenerateResources()
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
}

func (s *State) regenerateResources() {
	for _, id := range s.nodeIDs() {
		n := s.nodes[id]
		if n.Value >= n.MaxValue {
			continue
		}
		n.Value = core.Min(n.Value+n.RegenRate, n.MaxValue)
		s.emit(NodeRegenerated{Node: n.ID, Value: n.Value})
	}
}

// nodeIDs lists node IDs in ascending order for deterministic event order.
func (s *State) nodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ClearGatheringCooldowns resets every unit's gathering cooldown. Runs at
// the start of each turn.
func (s *State) ClearGatheringCooldowns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cooldowns)
}
