package game

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/tui-skirmish/internal/config"
	"github.com/vovakirdan/tui-skirmish/internal/core"
)

// State is the authoritative store for a single match. All mutation goes
// through its exported commands, which serialize behind one mutex; events
// are dispatched after the mutation commits, in mutation order.
type State struct {
	mu  sync.Mutex
	cfg config.Config

	grid core.Grid
	bus  *Bus

	players map[PlayerID]*Player
	units   map[UnitID]*Unit
	bases   map[PlayerID]*Base
	nodes   map[NodeID]*ResourceNode

	// occupied maps each cell to the single entity on it. Units, bases and
	// resource nodes are mutually exclusive per cell.
	occupied map[core.Position]Entity

	turn      TurnState
	status    Status
	winner    PlayerID
	endReason EndReason

	nextUnitID UnitID

	// cooldowns maps a unit to the instant its gathering cooldown expires.
	cooldowns map[UnitID]time.Time
	now       func() time.Time

	pending []Event
}

// New creates a match in its initial configuration: two players with
// starting energy, one base each, and the configured resource nodes.
// The first turn belongs to player 1 and starts in the resource phase.
func New(cfg config.Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		cfg:       cfg,
		grid:      core.NewGrid(cfg.Grid.Size),
		bus:       NewBus(),
		players:   make(map[PlayerID]*Player),
		units:     make(map[UnitID]*Unit),
		bases:     make(map[PlayerID]*Base),
		nodes:     make(map[NodeID]*ResourceNode),
		occupied:  make(map[core.Position]Entity),
		cooldowns: make(map[UnitID]time.Time),
		now:       time.Now,
		status:    StatusActive,
		turn: TurnState{
			Number:        1,
			Phase:         PhaseResource,
			CurrentPlayer: Player1,
		},
	}

	for _, id := range []PlayerID{Player1, Player2} {
		s.players[id] = &Player{
			ID:               id,
			Energy:           cfg.Economy.InitialEnergy,
			ActionsRemaining: cfg.Economy.ActionsPerTurn,
			IsActive:         true,
		}
	}

	basePos := map[PlayerID]core.Position{
		Player1: cfg.Bases.Player1,
		Player2: cfg.Bases.Player2,
	}
	for id, pos := range basePos {
		base := &Base{Owner: id, Position: pos, Health: cfg.Bases.Health}
		s.bases[id] = base
		s.occupied[pos] = base
	}

	for i, pos := range cfg.Nodes.Positions {
		node := &ResourceNode{
			ID:        NodeID(i + 1),
			Position:  pos,
			Value:     cfg.Nodes.Value,
			MaxValue:  cfg.Nodes.MaxValue,
			RegenRate: cfg.Nodes.RegenRate,
		}
		s.nodes[node.ID] = node
		s.occupied[pos] = node
	}

	return s, nil
}

// Events returns the event bus collaborators subscribe on.
func (s *State) Events() *Bus { return s.bus }

// Grid returns the battlefield bounds.
func (s *State) Grid() core.Grid { return s.grid }

// Config returns the ruleset this match was created with.
func (s *State) Config() config.Config { return s.cfg }

// setClock replaces the wall clock; tests use this to step cooldowns
// deterministically.
func (s *State) setClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// emit queues an event for dispatch once the current command commits.
func (s *State) emit(ev Event) {
	s.pending = append(s.pending, ev)
}

// flush drains queued events. Called with the lock held, immediately
// before releasing it.
func (s *State) flush() []Event {
	evs := s.pending
	s.pending = nil
	return evs
}

// Start announces the beginning of the match and the first turn.
func (s *State) Start() {
	s.mu.Lock()
	s.emit(GameStarted{GridSize: s.grid.Size})
	s.emit(TurnStarted{Turn: s.turn.Number, Player: s.turn.CurrentPlayer})
	evs := s.flush()
	s.mu.Unlock()
	s.bus.dispatch(evs)
}

// --- Queries ---

// Turn returns a snapshot of the turn bookkeeping.
func (s *State) Turn() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// Status returns the match status.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Outcome returns the winner and end reason. Winner is NoPlayer for draws
// and for matches still in progress.
func (s *State) Outcome() (PlayerID, EndReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner, s.endReason
}

// Player returns a copy of the player's state.
func (s *State) Player(id PlayerID) (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Unit returns a copy of the unit's state.
func (s *State) Unit(id UnitID) (Unit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[id]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// Base returns a copy of the player's base.
func (s *State) Base(id PlayerID) (Base, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bases[id]
	if !ok {
		return Base{}, false
	}
	return *b, true
}

// EntityAt returns a copy of whatever occupies (x, y), if anything.
func (s *State) EntityAt(x, y int) (Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyEntity(s.occupied[core.Pos(x, y)])
}

// copyEntity clones an occupant so callers cannot reach mutable store
// internals.
func (s *State) copyEntity(e Entity) (Entity, bool) {
	switch v := e.(type) {
	case *Unit:
		u := *v
		return &u, true
	case *Base:
		b := *v
		return &b, true
	case *ResourceNode:
		n := *v
		return &n, true
	default:
		return nil, false
	}
}

// PlayerUnits returns copies of all units owned by a player, ordered by ID.
func (s *State) PlayerUnits(id PlayerID) []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Unit
	for _, u := range s.units {
		if u.Owner == id {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Units returns copies of every unit on the board, ordered by ID.
func (s *State) Units() []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Unit, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Nodes returns copies of every resource node, ordered by ID.
func (s *State) Nodes() []ResourceNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ResourceNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Bases returns copies of both bases.
func (s *State) Bases() []Base {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Base, 0, len(s.bases))
	for _, id := range []PlayerID{Player1, Player2} {
		if b, ok := s.bases[id]; ok {
			out = append(out, *b)
		}
	}
	return out
}

// MovePosition is a reachable cell annotated with its Manhattan cost.
type MovePosition struct {
	Pos  core.Position `json:"pos"`
	Cost int           `json:"cost"`
}

// ValidMovePositions returns every empty in-bounds cell within the unit's
// movement range, in row-major order.
func (s *State) ValidMovePositions(id UnitID) ([]MovePosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok {
		return nil, ruleErr(ReasonUnknownUnit, "no unit %d", id)
	}

	rng := s.stats(u.Type).MoveRange
	var out []MovePosition
	for y := u.Position.Y - rng; y <= u.Position.Y+rng; y++ {
		for x := u.Position.X - rng; x <= u.Position.X+rng; x++ {
			p := core.Pos(x, y)
			d := core.Manhattan(u.Position, p)
			if d == 0 || d > rng {
				continue
			}
			if !s.grid.Contains(p) {
				continue
			}
			if _, taken := s.occupied[p]; taken {
				continue
			}
			out = append(out, MovePosition{Pos: p, Cost: d})
		}
	}
	return out, nil
}

// stats looks up a unit type's configured numbers.
func (s *State) stats(t UnitType) config.UnitConfig {
	return s.cfg.Units[string(t)]
}

// String gives a one-line diagnostic summary of the match.
func (s *State) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("turn=%d phase=%s player=%d units=%d status=%s",
		s.turn.Number, s.turn.Phase, s.turn.CurrentPlayer, len(s.units), s.status)
}
