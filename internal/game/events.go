package game

import (
	"sync"

	"github.com/vovakirdan/tui-skirmish/internal/core"
)

// EventKind names a domain event for subscription filtering.
type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventTurnStarted       EventKind = "turn_started"
	EventTurnEnded         EventKind = "turn_ended"
	EventPhaseChanged      EventKind = "phase_changed"
	EventUnitCreated       EventKind = "unit_created"
	EventUnitMoved         EventKind = "unit_moved"
	EventUnitAttacked      EventKind = "unit_attacked"
	EventUnitDestroyed     EventKind = "unit_destroyed"
	EventUnitRemoved       EventKind = "unit_removed"
	EventResourcesGathered EventKind = "resources_gathered"
	EventNodeRegenerated   EventKind = "node_regenerated"
	EventGameEnded         EventKind = "game_ended"
)

// Event is a domain event emitted by the store after a successful mutation.
// Emission order matches mutation order.
type Event interface {
	Kind() EventKind
}

// GameStarted is emitted once when a match begins.
type GameStarted struct {
	GridSize int
}

func (GameStarted) Kind() EventKind { return EventGameStarted }

// TurnStarted is emitted when a player's turn begins.
type TurnStarted struct {
	Turn   int
	Player PlayerID
}

func (TurnStarted) Kind() EventKind { return EventTurnStarted }

// TurnEnded is emitted when a player's turn finishes.
type TurnEnded struct {
	Turn   int
	Player PlayerID
}

func (TurnEnded) Kind() EventKind { return EventTurnEnded }

// PhaseChanged is emitted when the active phase advances.
type PhaseChanged struct {
	Turn   int
	Player PlayerID
	Phase  Phase
}

func (PhaseChanged) Kind() EventKind { return EventPhaseChanged }

// UnitCreated is emitted when a build command places a new unit.
type UnitCreated struct {
	Unit  UnitID
	Type  UnitType
	Owner PlayerID
	At    core.Position
}

func (UnitCreated) Kind() EventKind { return EventUnitCreated }

// UnitMoved is emitted when a unit changes position.
type UnitMoved struct {
	Unit UnitID
	From core.Position
	To   core.Position
}

func (UnitMoved) Kind() EventKind { return EventUnitMoved }

// UnitAttacked is emitted when an attack lands, before any destruction it
// causes.
type UnitAttacked struct {
	Attacker UnitID
	Target   core.Position
	Damage   int
	TargetHP int // Remaining health after the hit; may be <= 0.
}

func (UnitAttacked) Kind() EventKind { return EventUnitAttacked }

// UnitDestroyed is emitted when a unit's health reaches zero.
type UnitDestroyed struct {
	Unit  UnitID
	Owner PlayerID
	At    core.Position
}

func (UnitDestroyed) Kind() EventKind { return EventUnitDestroyed }

// UnitRemoved is emitted by unconditional removal (cleanup, surrender).
type UnitRemoved struct {
	Unit  UnitID
	Owner PlayerID
	At    core.Position
}

func (UnitRemoved) Kind() EventKind { return EventUnitRemoved }

// ResourcesGathered is emitted when a worker successfully gathers.
type ResourcesGathered struct {
	Unit   UnitID
	Player PlayerID
	Node   NodeID
	Amount int
	Total  int // Player's resourcesGathered after crediting.
}

func (ResourcesGathered) Kind() EventKind { return EventResourcesGathered }

// NodeRegenerated is emitted per node whose value changed during a
// regeneration tick.
type NodeRegenerated struct {
	Node  NodeID
	Value int
}

func (NodeRegenerated) Kind() EventKind { return EventNodeRegenerated }

// GameEnded is emitted exactly once when the match reaches a terminal state.
type GameEnded struct {
	Winner PlayerID // NoPlayer for draws.
	Reason EndReason
}

func (GameEnded) Kind() EventKind { return EventGameEnded }

// Handler receives published events.
type Handler func(Event)

// Bus is a typed publish/subscribe channel owned by the state store.
// Collaborators subscribe by event kind; handlers run synchronously after
// the mutation that produced the event has fully committed, so they may
// issue follow-up commands without deadlocking.
type Bus struct {
	mu       sync.RWMutex
	byKind   map[EventKind][]Handler
	everyone []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{byKind: make(map[EventKind][]Handler)}
}

// Subscribe registers a handler for a single event kind.
func (b *Bus) Subscribe(kind EventKind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byKind[kind] = append(b.byKind[kind], h)
}

// SubscribeAll registers a handler for every event kind.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.everyone = append(b.everyone, h)
}

// dispatch delivers events in order to all matching handlers. Handler
// lists are copied out first so a handler may subscribe without
// deadlocking.
func (b *Bus) dispatch(events []Event) {
	for _, ev := range events {
		b.mu.RLock()
		handlers := make([]Handler, 0, len(b.byKind[ev.Kind()])+len(b.everyone))
		handlers = append(handlers, b.byKind[ev.Kind()]...)
		handlers = append(handlers, b.everyone...)
		b.mu.RUnlock()
		for _, h := range handlers {
			h(ev)
		}
	}
}
