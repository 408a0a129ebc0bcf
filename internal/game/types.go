// Package game implements the authoritative state store and rules engine
// for the skirmish core: players, units, bases, resource nodes, and the
// commands that mutate them. Rendering, persistence, and input handling
// live outside this package and interact only through commands, queries,
// and the event bus.
package game

import (
	"github.com/vovakirdan/tui-skirmish/internal/core"
)

// PlayerID identifies one of the two players.
type PlayerID int

// Player identifiers. Zero means "no player" (draws, no winner yet).
const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// Opponent returns the other player.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

// UnitType enumerates the unit roster.
type UnitType string

const (
	UnitWorker   UnitType = "worker"
	UnitScout    UnitType = "scout"
	UnitInfantry UnitType = "infantry"
	UnitHeavy    UnitType = "heavy"
)

// UnitTypes lists all unit types in roster order.
func UnitTypes() []UnitType {
	return []UnitType{UnitWorker, UnitScout, UnitInfantry, UnitHeavy}
}

// Phase is a sub-stage within a player's turn restricting which commands
// are legal.
type Phase string

const (
	PhaseResource Phase = "resource"
	PhaseAction   Phase = "action"
	PhaseBuild    Phase = "build"
)

// Phases returns the phase order within a turn.
func Phases() []Phase {
	return []Phase{PhaseResource, PhaseAction, PhaseBuild}
}

// Status describes the overall match state.
type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// EndReason describes how a match concluded.
type EndReason string

const (
	EndBaseDestroyed     EndReason = "base_destroyed"
	EndResourceThreshold EndReason = "resource_threshold"
	EndSurrender         EndReason = "surrender"
	EndDraw              EndReason = "draw"
)

// EntityKind discriminates what occupies a grid cell.
type EntityKind string

const (
	KindUnit     EntityKind = "unit"
	KindBase     EntityKind = "base"
	KindResource EntityKind = "resource"
)

// Entity is anything that occupies a cell. At most one entity of any kind
// occupies a cell at a time.
type Entity interface {
	EntityKind() EntityKind
	Pos() core.Position
}

// Player holds per-player economy and turn bookkeeping. Players are created
// at game start and persist for the whole match.
type Player struct {
	ID                PlayerID `json:"id"`
	Energy            int      `json:"energy"`
	ActionsRemaining  int      `json:"actionsRemaining"`
	ResourcesGathered int      `json:"resourcesGathered"`
	IsActive          bool     `json:"isActive"`
}

// UnitID uniquely identifies a unit for the lifetime of a match.
type UnitID int

// Unit is a mobile entity owned by a player.
type Unit struct {
	ID               UnitID        `json:"id"`
	Type             UnitType      `json:"type"`
	Owner            PlayerID      `json:"owner"`
	Position         core.Position `json:"position"`
	Health           int           `json:"health"`
	HasMoved         bool          `json:"hasMoved"`
	ActionsRemaining int           `json:"actionsRemaining"`
}

// EntityKind implements Entity.
func (u *Unit) EntityKind() EntityKind { return KindUnit }

// Pos implements Entity.
func (u *Unit) Pos() core.Position { return u.Position }

// Base is a player's immovable headquarters. Its destruction ends the game.
type Base struct {
	Owner       PlayerID      `json:"owner"`
	Position    core.Position `json:"position"`
	Health      int           `json:"health"`
	IsDestroyed bool          `json:"isDestroyed"`
}

// EntityKind implements Entity.
func (b *Base) EntityKind() EntityKind { return KindBase }

// Pos implements Entity.
func (b *Base) Pos() core.Position { return b.Position }

// NodeID identifies a resource node.
type NodeID int

// ResourceNode is a gatherable deposit. Nodes deplete when gathered and
// replenish by their regeneration rate, capped at MaxValue. They are never
// removed from the board.
type ResourceNode struct {
	ID        NodeID        `json:"id"`
	Position  core.Position `json:"position"`
	Value     int           `json:"value"`
	MaxValue  int           `json:"maxValue"`
	RegenRate int           `json:"regenRate"`
}

// EntityKind implements Entity.
func (n *ResourceNode) EntityKind() EntityKind { return KindResource }

// Pos implements Entity.
func (n *ResourceNode) Pos() core.Position { return n.Position }

// TurnState is the controller-facing view of turn bookkeeping. It is stored
// here so snapshots capture it alongside the entities it governs.
type TurnState struct {
	Number        int      `json:"number"`
	Phase         Phase    `json:"phase"`
	CurrentPlayer PlayerID `json:"currentPlayer"`
}
