// Package config provides YAML-based rules configuration loading for the
// skirmish engine. Every tunable number in the rules (unit stats, economy,
// phase timing, victory threshold) lives here so scenarios can override
// them without touching engine code.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-skirmish/internal/core"
)

// Config is the full rules configuration for one match.
type Config struct {
	Grid    GridConfig            `yaml:"grid" json:"grid"`
	Economy EconomyConfig         `yaml:"economy" json:"economy"`
	Units   map[string]UnitConfig `yaml:"units" json:"units"`
	Bases   BaseConfig            `yaml:"bases" json:"bases"`
	Nodes   NodesConfig           `yaml:"nodes" json:"nodes"`
	Victory VictoryConfig         `yaml:"victory" json:"victory"`
	Timing  TimingConfig          `yaml:"timing" json:"timing"`
}

// GridConfig defines battlefield dimensions.
type GridConfig struct {
	Size int `yaml:"size" json:"size"`
}

// EconomyConfig defines starting resources and per-turn allowances.
type EconomyConfig struct {
	InitialEnergy      int `yaml:"initial_energy" json:"initialEnergy"`
	ActionsPerTurn     int `yaml:"actions_per_turn" json:"actionsPerTurn"`
	UnitActionsPerTurn int `yaml:"unit_actions_per_turn" json:"unitActionsPerTurn"`
	GatherAmount       int `yaml:"gather_amount" json:"gatherAmount"`
	GatherCooldownMs   int `yaml:"gather_cooldown_ms" json:"gatherCooldownMs"`
}

// GatherCooldown returns the per-unit gathering cooldown.
func (e EconomyConfig) GatherCooldown() time.Duration {
	return time.Duration(e.GatherCooldownMs) * time.Millisecond
}

// UnitConfig carries the fixed stats of one unit type.
type UnitConfig struct {
	Cost      int `yaml:"cost" json:"cost"`
	MaxHealth int `yaml:"max_health" json:"maxHealth"`
	Damage    int `yaml:"damage" json:"damage"`
	MoveRange int `yaml:"move_range" json:"moveRange"`
}

// BaseConfig defines base placement and durability.
type BaseConfig struct {
	Health             int           `yaml:"health" json:"health"`
	PlacementRadius    int           `yaml:"placement_radius" json:"placementRadius"`
	MaxPlacementRadius int           `yaml:"max_placement_radius" json:"maxPlacementRadius"`
	Player1            core.Position `yaml:"player1" json:"player1"`
	Player2            core.Position `yaml:"player2" json:"player2"`
}

// NodesConfig defines the resource node layout and behavior.
type NodesConfig struct {
	Value     int             `yaml:"value" json:"value"`
	MaxValue  int             `yaml:"max_value" json:"maxValue"`
	RegenRate int             `yaml:"regen_rate" json:"regenRate"`
	Positions []core.Position `yaml:"positions" json:"positions"`
}

// VictoryConfig defines win conditions beyond base destruction.
type VictoryConfig struct {
	ResourceThreshold int `yaml:"resource_threshold" json:"resourceThreshold"`
}

// TimingConfig defines timer-driven phase and turn auto-advance.
type TimingConfig struct {
	ResourcePhaseMs  int  `yaml:"resource_phase_ms" json:"resourcePhaseMs"`
	ActionGraceMs    int  `yaml:"action_grace_ms" json:"actionGraceMs"`
	TurnLimitMs      int  `yaml:"turn_limit_ms" json:"turnLimitMs"`
	AutoEndOnTimeout bool `yaml:"auto_end_on_timeout" json:"autoEndOnTimeout"`
}

// ResourcePhase returns how long the resource phase lasts before
// auto-advancing to the action phase.
func (t TimingConfig) ResourcePhase() time.Duration {
	return time.Duration(t.ResourcePhaseMs) * time.Millisecond
}

// ActionGrace returns the delay before the action phase auto-advances once
// the player has no actions left.
func (t TimingConfig) ActionGrace() time.Duration {
	return time.Duration(t.ActionGraceMs) * time.Millisecond
}

// TurnLimit returns the maximum turn duration, or zero if unlimited.
func (t TimingConfig) TurnLimit() time.Duration {
	return time.Duration(t.TurnLimitMs) * time.Millisecond
}

// Validate checks structural soundness: bases and nodes must be in bounds
// and not overlap, and every unit type needs positive stats.
func (c Config) Validate() error {
	grid := core.NewGrid(c.Grid.Size)

	if !grid.Contains(c.Bases.Player1) || !grid.Contains(c.Bases.Player2) {
		return fmt.Errorf("config: base positions out of bounds for grid size %d", grid.Size)
	}
	if c.Bases.Player1 == c.Bases.Player2 {
		return fmt.Errorf("config: both bases at %v", c.Bases.Player1)
	}
	if c.Bases.PlacementRadius <= 0 || c.Bases.MaxPlacementRadius < c.Bases.PlacementRadius {
		return fmt.Errorf("config: invalid placement radii %d/%d",
			c.Bases.PlacementRadius, c.Bases.MaxPlacementRadius)
	}

	seen := map[core.Position]bool{
		c.Bases.Player1: true,
		c.Bases.Player2: true,
	}
	for _, p := range c.Nodes.Positions {
		if !grid.Contains(p) {
			return fmt.Errorf("config: node at %v out of bounds", p)
		}
		if seen[p] {
			return fmt.Errorf("config: overlapping entity at %v", p)
		}
		seen[p] = true
	}

	for name, u := range c.Units {
		if u.Cost <= 0 || u.MaxHealth <= 0 || u.MoveRange <= 0 {
			return fmt.Errorf("config: unit %q has non-positive stats", name)
		}
	}

	if c.Victory.ResourceThreshold <= 0 {
		return fmt.Errorf("config: resource threshold must be positive")
	}

	return nil
}
