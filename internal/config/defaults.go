package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-skirmish/internal/core"
)

//go:embed defaults/skirmish.yaml
var defaultSkirmishYAML []byte

// Default returns the standard ruleset: 25x25 grid, two bases on the
// horizontal midline, nine symmetric resource nodes, and the stock unit
// roster. Used as the last-resort fallback when no YAML can be loaded and
// as the base that scenario presets modify.
func Default() Config {
	return Config{
		Grid: GridConfig{Size: 25},
		Economy: EconomyConfig{
			InitialEnergy:      100,
			ActionsPerTurn:     5,
			UnitActionsPerTurn: 1,
			GatherAmount:       5,
			GatherCooldownMs:   3000,
		},
		Units: map[string]UnitConfig{
			"worker":   {Cost: 10, MaxHealth: 50, Damage: 5, MoveRange: 2},
			"scout":    {Cost: 15, MaxHealth: 30, Damage: 10, MoveRange: 4},
			"infantry": {Cost: 25, MaxHealth: 100, Damage: 20, MoveRange: 2},
			"heavy":    {Cost: 40, MaxHealth: 150, Damage: 35, MoveRange: 1},
		},
		Bases: BaseConfig{
			Health:             500,
			PlacementRadius:    3,
			MaxPlacementRadius: 5,
			Player1:            core.Pos(2, 12),
			Player2:            core.Pos(22, 12),
		},
		Nodes: NodesConfig{
			Value:     100,
			MaxValue:  100,
			RegenRate: 10,
			Positions: []core.Position{
				core.Pos(6, 6), core.Pos(12, 6), core.Pos(18, 6),
				core.Pos(6, 12), core.Pos(12, 12), core.Pos(18, 12),
				core.Pos(6, 18), core.Pos(12, 18), core.Pos(18, 18),
			},
		},
		Victory: VictoryConfig{ResourceThreshold: 500},
		Timing: TimingConfig{
			ResourcePhaseMs:  1000,
			ActionGraceMs:    1500,
			TurnLimitMs:      60000,
			AutoEndOnTimeout: false,
		},
	}
}
