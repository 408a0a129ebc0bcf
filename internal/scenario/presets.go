package scenario

import (
	"github.com/vovakirdan/tui-skirmish/internal/config"
	"github.com/vovakirdan/tui-skirmish/internal/core"
)

func init() {
	Register(Info{
		ID:          "standard",
		Title:       "Standard Skirmish",
		Description: "25x25 battlefield, nine nodes, race to 500 resources",
	}, config.Default)

	Register(Info{
		ID:          "blitz",
		Title:       "Blitz",
		Description: "Short turns, cheap units, race to 200 resources",
	}, blitz)

	Register(Info{
		ID:          "rich-map",
		Title:       "Rich Map",
		Description: "Dense high-yield nodes and a bigger gather haul",
	}, richMap)
}

func blitz() config.Config {
	cfg := config.Default()
	cfg.Victory.ResourceThreshold = 200
	cfg.Economy.InitialEnergy = 150
	cfg.Economy.GatherCooldownMs = 1000
	cfg.Timing.ResourcePhaseMs = 500
	cfg.Timing.ActionGraceMs = 500
	cfg.Timing.TurnLimitMs = 20000
	cfg.Timing.AutoEndOnTimeout = true
	for name, u := range cfg.Units {
		u.Cost = core.Max(1, u.Cost/2)
		cfg.Units[name] = u
	}
	return cfg
}

func richMap() config.Config {
	cfg := config.Default()
	cfg.Economy.GatherAmount = 10
	cfg.Nodes.Value = 150
	cfg.Nodes.MaxValue = 150
	cfg.Nodes.RegenRate = 20
	// Four extra nodes on the mid-row diagonals.
	cfg.Nodes.Positions = append(cfg.Nodes.Positions,
		core.Pos(9, 9),
		core.Pos(15, 9),
		core.Pos(9, 15),
		core.Pos(15, 15),
	)
	return cfg
}
