package scenario

import (
	"testing"

	"github.com/vovakirdan/tui-skirmish/internal/config"
)

func TestBuiltinPresetsRegistered(t *testing.T) {
	for _, id := range []string{"standard", "blitz", "rich-map"} {
		if !Exists(id) {
			t.Errorf("preset %q not registered", id)
		}
	}
}

func TestListSortedByID(t *testing.T) {
	infos := List()
	if len(infos) < 3 {
		t.Fatalf("got %d presets, want at least 3", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].ID >= infos[i].ID {
			t.Errorf("presets not sorted: %q before %q", infos[i-1].ID, infos[i].ID)
		}
	}
	for _, info := range infos {
		if info.Title == "" || info.Description == "" {
			t.Errorf("preset %q missing metadata: %+v", info.ID, info)
		}
	}
}

func TestBuildValidatesPresets(t *testing.T) {
	for _, info := range List() {
		cfg, err := Build(info.ID)
		if err != nil {
			t.Errorf("Build(%q): %v", info.ID, err)
			continue
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q produced invalid config: %v", info.ID, err)
		}
	}

	if _, err := Build("no-such-preset"); err == nil {
		t.Error("Build with an unknown ID should fail")
	}
}

func TestPresetsDoNotShareState(t *testing.T) {
	first, err := Build("blitz")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	first.Units["worker"] = config.UnitConfig{Cost: 999, MaxHealth: 1, Damage: 1, MoveRange: 1}
	first.Nodes.Positions[0].X = 0

	second, err := Build("blitz")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if second.Units["worker"].Cost == 999 {
		t.Error("unit map shared between Build calls")
	}
	if second.Nodes.Positions[0].X == 0 {
		t.Error("node slice shared between Build calls")
	}
}

func TestBlitzOverrides(t *testing.T) {
	cfg, err := Build("blitz")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	base := config.Default()
	if cfg.Victory.ResourceThreshold >= base.Victory.ResourceThreshold {
		t.Errorf("blitz threshold = %d, want below the standard %d",
			cfg.Victory.ResourceThreshold, base.Victory.ResourceThreshold)
	}
	if !cfg.Timing.AutoEndOnTimeout {
		t.Error("blitz should auto-end turns on timeout")
	}
	for name, u := range cfg.Units {
		if u.Cost >= base.Units[name].Cost {
			t.Errorf("blitz %s cost = %d, want cheaper than %d", name, u.Cost, base.Units[name].Cost)
		}
	}
}
