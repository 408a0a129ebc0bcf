// Package scenario provides a global registry for match rule presets.
// Presets register themselves in init() functions, allowing commands and
// menus to discover and instantiate rulesets without hardcoded switches.
package scenario

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-skirmish/internal/config"
)

// Factory builds the ruleset for one preset, starting from the defaults.
type Factory func() config.Config

// Info contains metadata about a registered preset.
type Info struct {
	ID          string
	Title       string
	Description string
}

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a preset to the registry.
// Typically called from an init() function in this package.
// Panics if a preset with the same ID is already registered.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("scenario: preset %q already registered", info.ID))
	}

	factories[info.ID] = f
	infos[info.ID] = info
}

// List returns information about all registered presets, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Build instantiates the ruleset for a preset by its ID.
// Returns an error if the preset is not registered or produces an
// invalid configuration.
func Build(id string) (config.Config, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return config.Config{}, fmt.Errorf("scenario: unknown preset %q", id)
	}

	cfg := f()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("scenario: preset %q: %w", id, err)
	}
	return cfg, nil
}

// Exists checks if a preset with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
