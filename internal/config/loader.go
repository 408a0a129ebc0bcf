package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the rules configuration.
// Search order: customPath -> ~/.skirmish/configs/skirmish.yaml ->
// ./configs/skirmish.yaml -> embedded default.
func Load(customPath string) (Config, error) {
	// Try custom path first; an explicit path that fails is an error.
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	// Try user config directory.
	if userPath := userConfigPath("skirmish.yaml"); userPath != "" {
		if cfg, err := loadFile(userPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory.
	if cfg, err := loadFile(filepath.Join("configs", "skirmish.yaml")); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML.
	var cfg Config
	if err := yaml.Unmarshal(defaultSkirmishYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	if err := cfg.Validate(); err != nil {
		return Default(), nil
	}
	return cfg, nil
}

// loadFile reads and validates a single YAML rules file.
func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to a config file in the user's config
// directory, or empty if the home directory cannot be determined.
func userConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skirmish", "configs", name)
}
