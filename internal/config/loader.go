package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDuel loads the duel configuration.
// Search order: customPath -> ~/.duel/duel.yaml -> ./configs/duel.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names. The result is validated before it is returned.
func LoadDuel(customPath string) (DuelConfig, error) {
	cfg := embeddedDefault()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath("duel.yaml"), filepath.Join("configs", "duel.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := embeddedDefault()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, candidate.Validate()
		}
	}

	return cfg, cfg.Validate()
}

// Marshal renders a config as YAML.
func Marshal(cfg DuelConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot marshal: %w", err)
	}
	return data, nil
}

func embeddedDefault() DuelConfig {
	var cfg DuelConfig
	if err := yaml.Unmarshal(defaultDuelYAML, &cfg); err != nil {
		return DefaultDuelConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".duel", filename)
}
