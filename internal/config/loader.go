package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const levelsFile = "levels.yaml"

// LoadLevels loads the level pack.
// Search order: customPath -> ~/.playtest/levels.yaml -> ./levels/levels.yaml -> embedded default
func LoadLevels(customPath string) ([]Level, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read levels %s: %w", customPath, err)
		}
		levels, err := ParseLevels(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse levels %s: %w", customPath, err)
		}
		return levels, nil
	}

	// Try user config directory
	if userPath := userConfigPath(levelsFile); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if levels, err := ParseLevels(data); err == nil {
				return levels, nil
			}
		}
	}

	// Try local levels directory
	if data, err := os.ReadFile(filepath.Join("levels", levelsFile)); err == nil {
		if levels, err := ParseLevels(data); err == nil {
			return levels, nil
		}
	}

	// Use embedded default YAML
	levels, err := ParseLevels(defaultLevelsYAML)
	if err != nil {
		return DefaultLevels(), nil // Fallback to hardcoded if embed fails
	}
	return levels, nil
}

// ParseLevels decodes a YAML level pack and applies defaults.
// Level IDs must be unique within a pack.
func ParseLevels(data []byte) ([]Level, error) {
	var pack LevelPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(pack.Levels) == 0 {
		return nil, fmt.Errorf("level pack has no levels")
	}

	seen := make(map[string]bool, len(pack.Levels))
	for i := range pack.Levels {
		lvl := &pack.Levels[i]
		if err := lvl.normalize(); err != nil {
			return nil, fmt.Errorf("level #%d: %w", i+1, err)
		}
		if seen[lvl.ID] {
			return nil, fmt.Errorf("duplicate level id %q", lvl.ID)
		}
		seen[lvl.ID] = true
	}
	return pack.Levels, nil
}

// FindLevel returns the level with the given ID.
func FindLevel(levels []Level, id string) (Level, error) {
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".playtest", filename)
}
