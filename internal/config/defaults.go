package config

import (
	_ "embed"
)

//go:embed defaults/levels.yaml
var defaultLevelsYAML []byte

// DefaultLevels returns the built-in level pack.
// Used when the embedded YAML cannot be parsed.
func DefaultLevels() []Level {
	return []Level{
		{
			ID:         "m3-01",
			Name:       "First Swap",
			Kind:       KindMatch3,
			Difficulty: DifficultyEasy,
			Match3: Match3Settings{
				Rows: 8, Cols: 8, TotalColors: 4,
				TargetScore: 300, MovesLimit: 20,
				ScorePerTile: 10, ComboStep: 1, MinMatch: 3,
			},
		},
		{
			ID:         "m3-02",
			Name:       "Five Flavours",
			Kind:       KindMatch3,
			Difficulty: DifficultyNormal,
			Match3: Match3Settings{
				Rows: 8, Cols: 8, TotalColors: 5,
				TargetScore: 800, MovesLimit: 20,
				ScorePerTile: 10, ComboStep: 1, MinMatch: 3,
			},
		},
		{
			ID:         "m3-03",
			Name:       "Rainbow Crunch",
			Kind:       KindMatch3,
			Difficulty: DifficultyHard,
			Match3: Match3Settings{
				Rows: 8, Cols: 8, TotalColors: 7,
				TargetScore: 1500, MovesLimit: 25,
				ScorePerTile: 10, ComboStep: 1, MinMatch: 3,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default level pack.
func GetDefaultYAML() []byte {
	return defaultLevelsYAML
}
