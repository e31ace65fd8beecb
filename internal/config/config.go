// Package config provides YAML-based level pack loading and difficulty
// tags for the playtest platform.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// KindMatch3 is the level kind handled by the match-3 engine.
const KindMatch3 = "match3"

// LevelPack is the top-level structure of a level pack file.
type LevelPack struct {
	Levels []Level `yaml:"levels"`
}

// Level is a single hand-authored level.
type Level struct {
	ID         string         `yaml:"id" json:"id"`
	Name       string         `yaml:"name" json:"name"`
	Kind       string         `yaml:"kind" json:"kind"`
	Difficulty Difficulty     `yaml:"difficulty" json:"difficulty"`
	Match3     Match3Settings `yaml:"match3" json:"match3"`
}

// UnmarshalYAML decodes a level over the optional match-3 defaults, so a
// key written as 0 stays 0 and is left for validation to reject.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	type plain Level
	p := plain{Match3: Match3Settings{}.WithDefaults()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*l = Level(p)
	return nil
}

// Match3Settings are the tunable parameters of a match-3 level.
type Match3Settings struct {
	Rows         int     `yaml:"rows" json:"rows"`
	Cols         int     `yaml:"cols" json:"cols"`
	TotalColors  int     `yaml:"total_colors" json:"total_colors"`
	TargetScore  float64 `yaml:"target_score" json:"target_score"`
	MovesLimit   int     `yaml:"moves_limit" json:"moves_limit"`
	ScorePerTile float64 `yaml:"score_per_tile" json:"score_per_tile"`
	ComboStep    int     `yaml:"combo_step" json:"combo_step"`
	MinMatch     int     `yaml:"min_match" json:"min_match"`
}

// Defaults for optional match-3 fields.
const (
	DefaultRows         = 8
	DefaultCols         = 8
	DefaultScorePerTile = 10
	DefaultComboStep    = 1
	DefaultMinMatch     = 3
)

// WithDefaults fills zero-valued optional fields. Levels read from YAML
// get the defaults before decoding instead. Required fields
// (TotalColors, TargetScore, MovesLimit) are left as-is so that a missing
// value is reported by validation instead of being papered over.
func (s Match3Settings) WithDefaults() Match3Settings {
	if s.Rows == 0 {
		s.Rows = DefaultRows
	}
	if s.Cols == 0 {
		s.Cols = DefaultCols
	}
	if s.ScorePerTile == 0 {
		s.ScorePerTile = DefaultScorePerTile
	}
	if s.ComboStep == 0 {
		s.ComboStep = DefaultComboStep
	}
	if s.MinMatch == 0 {
		s.MinMatch = DefaultMinMatch
	}
	return s
}

// Difficulty is the designer's intended difficulty tag for a level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a tag to a Difficulty. Empty means normal.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// normalize applies defaults to a level as loaded from YAML.
func (l *Level) normalize() error {
	if l.ID == "" {
		return fmt.Errorf("level without id")
	}
	if l.Name == "" {
		l.Name = l.ID
	}
	if l.Kind == "" {
		l.Kind = KindMatch3
	}
	d, err := ParseDifficulty(string(l.Difficulty))
	if err != nil {
		return fmt.Errorf("level %s: %w", l.ID, err)
	}
	l.Difficulty = d
	return nil
}
