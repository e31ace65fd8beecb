package match3

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

// Defaults applied by DefaultSettings.
const (
	DefaultRows         = 8
	DefaultCols         = 8
	DefaultScorePerTile = 10
	DefaultComboStep    = 1
	DefaultMinMatch     = 3
	MinColors           = 3

	// MaxDimension bounds rows and cols. Policy cost grows with the
	// square of the cell count.
	MaxDimension = 32
)

// ErrInvalidSettings is matched by every ValidationError via errors.Is.
var ErrInvalidSettings = errors.New("match3: invalid settings")

// ValidationError describes a rejected level setting.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is makes errors.Is(err, ErrInvalidSettings) hold for any ValidationError.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidSettings
}

// Settings are the numeric level parameters the engine consumes.
type Settings struct {
	Rows         int     `json:"rows"`
	Cols         int     `json:"cols"`
	Colors       int     `json:"total_colors"`
	TargetScore  float64 `json:"target_score"`
	MovesLimit   int     `json:"moves_limit"`
	ScorePerTile float64 `json:"score_per_tile"`
	ComboStep    int     `json:"combo_step"`
	MinMatch     int     `json:"min_match"`
}

// DefaultSettings returns an 8×8 level with default scoring.
func DefaultSettings(colors int, targetScore float64, movesLimit int) Settings {
	return Settings{
		Rows:         DefaultRows,
		Cols:         DefaultCols,
		Colors:       colors,
		TargetScore:  targetScore,
		MovesLimit:   movesLimit,
		ScorePerTile: DefaultScorePerTile,
		ComboStep:    DefaultComboStep,
		MinMatch:     DefaultMinMatch,
	}
}

// Validate rejects settings the engine cannot run. Values are never clamped.
func (s Settings) Validate() error {
	switch {
	case s.Colors < MinColors || s.Colors > core.PaletteSize:
		return ValidationError{
			Code:    "INVALID_PALETTE",
			Message: fmt.Sprintf("total colors %d outside [%d, %d]", s.Colors, MinColors, core.PaletteSize),
		}
	case s.Rows <= 0 || s.Cols <= 0:
		return ValidationError{
			Code:    "INVALID_DIMENSIONS",
			Message: fmt.Sprintf("grid %dx%d must have positive dimensions", s.Rows, s.Cols),
		}
	case s.Rows > MaxDimension || s.Cols > MaxDimension:
		return ValidationError{
			Code:    "INVALID_DIMENSIONS",
			Message: fmt.Sprintf("grid %dx%d exceeds %dx%d", s.Rows, s.Cols, MaxDimension, MaxDimension),
		}
	case s.MovesLimit <= 0:
		return ValidationError{
			Code:    "INVALID_MOVES_LIMIT",
			Message: fmt.Sprintf("moves limit %d must be positive", s.MovesLimit),
		}
	case s.TargetScore <= 0:
		return ValidationError{
			Code:    "INVALID_TARGET_SCORE",
			Message: fmt.Sprintf("target score %g must be positive", s.TargetScore),
		}
	case s.MinMatch < DefaultMinMatch:
		return ValidationError{
			Code:    "INVALID_MIN_MATCH",
			Message: fmt.Sprintf("min match %d must be at least %d", s.MinMatch, DefaultMinMatch),
		}
	case s.MinMatch > s.Rows || s.MinMatch > s.Cols:
		return ValidationError{
			Code:    "INVALID_MIN_MATCH",
			Message: fmt.Sprintf("min match %d exceeds grid %dx%d", s.MinMatch, s.Rows, s.Cols),
		}
	case s.ScorePerTile <= 0:
		return ValidationError{
			Code:    "INVALID_SCORE_PER_TILE",
			Message: fmt.Sprintf("score per tile %g must be positive", s.ScorePerTile),
		}
	case s.ComboStep <= 0:
		return ValidationError{
			Code:    "INVALID_COMBO_STEP",
			Message: fmt.Sprintf("combo step %d must be positive", s.ComboStep),
		}
	}
	return nil
}

// invariantf formats the panic value for an engine defect.
func invariantf(format string, args ...any) string {
	return "match3: invariant violated: " + fmt.Sprintf(format, args...)
}
