package nav

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid navigation config")

// MaxSize is the largest board side the engine accepts.
const MaxSize = 256

// Config holds the construction-time knobs of the engine.
type Config struct {
	// Size is the board side N.
	Size int `yaml:"size" json:"size"`

	// SearchThreshold is the occupancy ratio up to which the controller
	// prefers A*. Above it the controller follows the cycle.
	SearchThreshold float64 `yaml:"search_threshold" json:"search_threshold"`

	// ShortcutThreshold disables cycle shortcuts once the body covers this
	// fraction of the board.
	ShortcutThreshold float64 `yaml:"shortcut_threshold" json:"shortcut_threshold"`

	// HeuristicWeight scales the Manhattan heuristic. 1.0 keeps A* optimal.
	HeuristicWeight float64 `yaml:"heuristic_weight" json:"heuristic_weight"`

	// Hysteresis keeps CYCLE mode until occupancy drops below
	// SearchThreshold-Hysteresis. Zero switches purely on the threshold.
	Hysteresis float64 `yaml:"hysteresis" json:"hysteresis"`
}

// DefaultConfig returns the baseline thresholds for an n×n board.
func DefaultConfig(n int) Config {
	return Config{
		Size:              n,
		SearchThreshold:   0.5,
		ShortcutThreshold: 0.7,
		HeuristicWeight:   1.0,
		Hysteresis:        0,
	}
}

func (c Config) Validate() error {
	if c.Size > MaxSize {
		return fmt.Errorf("%w: size %d exceeds %d", ErrInvalidConfig, c.Size, MaxSize)
	}
	if c.Size < 2 || c.Size%2 != 0 {
		return fmt.Errorf("%w: size %d: %w", ErrInvalidConfig, c.Size, ErrNoCycle)
	}
	if c.SearchThreshold <= 0 || c.SearchThreshold > 1 {
		return fmt.Errorf("%w: search_threshold %.3f not in (0,1]", ErrInvalidConfig, c.SearchThreshold)
	}
	if c.ShortcutThreshold <= 0 || c.ShortcutThreshold > 1 {
		return fmt.Errorf("%w: shortcut_threshold %.3f not in (0,1]", ErrInvalidConfig, c.ShortcutThreshold)
	}
	if c.HeuristicWeight < 0 {
		return fmt.Errorf("%w: heuristic_weight %.3f is negative", ErrInvalidConfig, c.HeuristicWeight)
	}
	if c.Hysteresis < 0 || c.Hysteresis >= c.SearchThreshold {
		return fmt.Errorf("%w: hysteresis %.3f not in [0,search_threshold)", ErrInvalidConfig, c.Hysteresis)
	}
	return nil
}
