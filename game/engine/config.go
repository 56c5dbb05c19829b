package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidLevel = errors.New("invalid level")

// LevelConfig is a level definition as stored in the levels directory
type LevelConfig struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Layout      []string `json:"layout" yaml:"layout"`
	Messages    struct {
		Welcome string `json:"welcome" yaml:"welcome"`
		Victory string `json:"victory" yaml:"victory"`
		Blocked string `json:"blocked" yaml:"blocked"`
	} `json:"messages" yaml:"messages"`
}

// Legend maps layout characters to setup markers. It covers every character
// Render writes, so a rendered board loads back as the same position.
var Legend = map[rune]Symbol{
	'#': SymWall,
	' ': SymEmpty,
	'-': SymEmpty,
	'_': SymEmpty,
	'.': SymGoal,
	'@': SymPlayer,
	'+': SymPlayerOnGoal,
	'$': SymBox,
	'*': SymBoxOnGoal,
}

// ParseLayout converts text rows into a marker grid. Rows keep their own
// length; trailing spaces are significant.
func ParseLayout(layout []string) ([][]Symbol, error) {
	grid := make([][]Symbol, len(layout))
	for r, line := range layout {
		row := make([]Symbol, 0, len(line))
		for c, ch := range []rune(line) {
			sym, ok := Legend[ch]
			if !ok {
				return nil, fmt.Errorf("%w: unknown character '%c' at row %d, col %d", ErrInvalidLevel, ch, r+1, c+1)
			}
			row = append(row, sym)
		}
		grid[r] = row
	}
	return grid, nil
}

// ValidateLevelConfig checks that a level can be loaded by the engine
func ValidateLevelConfig(level *LevelConfig) error {
	if level == nil {
		return fmt.Errorf("%w: level is nil", ErrInvalidLevel)
	}
	if strings.TrimSpace(level.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLevel)
	}
	if len(level.Layout) == 0 {
		return fmt.Errorf("%w: layout is empty", ErrInvalidLevel)
	}
	if len(level.Layout) > MaxLevelRows {
		return fmt.Errorf("%w: layout has %d rows, max is %d", ErrInvalidLevel, len(level.Layout), MaxLevelRows)
	}

	grid, err := ParseLayout(level.Layout)
	if err != nil {
		return err
	}

	players := 0
	for r, row := range grid {
		if len(row) > MaxLevelCols {
			return fmt.Errorf("%w: row %d has %d columns, max is %d", ErrInvalidLevel, r+1, len(row), MaxLevelCols)
		}
		for _, sym := range row {
			if sym == SymPlayer || sym == SymPlayerOnGoal {
				players++
			}
		}
	}
	if players != 1 {
		return fmt.Errorf("%w: layout must contain exactly one player (@ or +), got %d", ErrInvalidLevel, players)
	}

	return nil
}

// DefaultLevel returns the built-in level used when no level files exist.
func DefaultLevel() *LevelConfig {
	level := &LevelConfig{
		Name:        "default",
		Description: "Built-in two box warm-up",
		Layout: []string{
			"#######",
			"#     #",
			"# @$. #",
			"#  $. #",
			"#     #",
			"#######",
		},
	}
	level.Messages.Welcome = "Push every box onto a goal."
	level.Messages.Victory = "Level complete!"
	level.Messages.Blocked = "Can't move there!"
	return level
}
