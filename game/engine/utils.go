package engine

import "strings"

// BoxesOnGoals counts boxes whose cell is Goal terrain
func BoxesOnGoals(s *State) int {
	count := 0
	for _, b := range s.Boxes {
		if cell, ok := s.CellAt(b.Position); ok && cell == Goal {
			count++
		}
	}
	return count
}

// RemainingBoxes counts boxes not yet on a goal
func RemainingBoxes(s *State) int {
	return len(s.Boxes) - BoxesOnGoals(s)
}

// CountCellType counts the terrain cells of the given type
func CountCellType(terrain [][]Cell, cellType Cell) int {
	count := 0
	for _, row := range terrain {
		for _, cell := range row {
			if cell == cellType {
				count++
			}
		}
	}
	return count
}

// Render draws the state with the layout legend; '+' is the player on a goal.
func Render(s *State) []string {
	if s == nil || len(s.Terrain) == 0 {
		return nil
	}

	lines := make([]string, len(s.Terrain))
	for r, row := range s.Terrain {
		var b strings.Builder
		for c, cell := range row {
			pos := Position{Row: r, Col: c}
			onGoal := cell == Goal
			switch {
			case s.Status != NotSetUp && s.Player.Position == pos:
				if onGoal {
					b.WriteByte('+')
				} else {
					b.WriteByte('@')
				}
			case s.BoxAt(pos) >= 0:
				if onGoal {
					b.WriteByte('*')
				} else {
					b.WriteByte('$')
				}
			case cell == Wall:
				b.WriteByte('#')
			case onGoal:
				b.WriteByte('.')
			default:
				b.WriteByte(' ')
			}
		}
		lines[r] = b.String()
	}
	return lines
}
