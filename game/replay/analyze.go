package replay

import (
	"fmt"
	"io"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

var compass = []engine.Direction{engine.North, engine.East, engine.South, engine.West}

// Analysis holds static heuristics about a level layout. It does not try to
// solve the level.
type Analysis struct {
	Name         string            `json:"name"`
	Rows         int               `json:"rows"`
	Cols         int               `json:"cols"`
	Boxes        int               `json:"boxes"`
	Goals        int               `json:"goals"`
	BoxesOnGoals int               `json:"boxes_on_goals"`
	Reachable    int               `json:"reachable"`
	Unreachable  []engine.Position `json:"unreachable,omitempty"`
	DeadCorners  []engine.Position `json:"dead_corners,omitempty"`
	StuckBoxes   []engine.Position `json:"stuck_boxes,omitempty"`
}

// Analyze sets up level and inspects the initial state.
//
// Unreachable lists boxes and goals outside the player's region when boxes
// are ignored. DeadCorners lists non-goal floor cells closed by two
// perpendicular walls; a box pushed there can never leave. StuckBoxes are
// boxes that already sit on such a cell.
func Analyze(level *engine.LevelConfig) (*Analysis, error) {
	e, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}
	s := e.GetState()

	a := &Analysis{
		Name:         level.Name,
		Rows:         len(s.Terrain),
		Boxes:        len(s.Boxes),
		Goals:        len(s.Goals),
		BoxesOnGoals: engine.BoxesOnGoals(s),
	}
	for _, row := range s.Terrain {
		if len(row) > a.Cols {
			a.Cols = len(row)
		}
	}

	region := floodFill(s, s.Player.Position)
	a.Reachable = len(region)
	for _, b := range s.Boxes {
		if !region[b.Position] {
			a.Unreachable = append(a.Unreachable, b.Position)
		}
	}
	for _, g := range s.Goals {
		if !region[g] {
			a.Unreachable = append(a.Unreachable, g)
		}
	}

	for r, row := range s.Terrain {
		for c, cell := range row {
			p := engine.Position{Row: r, Col: c}
			if cell != engine.Empty || !isCorner(s, p) {
				continue
			}
			a.DeadCorners = append(a.DeadCorners, p)
			if s.BoxAt(p) >= 0 {
				a.StuckBoxes = append(a.StuckBoxes, p)
			}
		}
	}

	return a, nil
}

// floodFill returns the passable cells connected to start.
func floodFill(s *engine.State, start engine.Position) map[engine.Position]bool {
	visited := map[engine.Position]bool{start: true}
	queue := []engine.Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range compass {
			next := current.Step(d)
			if !visited[next] && s.Passable(next) {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}

// isCorner reports whether p has a wall on two perpendicular sides.
func isCorner(s *engine.State, p engine.Position) bool {
	blocked := make([]bool, len(compass))
	for i, d := range compass {
		blocked[i] = !s.Passable(p.Step(d))
	}
	for i := range compass {
		if blocked[i] && blocked[(i+1)%len(compass)] {
			return true
		}
	}
	return false
}

// Write prints the analysis in the same style as a replay report.
func (a *Analysis) Write(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Size: %d x %d\n", a.Rows, a.Cols)
	fmt.Fprintf(w, "Boxes: %d (on goals: %d), Goals: %d\n", a.Boxes, a.BoxesOnGoals, a.Goals)
	fmt.Fprintf(w, "Reachable floor cells: %d\n", a.Reachable)

	if len(a.Unreachable) > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d boxes or goals are outside the player's region\n", len(a.Unreachable))
		for _, p := range a.Unreachable {
			fmt.Fprintf(w, "   Unreachable: (%d,%d)\n", p.Row, p.Col)
		}
	} else {
		fmt.Fprintln(w, "✅ Every box and goal is reachable")
	}

	if len(a.StuckBoxes) > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d boxes start in a dead corner\n", len(a.StuckBoxes))
	}
	if len(a.DeadCorners) > 0 {
		fmt.Fprintf(w, "Dead corners: %d\n", len(a.DeadCorners))
		for i, p := range a.DeadCorners {
			if i < 5 {
				fmt.Fprintf(w, "   Corner: (%d,%d)\n", p.Row, p.Col)
			}
		}
		if len(a.DeadCorners) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(a.DeadCorners)-5)
		}
	}
}
