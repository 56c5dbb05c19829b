package engine

// Cell represents the static terrain of a grid square
type Cell string

const (
	Empty Cell = "empty"
	Wall  Cell = "wall"
	Goal  Cell = "goal"
)

// Symbol is a raw level marker consumed by setup
type Symbol string

const (
	SymEmpty        Symbol = "empty"
	SymWall         Symbol = "wall"
	SymGoal         Symbol = "goal"
	SymPlayer       Symbol = "player"
	SymPlayerOnGoal Symbol = "player_on_goal"
	SymBox          Symbol = "box"
	SymBoxOnGoal    Symbol = "box_on_goal"
)

// Direction is a compass facing
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// delta returns the unit row/column step for a direction.
func (d Direction) delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// Valid reports whether d is one of the four compass directions
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// Status is the level lifecycle state
type Status string

const (
	NotSetUp Status = "not_set_up"
	Ready    Status = "ready"
	Finished Status = "finished"
)

// Validation and service limits
const (
	MaxLevelRows    = 64
	MaxLevelCols    = 64
	MaxBulkCommands = 100
)

// Position represents row/column coordinates
type Position struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position {
	dr, dc := d.delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Player is the single movable avatar
type Player struct {
	Position
	Facing Direction `json:"facing"`
}

// Box is a pushable crate. OnGoal mirrors the terrain under the box at the
// moment it was last placed or moved.
type Box struct {
	Position
	OnGoal bool `json:"on_goal"`
}

// State is one immutable snapshot of a level. States returned by Apply must
// not be modified by callers; slices are shared between successive states.
type State struct {
	Status  Status     `json:"status"`
	Terrain [][]Cell   `json:"terrain"`
	Player  Player     `json:"player"`
	Boxes   []Box      `json:"boxes"`
	Goals   []Position `json:"goals"`
	History *History   `json:"-"`
}

// NewState returns the initial, not yet set up state.
func NewState() *State {
	return &State{Status: NotSetUp}
}

// CellAt returns the terrain at p. ok is false when p lies outside the grid,
// including columns past the end of a short row.
func (s *State) CellAt(p Position) (Cell, bool) {
	if p.Row < 0 || p.Row >= len(s.Terrain) {
		return "", false
	}
	row := s.Terrain[p.Row]
	if p.Col < 0 || p.Col >= len(row) {
		return "", false
	}
	return row[p.Col], true
}

// Passable reports whether p is an in-bounds Empty or Goal cell.
func (s *State) Passable(p Position) bool {
	cell, ok := s.CellAt(p)
	if !ok {
		return false
	}
	return cell == Empty || cell == Goal
}

// BoxAt returns the index of the box at p, or -1.
func (s *State) BoxAt(p Position) int {
	for i, b := range s.Boxes {
		if b.Position == p {
			return i
		}
	}
	return -1
}

// Depth returns the number of undoable moves.
func (s *State) Depth() int {
	return s.History.Len()
}

// with returns a shallow copy of s for building a successor state.
func (s *State) with() *State {
	next := *s
	return &next
}
