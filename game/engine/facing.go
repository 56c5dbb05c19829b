package engine

// padAction is the outcome of a pad button for a given facing. Exactly one of
// turn or advance is set.
type padAction struct {
	turn    Direction
	advance Direction
}

// padTable maps (button, facing) to an action. Missing pairs are no-ops.
// Only left and right ever move the player, and only for two facings each.
var padTable = map[CommandType]map[Direction]padAction{
	CmdUp: {
		East: {turn: North},
		West: {turn: West},
	},
	CmdDown: {
		North: {turn: East},
		South: {turn: West},
	},
	CmdLeft: {
		North: {turn: West},
		East:  {turn: South},
		South: {advance: South},
		West:  {advance: West},
	},
	CmdRight: {
		North: {advance: North},
		East:  {advance: East},
		South: {turn: East},
		West:  {turn: North},
	},
}

// pad resolves a relative button press against the current facing.
func pad(s *State, button CommandType) *State {
	action, ok := padTable[button][s.Player.Facing]
	if !ok {
		return s
	}
	if action.advance != "" {
		return advance(s, action.advance)
	}
	return turn(s, action.turn)
}

// turn changes facing only. It never checks the grid or records history.
func turn(s *State, dir Direction) *State {
	if s.Player.Facing == dir {
		return s
	}
	next := s.with()
	next.Player.Facing = dir
	return next
}
