package engine

// advance moves the player one cell in dir, pushing a box if one is in the
// way. Turning and moving are fused: a rejected move returns s unchanged,
// facing included.
func advance(s *State, dir Direction) *State {
	if !dir.Valid() {
		return s
	}

	target := s.Player.Step(dir)
	if !s.Passable(target) {
		return s
	}

	idx := s.BoxAt(target)
	if idx < 0 {
		next := s.with()
		next.Player = Player{Position: target, Facing: dir}
		next.History = s.History.Push(MoveFrame{Player: s.Player})
		return next
	}

	behind := target.Step(dir)
	if !s.Passable(behind) || s.BoxAt(behind) >= 0 {
		return s
	}

	cell, _ := s.CellAt(behind)
	boxes := make([]Box, len(s.Boxes))
	copy(boxes, s.Boxes)
	boxes[idx] = Box{Position: behind, OnGoal: cell == Goal}

	next := s.with()
	next.Player = Player{Position: target, Facing: dir}
	next.Boxes = boxes
	next.History = s.History.Push(PushFrame{Player: s.Player, Boxes: s.Boxes})
	if allBoxesOnGoals(next) {
		next.Status = Finished
	}
	return next
}

// allBoxesOnGoals checks the live terrain under every box rather than the
// boxes' OnGoal flags, which are only refreshed for the box that moved.
func allBoxesOnGoals(s *State) bool {
	for _, b := range s.Boxes {
		if cell, ok := s.CellAt(b.Position); !ok || cell != Goal {
			return false
		}
	}
	return true
}

// CanAdvance reports whether an absolute move in dir would be accepted.
func (s *State) CanAdvance(dir Direction) bool {
	if s.Status != Ready {
		return false
	}
	return advance(s, dir) != s
}

// PossibleDirections lists the absolute directions that would move the player.
func (s *State) PossibleDirections() []string {
	var possible []string
	for _, dir := range []Direction{North, East, South, West} {
		if s.CanAdvance(dir) {
			possible = append(possible, string(dir))
		}
	}
	return possible
}
