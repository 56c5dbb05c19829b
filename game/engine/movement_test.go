package engine

import (
	"reflect"
	"slices"
	"testing"
)

func apply(t *testing.T, s *State, cmd CommandType) *State {
	t.Helper()
	next, err := Apply(s, Command{Type: cmd})
	if err != nil {
		t.Fatalf("Apply(%s) returned error: %v", cmd, err)
	}
	return next
}

func TestAdvance_DirectionMapping(t *testing.T) {
	tests := []struct {
		cmd      CommandType
		deltaRow int
		deltaCol int
	}{
		{CmdNorth, -1, 0},
		{CmdSouth, 1, 0},
		{CmdEast, 0, 1},
		{CmdWest, 0, -1},
	}

	for _, test := range tests {
		t.Run(string(test.cmd), func(t *testing.T) {
			state := mustSetup(t,
				"   ",
				" @ ",
				"   ",
			)
			next := apply(t, state, test.cmd)

			expected := Position{Row: 1 + test.deltaRow, Col: 1 + test.deltaCol}
			if next.Player.Position != expected {
				t.Errorf("Move %s: expected %+v, got %+v", test.cmd, expected, next.Player.Position)
			}
			if next.Player.Facing != Direction(test.cmd) {
				t.Errorf("Move %s: expected facing %s, got %s", test.cmd, test.cmd, next.Player.Facing)
			}
			if next.Depth() != 1 {
				t.Errorf("Expected one history frame, got %d", next.Depth())
			}
			if _, ok := next.History.Peek(); !ok {
				t.Fatal("Expected a history frame")
			}
			frame, _ := next.History.Peek()
			if _, ok := frame.(MoveFrame); !ok {
				t.Errorf("Expected a MoveFrame, got %T", frame)
			}
			if frame.Before() != state.Player {
				t.Errorf("Expected frame to hold pre-move player %+v, got %+v", state.Player, frame.Before())
			}
		})
	}
}

func TestAdvance_BlockedLeavesFacingUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		cmd    CommandType
	}{
		{"wall", []string{"@#"}, CmdEast},
		{"grid edge west", []string{"@ "}, CmdWest},
		{"grid edge north", []string{"@ "}, CmdNorth},
		{"grid edge south", []string{"@ "}, CmdSouth},
		{"box against wall", []string{"@$#"}, CmdEast},
		{"box against grid edge", []string{"@$"}, CmdEast},
		{"box against box", []string{"@$$."}, CmdEast},
		{"box against box on goal", []string{"@$*"}, CmdEast},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state := mustSetup(t, test.layout...)
			before := state.Player
			boxes := slices.Clone(state.Boxes)

			next := apply(t, state, test.cmd)
			if next != state {
				t.Fatal("Expected the identical state for a rejected move")
			}
			if next.Player != before {
				t.Errorf("Expected player %+v, got %+v", before, next.Player)
			}
			if next.Player.Facing != North {
				t.Errorf("Expected facing to stay %s, got %s", North, next.Player.Facing)
			}
			if !reflect.DeepEqual(next.Boxes, boxes) {
				t.Errorf("Expected boxes %+v, got %+v", boxes, next.Boxes)
			}
			if next.Depth() != 0 {
				t.Errorf("Expected no history frame, got %d", next.Depth())
			}
		})
	}
}

func TestAdvance_OntoGoal(t *testing.T) {
	state := mustSetup(t, "@.")
	next := apply(t, state, CmdEast)

	if next.Player.Position != (Position{Row: 0, Col: 1}) {
		t.Errorf("Expected player on the goal at (0,1), got %+v", next.Player.Position)
	}
	if next.Status != Ready {
		t.Errorf("Walking onto a goal must not finish the level, got %s", next.Status)
	}
}

func TestAdvance_Push(t *testing.T) {
	state := mustSetup(t, "@$ .$.")
	next := apply(t, state, CmdEast)

	if next.Player.Position != (Position{Row: 0, Col: 1}) {
		t.Errorf("Expected player in the box's old cell, got %+v", next.Player.Position)
	}
	if next.Player.Facing != East {
		t.Errorf("Expected facing %s, got %s", East, next.Player.Facing)
	}
	expected := Box{Position: Position{Row: 0, Col: 2}, OnGoal: false}
	if next.Boxes[0] != expected {
		t.Errorf("Expected pushed box %+v, got %+v", expected, next.Boxes[0])
	}
	if next.Boxes[1] != state.Boxes[1] {
		t.Errorf("Expected other box untouched, got %+v", next.Boxes[1])
	}

	frame, ok := next.History.Peek()
	if !ok {
		t.Fatal("Expected a history frame")
	}
	push, ok := frame.(PushFrame)
	if !ok {
		t.Fatalf("Expected a PushFrame, got %T", frame)
	}
	if push.Player != state.Player {
		t.Errorf("Expected frame player %+v, got %+v", state.Player, push.Player)
	}
	if !reflect.DeepEqual(push.Boxes, state.Boxes) {
		t.Errorf("Expected frame boxes %+v, got %+v", state.Boxes, push.Boxes)
	}

	// onto the goal
	next = apply(t, next, CmdEast)
	if !next.Boxes[0].OnGoal {
		t.Error("Expected box pushed onto a goal to be flagged on goal")
	}
	if next.Status != Ready {
		t.Errorf("Expected level to continue with one box left, got %s", next.Status)
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	state := mustSetup(t, "@$ .")
	player := state.Player
	boxes := slices.Clone(state.Boxes)

	_ = apply(t, state, CmdEast)
	_ = apply(t, state, CmdRight)

	if state.Player != player {
		t.Errorf("Input player changed: %+v", state.Player)
	}
	if !reflect.DeepEqual(state.Boxes, boxes) {
		t.Errorf("Input boxes changed: %+v", state.Boxes)
	}
	if state.Depth() != 0 {
		t.Errorf("Input history changed: %d frames", state.Depth())
	}
}

func TestAdvance_ColumnExample(t *testing.T) {
	grid := [][]Symbol{{SymPlayer}, {SymBox}, {SymGoal}}
	state, err := Apply(NewState(), SetupCommand(grid))
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	facingSouth := *state
	facingSouth.Player.Facing = South

	next := apply(t, &facingSouth, CmdLeft)

	if next.Player.Position != (Position{Row: 1, Col: 0}) {
		t.Errorf("Expected player at (1,0), got %+v", next.Player.Position)
	}
	expected := []Box{{Position: Position{Row: 2, Col: 0}, OnGoal: true}}
	if !reflect.DeepEqual(next.Boxes, expected) {
		t.Errorf("Expected boxes %+v, got %+v", expected, next.Boxes)
	}
	if next.Status != Finished {
		t.Errorf("Expected status %s, got %s", Finished, next.Status)
	}
}

func TestWin_RequiresEveryBox(t *testing.T) {
	state := mustSetup(t,
		"@$.",
		" $.",
	)

	state = apply(t, state, CmdEast)
	if state.Status != Ready {
		t.Fatalf("Expected ready after first box, got %s", state.Status)
	}

	state = apply(t, state, CmdWest)
	state = apply(t, state, CmdSouth)
	state = apply(t, state, CmdEast)
	if state.Status != Finished {
		t.Errorf("Expected finished after both boxes, got %s", state.Status)
	}
}

func TestWin_NoStaleWinWhenPushingOffGoal(t *testing.T) {
	state := mustSetup(t, "@* .")
	if state.Status != Ready {
		t.Fatalf("Setup must not evaluate the win condition, got %s", state.Status)
	}

	state = apply(t, state, CmdEast)
	if state.Status != Ready {
		t.Fatalf("Pushing the only box off its goal must not finish, got %s", state.Status)
	}
	if state.Boxes[0].OnGoal {
		t.Error("Expected box pushed off a goal to lose its on-goal flag")
	}

	state = apply(t, state, CmdEast)
	if state.Status != Finished {
		t.Errorf("Expected finished once the box is back on a goal, got %s", state.Status)
	}
}

func TestWin_UsesTerrainNotFlags(t *testing.T) {
	state := mustSetup(t, "@$.  ")

	// a box whose flag claims a goal that the terrain does not have
	forged := *state
	forged.Boxes = append(append([]Box(nil), state.Boxes...), Box{Position: Position{Row: 0, Col: 4}, OnGoal: true})

	next := apply(t, &forged, CmdEast)
	if !next.Boxes[0].OnGoal {
		t.Fatal("Expected the pushed box to be on its goal")
	}
	if next.Status != Ready {
		t.Errorf("Expected win check to read terrain, got status %s", next.Status)
	}
}

func TestWin_SimpleMovesNeverFinish(t *testing.T) {
	// every box already on a goal: only a push evaluates the win
	state := mustSetup(t, "@ *")
	next := apply(t, state, CmdEast)
	if next.Status != Ready {
		t.Errorf("Expected a plain move to leave status %s, got %s", Ready, next.Status)
	}
}

func TestPossibleDirections(t *testing.T) {
	state := mustSetup(t,
		"###",
		"#@$ ",
		"# ##",
	)

	got := state.PossibleDirections()
	expected := []string{"east", "south"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	if NewState().CanAdvance(North) {
		t.Error("Expected no moves before setup")
	}
}
