// Package engine provides the rules engine for the box-pushing puzzle.
//
// The engine package implements:
//   - Level setup from a grid of markers (walls, goals, boxes, the player)
//   - The player's facing and the relative pad buttons
//   - Moves, box pushes and win detection
//   - Stepwise undo
//
// Core Types:
//
// State is an immutable snapshot of a level. Apply is the single transition
// function: it takes a state and a Command and returns the next state. A
// command that changes nothing returns the very same *State, so callers can
// detect no-ops with ==. GameEngine wraps Apply for callers that want a
// mutable handle plus a command log.
//
// Usage:
//
//	grid, err := engine.ParseLayout([]string{
//		"#####",
//		"#@$.#",
//		"#####",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, err := engine.Apply(engine.NewState(), engine.SetupCommand(grid))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, _ = engine.Apply(state, engine.Command{Type: engine.CmdEast})
//	fmt.Println(state.Status) // finished
//
// Game Rules:
//
// The player walks on empty and goal cells and can push one box at a time
// into a free cell. Absolute commands (north, south, east, west) face and
// step in one go; a blocked step changes nothing. Pad buttons (up, down,
// left, right) turn the player or, for some facings, step forward. The level
// is finished when a push leaves every box on a goal. Once finished, nothing
// changes the state, not even undo.
package engine
