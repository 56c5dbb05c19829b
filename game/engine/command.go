package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

// CommandType names one entry of the command vocabulary
type CommandType string

const (
	CmdSetup CommandType = "setup"

	// Absolute directions: face and advance in one step.
	CmdNorth CommandType = "north"
	CmdSouth CommandType = "south"
	CmdEast  CommandType = "east"
	CmdWest  CommandType = "west"

	// Relative pad buttons, resolved against the current facing.
	CmdUp    CommandType = "up"
	CmdDown  CommandType = "down"
	CmdLeft  CommandType = "left"
	CmdRight CommandType = "right"

	CmdUndo CommandType = "undo"
)

// Command is a single input to Apply. Grid is only read for CmdSetup.
type Command struct {
	Type CommandType `json:"type"`
	Grid [][]Symbol  `json:"grid,omitempty"`
}

// SetupCommand builds a setup command for grid.
func SetupCommand(grid [][]Symbol) Command {
	return Command{Type: CmdSetup, Grid: grid}
}

// IsAbsolute reports whether t is one of the four compass commands.
func (t CommandType) IsAbsolute() bool {
	return Direction(t).Valid()
}

// IsPad reports whether t is one of the four relative pad buttons.
func (t CommandType) IsPad() bool {
	switch t {
	case CmdUp, CmdDown, CmdLeft, CmdRight:
		return true
	}
	return false
}

// GameplayCommands lists every command accepted after setup.
var GameplayCommands = []CommandType{
	CmdNorth, CmdSouth, CmdEast, CmdWest,
	CmdUp, CmdDown, CmdLeft, CmdRight,
	CmdUndo,
}

// ParseCommandType parses a command word, case-insensitively. Single-letter
// shorthands n/s/e/w and z (undo) are accepted.
func ParseCommandType(word string) (CommandType, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	switch w {
	case "n":
		return CmdNorth, nil
	case "s":
		return CmdSouth, nil
	case "e":
		return CmdEast, nil
	case "w":
		return CmdWest, nil
	case "z":
		return CmdUndo, nil
	}
	for _, t := range GameplayCommands {
		if CommandType(w) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCommand, word)
}

// Apply computes the state that results from cmd. A command that changes
// nothing returns s itself, so callers can detect no-ops by pointer equality.
// s is never modified. A nil s is treated as NewState().
//
// The only error is a setup grid that breaks the one-player contract; s is
// returned with it.
func Apply(s *State, cmd Command) (*State, error) {
	if s == nil {
		s = NewState()
	}

	if cmd.Type == CmdSetup {
		return setup(s, cmd.Grid)
	}
	if s.Status != Ready {
		return s, nil
	}

	switch {
	case cmd.Type == CmdUndo:
		return undo(s), nil
	case cmd.Type.IsAbsolute():
		return advance(s, Direction(cmd.Type)), nil
	case cmd.Type.IsPad():
		return pad(s, cmd.Type), nil
	}
	return s, nil
}
