package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoPlayer        = errors.New("level has no player marker")
	ErrMultiplePlayers = errors.New("level has more than one player marker")
)

// SetupError describes a grid that violates the setup contract.
type SetupError struct {
	Rows    int
	Players int
	Err     error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup: %v (rows=%d, players=%d)", e.Err, e.Rows, e.Players)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// setup converts a raw marker grid into terrain and initial entities. It is a
// no-op unless s has not been set up yet.
func setup(s *State, grid [][]Symbol) (*State, error) {
	if s.Status != NotSetUp {
		return s, nil
	}

	terrain := make([][]Cell, len(grid))
	var (
		player  Player
		players int
		plain   []Box
		onGoal  []Box
		goals   []Position
	)

	for r, row := range grid {
		terrain[r] = make([]Cell, len(row))
		for c, sym := range row {
			pos := Position{Row: r, Col: c}
			switch sym {
			case SymPlayer, SymPlayerOnGoal:
				if players == 0 {
					player = Player{Position: pos, Facing: North}
				}
				players++
				terrain[r][c] = Empty
				if sym == SymPlayerOnGoal {
					goals = append(goals, pos)
					terrain[r][c] = Goal
				}
			case SymBox:
				plain = append(plain, Box{Position: pos})
				terrain[r][c] = Empty
			case SymBoxOnGoal:
				onGoal = append(onGoal, Box{Position: pos, OnGoal: true})
				goals = append(goals, pos)
				terrain[r][c] = Goal
			case SymGoal:
				goals = append(goals, pos)
				terrain[r][c] = Goal
			case SymEmpty:
				terrain[r][c] = Empty
			default:
				// wall, and anything unrecognised
				terrain[r][c] = Wall
			}
		}
	}

	switch {
	case players == 0:
		return s, &SetupError{Rows: len(grid), Players: players, Err: ErrNoPlayer}
	case players > 1:
		return s, &SetupError{Rows: len(grid), Players: players, Err: ErrMultiplePlayers}
	}

	boxes := make([]Box, 0, len(plain)+len(onGoal))
	boxes = append(boxes, plain...)
	boxes = append(boxes, onGoal...)

	return &State{
		Status:  Ready,
		Terrain: terrain,
		Player:  player,
		Boxes:   boxes,
		Goals:   goals,
	}, nil
}
