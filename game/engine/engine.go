package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *State
	SetState(state *State) error
	Reset() *State
	IsFinished() bool
	GetPlayer() Player

	// Commands
	Apply(cmd Command) (bool, error)
	Execute(word string) (bool, error)
	Undo() bool
	CanMove(dir Direction) bool
	GetPossibleMoves() []string

	// Level
	GetLevel() *LevelConfig

	// Command log
	GetLog() []LogEntry
	GetLastEntry() *LogEntry
}

// LogEntry records one command executed by a GameEngine
type LogEntry struct {
	Command   CommandType `json:"command"`
	From      Player      `json:"from"`
	To        Player      `json:"to"`
	Pushed    bool        `json:"pushed,omitempty"`
	Changed   bool        `json:"changed"`
	Status    Status      `json:"status"`
	Depth     int         `json:"depth"`
	Timestamp int64       `json:"timestamp"`
	Sequence  int         `json:"sequence"`
}

// GameEngine implements the Engine interface on top of Apply. It is not safe
// for concurrent use.
type GameEngine struct {
	level *LevelConfig
	state *State
	log   []LogEntry
}

// NewEngine creates a game engine and sets up the given level
func NewEngine(level *LevelConfig) (*GameEngine, error) {
	if err := ValidateLevelConfig(level); err != nil {
		return nil, err
	}

	state, err := initialState(level)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		level: level,
		state: state,
		log:   []LogEntry{},
	}, nil
}

// NewEngineWithDefaults creates a game engine on the built-in level
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultLevel())
	if err != nil {
		panic(fmt.Sprintf("default level: %v", err))
	}
	return e
}

func initialState(level *LevelConfig) (*State, error) {
	grid, err := ParseLayout(level.Layout)
	if err != nil {
		return nil, err
	}
	return Apply(NewState(), SetupCommand(grid))
}

// GetState returns the current state
func (e *GameEngine) GetState() *State {
	return e.state
}

// SetState replaces the current state (used for persistence loading)
func (e *GameEngine) SetState(state *State) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// SetLog replaces the command log (used for persistence loading)
func (e *GameEngine) SetLog(entries []LogEntry) {
	if entries == nil {
		entries = []LogEntry{}
	}
	e.log = entries
}

// Reset sets the level up again. The command log is kept.
func (e *GameEngine) Reset() *State {
	state, err := initialState(e.level)
	if err != nil {
		// the level was validated by NewEngine
		panic(fmt.Sprintf("reset: %v", err))
	}
	e.state = state
	return e.state
}

// IsFinished returns whether every box has reached a goal
func (e *GameEngine) IsFinished() bool {
	return e.state.Status == Finished
}

// GetPlayer returns the current player
func (e *GameEngine) GetPlayer() Player {
	return e.state.Player
}

// Apply runs a command against the current state and logs it. It reports
// whether the state changed.
func (e *GameEngine) Apply(cmd Command) (bool, error) {
	prev := e.state
	next, err := Apply(prev, cmd)
	if err != nil {
		return false, err
	}
	e.state = next

	changed := next != prev
	pushed := false
	if next.Depth() > prev.Depth() {
		if f, ok := next.History.Peek(); ok {
			_, pushed = f.(PushFrame)
		}
	}
	e.log = append(e.log, LogEntry{
		Command:   cmd.Type,
		From:      prev.Player,
		To:        next.Player,
		Pushed:    pushed,
		Changed:   changed,
		Status:    next.Status,
		Depth:     next.Depth(),
		Timestamp: time.Now().Unix(),
		Sequence:  len(e.log) + 1,
	})
	return changed, nil
}

// Execute parses a command word and applies it
func (e *GameEngine) Execute(word string) (bool, error) {
	t, err := ParseCommandType(word)
	if err != nil {
		return false, err
	}
	return e.Apply(Command{Type: t})
}

// Undo reverts the last successful move
func (e *GameEngine) Undo() bool {
	changed, _ := e.Apply(Command{Type: CmdUndo})
	return changed
}

// CanMove checks if an absolute move in dir would succeed
func (e *GameEngine) CanMove(dir Direction) bool {
	return e.state.CanAdvance(dir)
}

// GetPossibleMoves returns the absolute directions that would move the player
func (e *GameEngine) GetPossibleMoves() []string {
	return e.state.PossibleDirections()
}

// GetLevel returns the level this engine plays
func (e *GameEngine) GetLevel() *LevelConfig {
	return e.level
}

// GetLog returns every logged command
func (e *GameEngine) GetLog() []LogEntry {
	return e.log
}

// GetLastEntry returns the last logged command, or nil
func (e *GameEngine) GetLastEntry() *LogEntry {
	if len(e.log) == 0 {
		return nil
	}
	return &e.log[len(e.log)-1]
}

// Reasons a BulkExecute run stopped before its last word
const (
	StopRejected       = "rejected"
	StopUnknownCommand = "unknown_command"
	StopFinished       = "finished"
)

// BulkOutcome reports a BulkExecute run. Entries holds one log entry per
// applied word, including a final rejected one. StopIndex is the 0-based
// index of the word that stopped the run, or -1 when every word ran.
type BulkOutcome struct {
	Entries   []LogEntry
	Stop      string
	StopIndex int
	Err       error
}

// BulkExecute runs command words in order. It stops before a word once the
// level is finished, at a word that fails to parse, and after the first word
// that changes nothing.
func (e *GameEngine) BulkExecute(words []string) BulkOutcome {
	out := BulkOutcome{
		Entries:   make([]LogEntry, 0, len(words)),
		StopIndex: -1,
	}

	for i, word := range words {
		if e.IsFinished() {
			out.Stop, out.StopIndex = StopFinished, i
			break
		}

		changed, err := e.Execute(word)
		if err != nil {
			out.Stop, out.StopIndex, out.Err = StopUnknownCommand, i, err
			break
		}
		out.Entries = append(out.Entries, *e.GetLastEntry())
		if !changed {
			out.Stop, out.StopIndex = StopRejected, i
			break
		}
	}

	return out
}
