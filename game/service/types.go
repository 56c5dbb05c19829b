package service

import (
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// Event types reported in results
const (
	EventMove    = "move"
	EventPush    = "push"
	EventTurn    = "turn"
	EventUndo    = "undo"
	EventBlocked = "blocked"
	EventVictory = "victory"
	EventReset   = "reset"
)

// Bulk stop codes
const (
	StopRejected       = engine.StopRejected
	StopUnknownCommand = engine.StopUnknownCommand
	StopFinished       = engine.StopFinished
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelID        string              `json:"level_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *GameView           `json:"game_state"`
	Level          *engine.LevelConfig `json:"level"`
}

// GameView is the state plus the read-only aids clients render from
type GameView struct {
	State          *engine.State `json:"state"`
	Board          []string      `json:"board"`
	BoxesOnGoals   int           `json:"boxes_on_goals"`
	RemainingBoxes int           `json:"remaining_boxes"`
	UndoDepth      int           `json:"undo_depth"`
	PossibleMoves  []string      `json:"possible_moves"`
	Message        string        `json:"message,omitempty"`
}

// CommandResult contains the result of a single command
type CommandResult struct {
	Changed   bool        `json:"changed"`
	GameState *GameView   `json:"game_state"`
	Message   string      `json:"message"`
	Events    []GameEvent `json:"events,omitempty"`
	Step      *StepInfo   `json:"step,omitempty"`
}

// BulkCommandResult contains the result of several commands
type BulkCommandResult struct {
	// Summary
	CommandsExecuted  int         `json:"commands_executed"`
	RequestedCommands int         `json:"requested_commands"`
	Success           bool        `json:"success"`
	GameState         *GameView   `json:"game_state"`
	Events            []GameEvent `json:"events"`
	StoppedReason     string      `json:"stopped_reason,omitempty"`
	StopReasonCode    string      `json:"stop_reason_code,omitempty"` // rejected|unknown_command|finished
	StoppedOnCommand  int         `json:"stopped_on_command,omitempty"`
	Truncated         bool        `json:"truncated,omitempty"`
	Limit             int         `json:"limit,omitempty"`

	// Start/end snapshot
	StartPlayer engine.Player `json:"start_player"`
	EndPlayer   engine.Player `json:"end_player"`
	PushCount   int           `json:"push_count"`

	// Per-step trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	Finished bool   `json:"finished"`
	Message  string `json:"message,omitempty"`
}

// StepInfo is a compact record of one executed command
type StepInfo struct {
	Idx      int                `json:"idx"`
	Command  engine.CommandType `json:"command"`
	From     engine.Player      `json:"from"`
	To       engine.Player      `json:"to"`
	Changed  bool               `json:"changed"`
	Pushed   bool               `json:"pushed,omitempty"`
	Finished bool               `json:"finished,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures command log retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the command log
type HistoryResponse struct {
	Entries      []engine.LogEntry `json:"entries"`
	TotalEntries int               `json:"total_entries"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	TotalPages   int               `json:"total_pages"`
	HasNext      bool              `json:"has_next"`
	HasPrevious  bool              `json:"has_previous"`
}

// LevelInfo describes a level file
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Boxes       int    `json:"boxes"`
	Format      string `json:"format"` // json or yaml
}
