package session

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session. The level is kept
// alongside its id so a session survives edits to the level file.
type PersistedSessionData struct {
	ID             string              `json:"id"`
	LevelID        string              `json:"level_id"`
	Level          *engine.LevelConfig `json:"level,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.State       `json:"game_state"`
	Log            []engine.LogEntry   `json:"log"`
}

func snapshotSession(session *service.Session) *PersistedSessionData {
	return &PersistedSessionData{
		ID:             session.ID,
		LevelID:        session.LevelID,
		Level:          session.Level,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		Log:            session.Engine.GetLog(),
	}
}

// restoreSession rebuilds a live session from stored data. levels is only
// consulted when the stored data carries no level.
func restoreSession(data *PersistedSessionData, levels service.LevelManager) (*service.Session, error) {
	level := data.Level
	if level == nil {
		if levels == nil {
			return nil, fmt.Errorf("no level stored for session %s", data.ID)
		}
		var err error
		level, err = levels.LoadLevel(data.LevelID)
		if err != nil {
			return nil, fmt.Errorf("failed to load level '%s': %w", data.LevelID, err)
		}
	}

	gameEngine, err := engine.NewEngine(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	if data.GameState != nil {
		if err := gameEngine.SetState(data.GameState); err != nil {
			return nil, fmt.Errorf("failed to set game state: %w", err)
		}
	}
	gameEngine.SetLog(data.Log)

	return &service.Session{
		ID:             data.ID,
		LevelID:        data.LevelID,
		Engine:         gameEngine,
		Level:          level,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
