package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, levelID string, level *engine.LevelConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		LevelID:        levelID,
		Engine:         eng,
		Level:          level,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, levelID string, level *engine.LevelConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, levelID, level)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockLevelManager implements service.LevelManager for testing
type MockLevelManager struct {
	levels map[string]*engine.LevelConfig
}

func createTestLevel() *engine.LevelConfig {
	level := &engine.LevelConfig{
		Name:        "test",
		Description: "Test level",
		Layout: []string{
			"#######",
			"#@ $ .#",
			"#     #",
			"#######",
		},
	}
	level.Messages.Welcome = "Welcome to test!"
	level.Messages.Victory = "Solved!"
	level.Messages.Blocked = "Bump!"
	return level
}

func NewMockLevelManager() *MockLevelManager {
	level := createTestLevel()
	return &MockLevelManager{
		levels: map[string]*engine.LevelConfig{
			"test": level,
		},
	}
}

func (m *MockLevelManager) LoadLevel(name string) (*engine.LevelConfig, error) {
	level, exists := m.levels[name]
	if !exists {
		return nil, service.ErrLevelNotFound
	}
	return level, nil
}

func (m *MockLevelManager) ListLevels() ([]*service.LevelInfo, error) {
	result := make([]*service.LevelInfo, 0, len(m.levels))
	for name, level := range m.levels {
		result = append(result, &service.LevelInfo{
			Filename:    name + ".json",
			LevelID:     name,
			Name:        level.Name,
			Description: level.Description,
			Rows:        len(level.Layout),
		})
	}
	return result, nil
}

func (m *MockLevelManager) GetDefault() *engine.LevelConfig {
	return m.levels["test"]
}

func (m *MockLevelManager) DefaultID() string {
	return "test"
}

func (m *MockLevelManager) SaveLevel(name string, level *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return err
	}
	m.levels[name] = level
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager, string) {
	t.Helper()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions, NewMockLevelManager())

	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, sessions, info.ID
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockLevelManager())

	tests := []struct {
		name    string
		levelID string
		wantErr error
	}{
		{
			name:    "create with default level",
			levelID: "",
		},
		{
			name:    "create with specific level",
			levelID: "test",
		},
		{
			name:    "create with unknown level",
			levelID: "nonexistent",
			wantErr: service.ErrLevelNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.levelID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), "test") {
					t.Errorf("Expected available levels in error, got %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}
			if info.LevelID != "test" {
				t.Errorf("Expected level id test, got %q", info.LevelID)
			}
			if info.GameState.State.Status != engine.Ready {
				t.Errorf("Expected ready status, got %s", info.GameState.State.Status)
			}
			if info.GameState.Message != "Welcome to test!" {
				t.Errorf("Expected welcome message, got %q", info.GameState.Message)
			}
			if info.GameState.RemainingBoxes != 1 {
				t.Errorf("Expected 1 remaining box, got %d", info.GameState.RemainingBoxes)
			}
		})
	}
}

func TestGameService_Command(t *testing.T) {
	ctx := context.Background()
	svc, sessions, id := newTestService(t)

	tests := []struct {
		name      string
		command   string
		changed   bool
		eventType string
		message   string
	}{
		{"pad up while facing north does nothing", "up", false, service.EventBlocked, "Bump!"},
		{"pad down turns east", "down", true, service.EventTurn, "Now facing east"},
		{"move east", "east", true, service.EventMove, "Moved east to (1,2)"},
		{"north into a wall", "north", false, service.EventBlocked, "Bump!"},
		{"push the box", "EAST", true, service.EventPush, "Pushed a box east"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Command(ctx, id, tt.command, false)
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if result.Changed != tt.changed {
				t.Errorf("Expected changed=%v, got %v", tt.changed, result.Changed)
			}
			if len(result.Events) == 0 || result.Events[0].Type != tt.eventType {
				t.Fatalf("Expected %s event, got %+v", tt.eventType, result.Events)
			}
			if result.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, result.Message)
			}
			if result.Step == nil || result.Step.Changed != tt.changed {
				t.Errorf("Expected step info, got %+v", result.Step)
			}
		})
	}

	// finishing push reports victory
	result, err := svc.Command(ctx, id, "east", false)
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	last := result.Events[len(result.Events)-1]
	if last.Type != service.EventVictory || last.Message != "Solved!" {
		t.Errorf("Expected victory event, got %+v", last)
	}
	if !result.Step.Finished || result.GameState.State.Status != engine.Finished {
		t.Errorf("Expected finished state, got %+v", result.GameState.State.Status)
	}

	// no more input once finished
	result, err = svc.Command(ctx, id, "west", false)
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if result.Changed || result.Message != "The level is already finished" {
		t.Errorf("Expected finished level to ignore input, got changed=%v message=%q", result.Changed, result.Message)
	}

	// reset before the command
	result, err = svc.Command(ctx, id, "east", true)
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if result.Events[0].Type != service.EventReset || !result.Changed {
		t.Errorf("Expected reset then move, got %+v", result.Events)
	}
	if result.GameState.State.Player.Position != (engine.Position{Row: 1, Col: 2}) {
		t.Errorf("Expected player at (1,2), got %+v", result.GameState.State.Player.Position)
	}

	if sessions.saves == 0 {
		t.Error("Expected commands to save the session")
	}
}

func TestGameService_CommandErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	if _, err := svc.Command(ctx, id, "jump", false); !errors.Is(err, engine.ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}
	if _, err := svc.Command(ctx, "nonexistent", "north", false); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_Undo(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	result, err := svc.Undo(ctx, id)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if result.Changed || result.Message != "Nothing to undo" {
		t.Errorf("Expected nothing to undo, got changed=%v message=%q", result.Changed, result.Message)
	}

	if _, err := svc.BulkCommand(ctx, id, []string{"east", "east"}, false); err != nil {
		t.Fatalf("BulkCommand() error = %v", err)
	}

	result, err = svc.Undo(ctx, id)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !result.Changed || result.Events[0].Type != service.EventUndo {
		t.Fatalf("Expected undo event, got %+v", result.Events)
	}
	state := result.GameState.State
	if state.Player.Position != (engine.Position{Row: 1, Col: 2}) {
		t.Errorf("Expected player back at (1,2), got %+v", state.Player.Position)
	}
	if state.Boxes[0].Position != (engine.Position{Row: 1, Col: 3}) {
		t.Errorf("Expected box back at (1,3), got %+v", state.Boxes[0].Position)
	}
	if result.GameState.UndoDepth != 1 {
		t.Errorf("Expected undo depth 1, got %d", result.GameState.UndoDepth)
	}
}

func TestGameService_BulkCommand(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		commands []string
		executed int
		code     string
		stopped  int
		success  bool
		finished bool
		pushes   int
	}{
		{
			name:     "solve the level",
			commands: []string{"east", "east", "east"},
			executed: 3,
			code:     service.StopFinished,
			success:  true,
			finished: true,
			pushes:   2,
		},
		{
			name:     "stops at a rejected command",
			commands: []string{"east", "north", "east"},
			executed: 1,
			code:     service.StopRejected,
			stopped:  2,
		},
		{
			name:     "stops at an unknown word",
			commands: []string{"east", "jump", "east"},
			executed: 1,
			code:     service.StopUnknownCommand,
			stopped:  2,
		},
		{
			name:     "stops once finished",
			commands: []string{"east", "east", "east", "west"},
			executed: 3,
			code:     service.StopFinished,
			stopped:  4,
			success:  true,
			finished: true,
			pushes:   2,
		},
		{
			name:     "empty commands",
			commands: []string{},
			success:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, id := newTestService(t)

			result, err := svc.BulkCommand(ctx, id, tt.commands, false)
			if err != nil {
				t.Fatalf("BulkCommand() error = %v", err)
			}
			if result.RequestedCommands != len(tt.commands) {
				t.Errorf("Expected %d requested, got %d", len(tt.commands), result.RequestedCommands)
			}
			if result.CommandsExecuted != tt.executed {
				t.Errorf("Expected %d executed, got %d", tt.executed, result.CommandsExecuted)
			}
			if result.StopReasonCode != tt.code {
				t.Errorf("Expected stop code %q, got %q", tt.code, result.StopReasonCode)
			}
			if result.StoppedOnCommand != tt.stopped {
				t.Errorf("Expected stop on %d, got %d", tt.stopped, result.StoppedOnCommand)
			}
			if result.Success != tt.success {
				t.Errorf("Expected success=%v, got %v", tt.success, result.Success)
			}
			if result.Finished != tt.finished {
				t.Errorf("Expected finished=%v, got %v", tt.finished, result.Finished)
			}
			if result.PushCount != tt.pushes {
				t.Errorf("Expected %d pushes, got %d", tt.pushes, result.PushCount)
			}
			steps := tt.executed
			if tt.code == service.StopRejected {
				steps++
			}
			if len(result.Steps) != steps {
				t.Errorf("Expected %d steps, got %d", steps, len(result.Steps))
			}
			if result.StartPlayer.Position != (engine.Position{Row: 1, Col: 1}) {
				t.Errorf("Unexpected start player %+v", result.StartPlayer)
			}
		})
	}
}

func TestGameService_BulkCommandTruncates(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	commands := make([]string, engine.MaxBulkCommands+5)
	for i := range commands {
		if i%2 == 0 {
			commands[i] = "south"
		} else {
			commands[i] = "north"
		}
	}

	result, err := svc.BulkCommand(ctx, id, commands, false)
	if err != nil {
		t.Fatalf("BulkCommand() error = %v", err)
	}
	if !result.Truncated || result.Limit != engine.MaxBulkCommands {
		t.Errorf("Expected truncation at %d, got truncated=%v limit=%d", engine.MaxBulkCommands, result.Truncated, result.Limit)
	}
	if result.CommandsExecuted != engine.MaxBulkCommands {
		t.Errorf("Expected %d executed, got %d", engine.MaxBulkCommands, result.CommandsExecuted)
	}
	if len(result.Steps) != engine.MaxBulkCommands {
		t.Errorf("Expected %d steps, got %d", engine.MaxBulkCommands, len(result.Steps))
	}
}

func TestGameService_BulkCommandReset(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	if _, err := svc.BulkCommand(ctx, id, []string{"east", "east", "east"}, false); err != nil {
		t.Fatalf("BulkCommand() error = %v", err)
	}

	result, err := svc.BulkCommand(ctx, id, []string{"east"}, true)
	if err != nil {
		t.Fatalf("BulkCommand() error = %v", err)
	}
	if result.Finished || result.CommandsExecuted != 1 {
		t.Errorf("Expected one command on a fresh level, got executed=%d finished=%v", result.CommandsExecuted, result.Finished)
	}
	if result.Events[0].Type != service.EventReset {
		t.Errorf("Expected reset event first, got %+v", result.Events[0])
	}
}

func TestGameService_GetCommandLog(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	// Make some commands to generate a log
	if _, err := svc.BulkCommand(ctx, id, []string{"south", "east", "north", "west"}, false); err != nil {
		t.Fatalf("Failed to run commands: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		wantSeq   []int
		hasNext   bool
		wantErr   bool
	}{
		{
			name:      "default options",
			sessionID: id,
			opts:      service.HistoryOptions{},
			wantSeq:   []int{4, 3, 2, 1},
		},
		{
			name:      "with pagination",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"},
			wantSeq:   []int{1, 2},
			hasNext:   true,
		},
		{
			name:      "second page descending",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 2, Limit: 3, Order: "desc"},
			wantSeq:   []int{1},
		},
		{
			name:      "page past the end",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 9, Limit: 2},
			wantSeq:   []int{},
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetCommandLog(ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetCommandLog() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.TotalEntries != 4 {
				t.Errorf("Expected 4 entries in total, got %d", result.TotalEntries)
			}
			if len(result.Entries) != len(tt.wantSeq) {
				t.Fatalf("Expected %d entries, got %d", len(tt.wantSeq), len(result.Entries))
			}
			for i, seq := range tt.wantSeq {
				if result.Entries[i].Sequence != seq {
					t.Errorf("Entry %d: expected sequence %d, got %d", i, seq, result.Entries[i].Sequence)
				}
			}
			if result.HasNext != tt.hasNext {
				t.Errorf("Expected HasNext=%v, got %v", tt.hasNext, result.HasNext)
			}
		})
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockLevelManager())

	// Create multiple sessions
	var ids []string
	for i := 0; i < 3; i++ {
		info, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	if err := svc.DeleteSession(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, ids[0]); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	if _, err := svc.BulkCommand(ctx, id, []string{"east", "east"}, false); err != nil {
		t.Fatalf("Failed to run commands: %v", err)
	}

	view, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if view.State.Player.Position != (engine.Position{Row: 1, Col: 1}) {
		t.Errorf("Expected player back at start, got %+v", view.State.Player.Position)
	}
	if view.UndoDepth != 0 {
		t.Errorf("Expected empty undo history after reset, got %d", view.UndoDepth)
	}
	if view.Board[1] != "#@ $ .#" {
		t.Errorf("Expected initial board row, got %q", view.Board[1])
	}
}

func TestGameService_Levels(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockLevelManager())

	level := &engine.LevelConfig{Name: "tiny", Layout: []string{"@$."}}
	if err := svc.SaveLevel(ctx, "tiny", level); err != nil {
		t.Fatalf("SaveLevel() error = %v", err)
	}

	levels, err := svc.ListLevels(ctx)
	if err != nil {
		t.Fatalf("ListLevels() error = %v", err)
	}
	if len(levels) != 2 {
		t.Errorf("Expected 2 levels, got %d", len(levels))
	}

	loaded, err := svc.LoadLevel(ctx, "tiny")
	if err != nil || loaded.Name != "tiny" {
		t.Errorf("LoadLevel() = %+v, %v", loaded, err)
	}

	if err := svc.SaveLevel(ctx, "broken", &engine.LevelConfig{Name: "broken", Layout: []string{"$."}}); err == nil {
		t.Error("Expected a level without a player to be rejected")
	}
}
