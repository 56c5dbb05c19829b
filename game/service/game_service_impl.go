package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

const (
	defaultBlockedMessage = "Can't move there!"
	defaultVictoryMessage = "All boxes are on goals!"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// CreateSession creates a new game session on the given level, or on the
// default level when levelID is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level *engine.LevelConfig
	if levelID != "" {
		var err error
		level, err = s.levels.LoadLevel(levelID)
		if err != nil {
			if errors.Is(err, ErrLevelNotFound) {
				// Provide helpful error message with available options
				available, listErr := s.levels.ListLevels()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.LevelID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available levels: %v", ErrLevelNotFound, levelID, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/levels to list available levels", ErrLevelNotFound, levelID)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelID, err)
		}
	} else {
		level = s.levels.GetDefault()
		levelID = s.levels.DefaultID()
	}

	// Let session manager generate a 4-character ID
	sess, err := s.sessions.Create("", levelID, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[SESSION] created id=%s level=%s", sess.ID, levelID)

	info := s.sessionInfo(sess)
	info.GameState.Message = level.Messages.Welcome
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Command executes a single command word for a session
func (s *gameServiceImpl) Command(ctx context.Context, sessionID, command string, reset bool) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.command(sessionID, command, reset)
}

// Undo reverts the last move or push of a session
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.command(sessionID, string(engine.CmdUndo), false)
}

func (s *gameServiceImpl) command(sessionID, command string, reset bool) (*CommandResult, error) {
	cmdType, err := engine.ParseCommandType(command)
	if err != nil {
		return nil, err
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		events = append(events, s.reset(sess))
	}

	wasFinished := sess.Engine.IsFinished()
	if _, err := sess.Engine.Apply(engine.Command{Type: cmdType}); err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", cmdType, err)
	}
	entry := sess.Engine.GetLastEntry()

	stepEvents := s.stepEvents(sess, entry, wasFinished)
	events = append(events, stepEvents...)

	log.Printf("[CMD] session=%s cmd=%s changed=%v pushed=%v status=%s", sess.ID, cmdType, entry.Changed, entry.Pushed, entry.Status)

	step := stepInfo(1, entry)
	result := &CommandResult{
		Changed:   entry.Changed,
		GameState: s.view(sess),
		Message:   lastMessage(stepEvents),
		Events:    events,
		Step:      &step,
	}
	result.GameState.Message = result.Message

	s.persist(sess, "command")
	return result, nil
}

// BulkCommand executes several command words in order. It stops at the first
// command that changes nothing, at an unknown word, or once the level is
// finished.
func (s *gameServiceImpl) BulkCommand(ctx context.Context, sessionID string, commands []string, reset bool) (*BulkCommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkCommandResult{
		RequestedCommands: len(commands),
		Events:            make([]GameEvent, 0),
		Success:           true,
	}

	if reset {
		result.Events = append(result.Events, s.reset(sess))
	}
	result.StartPlayer = sess.Engine.GetPlayer()

	// Limit commands to prevent abuse
	if len(commands) > engine.MaxBulkCommands {
		result.Truncated = true
		result.Limit = engine.MaxBulkCommands
		commands = commands[:engine.MaxBulkCommands]
	}

	out := sess.Engine.BulkExecute(commands)
	for i := range out.Entries {
		entry := &out.Entries[i]
		result.Events = append(result.Events, s.stepEvents(sess, entry, false)...)
		result.Steps = append(result.Steps, stepInfo(i+1, entry))
		if !entry.Changed {
			continue
		}
		result.CommandsExecuted++
		if entry.Pushed {
			result.PushCount++
		}
	}

	result.StopReasonCode = out.Stop
	if out.StopIndex >= 0 {
		result.StoppedOnCommand = out.StopIndex + 1
	}
	switch out.Stop {
	case StopFinished:
		result.StoppedReason = "level finished"
	case StopUnknownCommand:
		result.Success = false
		result.StoppedReason = fmt.Sprintf("command %d: %v", result.StoppedOnCommand, out.Err)
	case StopRejected:
		result.Success = false
		result.StoppedReason = fmt.Sprintf("command %d rejected: %s", result.StoppedOnCommand, commands[out.StopIndex])
	}

	result.EndPlayer = sess.Engine.GetPlayer()
	result.Finished = sess.Engine.IsFinished()
	if result.Finished && result.StopReasonCode == "" {
		result.StopReasonCode = StopFinished
	}
	result.Message = lastMessage(result.Events)
	result.GameState = s.view(sess)
	result.GameState.Message = result.Message

	log.Printf("[BULK] session=%s requested=%d executed=%d stop=%s status=%s",
		sess.ID, result.RequestedCommands, result.CommandsExecuted, result.StopReasonCode, sess.Engine.GetState().Status)

	s.persist(sess, "bulk command")
	return result, nil
}

// Reset sets the session's level up again
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	event := s.reset(sess)
	s.persist(sess, "reset")

	view := s.view(sess)
	view.Message = event.Message
	return view, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.view(sess), nil
}

// GetCommandLog returns a page of the session's command log
func (s *gameServiceImpl) GetCommandLog(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetLog()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	entries := []engine.LogEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				entries = append(entries, history[i])
			}
		} else {
			entries = append(entries, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListLevels returns available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*engine.LevelConfig, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel saves a level to disk
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelID string, level *engine.LevelConfig) error {
	return s.levels.SaveLevel(levelID, level)
}

// getSession looks a session up and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) persist(sess *Session, after string) {
	if err := s.sessions.Save(sess.ID); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sess.ID, after, err)
	}
}

func (s *gameServiceImpl) reset(sess *Session) GameEvent {
	state := sess.Engine.Reset()
	log.Printf("[RESET] session=%s", sess.ID)
	return GameEvent{
		Type:      EventReset,
		Message:   "Level reset to its initial layout",
		Timestamp: time.Now(),
		Position:  state.Player.Position,
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.LevelID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      s.view(sess),
		Level:          sess.Level,
	}
}

func (s *gameServiceImpl) view(sess *Session) *GameView {
	state := sess.Engine.GetState()
	moves := sess.Engine.GetPossibleMoves()
	if moves == nil {
		moves = []string{}
	}
	return &GameView{
		State:          state,
		Board:          engine.Render(state),
		BoxesOnGoals:   engine.BoxesOnGoals(state),
		RemainingBoxes: engine.RemainingBoxes(state),
		UndoDepth:      state.Depth(),
		PossibleMoves:  moves,
	}
}

// stepEvents describes one logged command as events
func (s *gameServiceImpl) stepEvents(sess *Session, entry *engine.LogEntry, wasFinished bool) []GameEvent {
	now := time.Now()
	msgs := sess.Level.Messages
	events := []GameEvent{}

	switch {
	case !entry.Changed:
		msg := msgs.Blocked
		if msg == "" {
			msg = defaultBlockedMessage
		}
		switch {
		case entry.Command == engine.CmdUndo:
			msg = "Nothing to undo"
		case entry.Status == engine.Finished:
			msg = "The level is already finished"
		}
		events = append(events, GameEvent{Type: EventBlocked, Message: msg, Timestamp: now, Position: entry.To.Position})
	case entry.Command == engine.CmdUndo:
		events = append(events, GameEvent{Type: EventUndo, Message: fmt.Sprintf("Undid last move, back at (%d,%d)", entry.To.Row, entry.To.Col), Timestamp: now, Position: entry.To.Position})
	case entry.Pushed:
		events = append(events, GameEvent{Type: EventPush, Message: fmt.Sprintf("Pushed a box %s", entry.To.Facing), Timestamp: now, Position: entry.To.Position})
	case entry.From.Position != entry.To.Position:
		events = append(events, GameEvent{Type: EventMove, Message: fmt.Sprintf("Moved %s to (%d,%d)", entry.To.Facing, entry.To.Row, entry.To.Col), Timestamp: now, Position: entry.To.Position})
	default:
		events = append(events, GameEvent{Type: EventTurn, Message: fmt.Sprintf("Now facing %s", entry.To.Facing), Timestamp: now, Position: entry.To.Position})
	}

	if !wasFinished && entry.Status == engine.Finished {
		msg := msgs.Victory
		if msg == "" {
			msg = defaultVictoryMessage
		}
		events = append(events, GameEvent{Type: EventVictory, Message: msg, Timestamp: now, Position: entry.To.Position})
	}

	return events
}


func stepInfo(idx int, entry *engine.LogEntry) StepInfo {
	return StepInfo{
		Idx:      idx,
		Command:  entry.Command,
		From:     entry.From,
		To:       entry.To,
		Changed:  entry.Changed,
		Pushed:   entry.Pushed,
		Finished: entry.Status == engine.Finished,
	}
}

func lastMessage(events []GameEvent) string {
	if len(events) == 0 {
		return ""
	}
	return events[len(events)-1].Message
}
