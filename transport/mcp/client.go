package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
)

// commandWords is the vocabulary accepted by the command tools
var commandWords = []string{
	"north", "south", "east", "west",
	"up", "down", "left", "right",
	"undo",
}

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sokoban",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sokoban - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Push every box ($) onto a goal (.) to finish the level.

AVAILABLE TOOLS:
- create_session: Create new game session on a level
- list_sessions / get_session: Inspect sessions
- game_state: Get the board, facing and box counts
- command: Run one command word - requires intent explanation
- bulk_command: Run several command words at once - requires intent explanation
- undo: Revert the last move or push
- reset_game: Set the level up again
- command_history: View the command log
- list_levels: List available levels
- game_instructions: Full rules, including the relative pad buttons

NOTE: The 'intent' parameter on command/bulk_command serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level to play (optional, see list_levels)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, facing and box counts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Run one command: a compass move, a pad button relative to the facing, or undo",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"command": map[string]interface{}{
					"type":        "string",
					"enum":        commandWords,
					"description": "Command word",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this command (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before running the command",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_command",
		Description: "Run several commands in sequence; stops at the first command that changes nothing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"commands": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": commandWords,
					},
					"description": "Array of command words",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before running the commands",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleBulkCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Revert the last move or push",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the level to its initial layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get the command log for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCommandHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool call arguments as a map
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	levelID, _ := args["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s", session.ID, session.LevelID, formatGameView(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Active Sessions (%d):\n\n", response.Count))
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil && s.GameState.State != nil {
			status = string(s.GameState.State.Status)
		}
		b.WriteString(fmt.Sprintf("- %s (Level: %s, Status: %s, Created: %s)\n",
			s.ID, s.LevelID, status, s.CreatedAt.Format("15:04:05")))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var view service.GameView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameView(&view)), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	command, _ := args["command"].(string)
	reset, _ := args["reset"].(bool)
	// intent is only for the caller's benefit

	body := map[string]interface{}{
		"command": command,
		"reset":   reset,
	}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/command"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleBulkCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	commandsRaw, _ := args["commands"].([]interface{})
	reset, _ := args["reset"].(bool)

	commands := make([]string, 0, len(commandsRaw))
	for _, raw := range commandsRaw {
		if word, ok := raw.(string); ok {
			commands = append(commands, word)
		}
	}

	body := map[string]interface{}{
		"commands": commands,
		"reset":    reset,
	}

	var result service.BulkCommandResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-command"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkCommandResult(sessionID, &result)), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/undo"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *service.GameView `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameView(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Levels:\n\n")
	for _, level := range levels {
		b.WriteString(fmt.Sprintf("• %s (%s)\n  %s\n  Rows: %d, Boxes: %d\n\n",
			level.LevelID, level.Name, level.Description, level.Rows, level.Boxes))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Sokoban - Complete Instructions

GAME OBJECTIVE:
Push every box onto a goal. The level is finished the moment the last box
lands on a goal; after that every command is ignored until a reset.

BOARD LEGEND:
• @ - You
• + - You, standing on a goal
• $ - Box
• * - Box on a goal
• . - Goal
• # - Wall
• (space) - Floor
Row 0 is the top row, column 0 the leftmost column. Positions are (row,col).

COMPASS COMMANDS:
• north, south, east, west - Turn to face that way and step one cell.
• Stepping into a box pushes it one cell further, if that cell is floor or
  a goal without a box. You can never pull a box or push two at once.
• A blocked step changes nothing, not even your facing.

PAD BUTTONS (relative to your facing):
• up - While facing east: turn north. Otherwise nothing.
• down - While facing north: turn east. While facing south: turn west.
  Otherwise nothing.
• left - While facing north: turn west. While facing east: turn south.
  While facing south or west: step forward (may push).
• right - While facing north or east: step forward (may push).
  While facing south: turn east. While facing west: turn north.
Turning never moves you and never gets blocked.

UNDO:
• undo - Revert the last move or push, restoring your position, your facing
  and any pushed box. Turns are not recorded and cannot be undone.

BULK COMMANDS:
• bulk_command stops at the first command that changes nothing, at an unknown
  word, or once the level is finished.

STRATEGY:
• A box pushed into a corner that is not a goal can never be moved again.
• A box against a wall can only slide along that wall.
• Plan where you need to stand before each push; use undo freely.

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions keep their own board, history and command log

Good luck!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.LevelID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameView(session.GameState))
}

func formatGameView(view *service.GameView) string {
	if view == nil || view.State == nil {
		return "No game state available"
	}
	state := view.State

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Position: (%d,%d) | Facing: %s | Boxes on goals: %d/%d | Undo depth: %d\n\n",
		state.Player.Row, state.Player.Col, state.Player.Facing,
		view.BoxesOnGoals, len(state.Boxes), view.UndoDepth))

	board := view.Board
	if len(board) == 0 {
		board = engine.Render(state)
	}
	for _, row := range board {
		b.WriteString(row)
		b.WriteString("\n")
	}

	if len(view.PossibleMoves) > 0 {
		b.WriteString("\nPossible moves: ")
		b.WriteString(strings.Join(view.PossibleMoves, ","))
		b.WriteString("\n")
	}

	if state.Status == engine.Finished {
		b.WriteString("\n🎉 LEVEL COMPLETE!")
	}

	if view.Message != "" {
		b.WriteString(fmt.Sprintf("\nMessage: %s", view.Message))
	}

	return b.String()
}

func formatStep(s *service.StepInfo) string {
	status := "✗"
	if s.Changed {
		status = "✓"
	}
	extra := ""
	if s.Pushed {
		extra = " push"
	}
	return fmt.Sprintf("%s (%d,%d)→(%d,%d) facing=%s%s %s",
		s.Command, s.From.Row, s.From.Col, s.To.Row, s.To.Col, s.To.Facing, extra, status)
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	if result.Changed {
		b.WriteString("✓ Command applied\n")
	} else {
		b.WriteString("✗ Nothing changed\n")
	}

	if result.Step != nil {
		b.WriteString("Step: " + formatStep(result.Step) + "\n")
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameView(result.GameState))
	return b.String()
}

func formatBulkCommandResult(sessionID string, result *service.BulkCommandResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Session: %s\n", sessionID))
	b.WriteString(fmt.Sprintf("Executed %d/%d commands, pushes: %d\n",
		result.CommandsExecuted, result.RequestedCommands, result.PushCount))
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated to the first %d commands\n", result.Limit))
	}
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped (%s): %s\n", result.StopReasonCode, result.StoppedReason))
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			b.WriteString(fmt.Sprintf("%d. %s\n", s.Idx, formatStep(&s)))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameView(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Command Log (Page %d/%d) — Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEntries))

	for _, entry := range history.Entries {
		status := "✓"
		if !entry.Changed {
			status = "✗"
		}
		push := ""
		if entry.Pushed {
			push = " push"
		}
		b.WriteString(fmt.Sprintf("%d. %s (%d,%d)→(%d,%d)%s %s [%s]\n",
			entry.Sequence, entry.Command, entry.From.Row, entry.From.Col,
			entry.To.Row, entry.To.Col, push, status, entry.Status))
	}

	return b.String()
}
