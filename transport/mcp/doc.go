// Package mcp provides the Model Context Protocol interface for the Sokoban server.
//
// The mcp package implements a thin MCP client: every tool call is proxied
// to the REST API, so the MCP process holds no game state of its own.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create new game session with level selection
//   - list_sessions: List all active sessions
//   - get_session: Get specific session details
//   - game_state: Get the rendered board, facing and box counts
//   - command: Run one command word (requires intent)
//   - bulk_command: Run several command words in sequence
//   - undo: Revert the last move or push
//   - reset_game: Set the level up again
//   - command_history: Retrieve the command log with pagination
//   - list_levels: List available levels
//   - game_instructions: Rules, legend and pad table
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: Streamable HTTP endpoint mounted at /mcp by the main server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
