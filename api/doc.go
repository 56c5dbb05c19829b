// Package api provides HTTP REST API handlers for the Sokoban server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"level_id": "classic"}, optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Sessions for a multi-board view (?sessionIds=a,b or ?levelId=x)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current state with the rendered board
//   - POST /api/sessions/{id}/command - {"command": "north", "reset": false}
//   - POST /api/sessions/{id}/bulk-command - {"commands": ["east", "up"], "reset": false}
//   - POST /api/sessions/{id}/undo - Undo the last move or push
//   - POST /api/sessions/{id}/reset - Set the level up again
//   - GET /api/sessions/{id}/history - Command log (?page=1&limit=20&order=desc)
//
// Levels:
//   - GET /api/levels - List available levels
//   - POST /api/levels - Store a level (JSON, or YAML with a yaml Content-Type; ?id=name)
//   - GET /api/levels/{name} - Get a level (?format=yaml for YAML)
//
// Other:
//   - GET /health - Liveness probe
//   - GET /ws?session={id} - WebSocket state stream and command input
//
// Command words are north, south, east, west (absolute moves), up, down,
// left, right (pad buttons relative to the player's facing) and undo. Words
// are case-insensitive.
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{
//	  "error": "error message",
//	  "code": 404
//	}
//
// Unknown sessions and levels map to 404, unknown command words and invalid
// levels to 400, anything else to 500.
//
// Bulk Command Responses:
//
//   - requested_commands, commands_executed
//   - stopped_reason (text), stop_reason_code (rejected|unknown_command|finished),
//     stopped_on_command (1-based), truncated, limit
//   - steps: [{idx, command, from, to, changed, pushed, finished}]
//   - start_player, end_player, push_count, finished
package api
