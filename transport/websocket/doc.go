// Package websocket provides WebSocket transport for the Sokoban server.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after every command
//   - Inbound command messages
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a read and a
// write goroutine.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {"type": "north"} or {"type": "command", "command": "left", "reset": false}
//   - Outgoing: {"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// A rejected inbound message is answered with an "error" event to the sending
// client only.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetCommandHandler(func(id, word string, reset bool) error { ... })
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
