// Package session provides session management for the puzzle server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//   - Pluggable persistence (JSON files or SQLite)
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine, so moves in one session never
// touch another.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Lookups ignore case.
// Caller-chosen IDs may use letters, digits, '-' and '_'.
//
// Persistence:
//
// FilePersistence writes one indented JSON file per session.
// SQLitePersistence keeps one row per session in a "sessions" table with the
// same JSON document compressed with zstd. Both store the level, the full
// state including the undo stack, and the command log, so a reloaded session
// can keep undoing moves made before a restart.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", levels)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	// Create a new session
//	sess, err := manager.Create("", "classic", level)
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//
// Cleanup:
//
// CleanupExpiredSessions drops sessions idle for longer than a given age.
// PruneOrphans drops sessions whose stored copy was deleted out of band.
package session
