// Package service provides the business logic layer for the Sokoban server.
//
// The service package implements:
//   - Multi-session game management
//   - Level loading and saving through a LevelManager
//   - Single and bulk command processing with per-step diagnostics
//   - Undo, reset and the paginated command log
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, persistence and lifecycle.
// LevelManager loads, lists and stores level definitions.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns one engine.GameEngine; the engine's
// states are immutable, so a GameView handed to a client is never modified
// by later commands.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, levelMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Command(ctx, info.ID, "east", false)
//
// Errors:
//
// ErrSessionNotFound, ErrLevelNotFound and ErrInvalidLevel are shared with the
// session and config packages so transports can map them with errors.Is.
package service
