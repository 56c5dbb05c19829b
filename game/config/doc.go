// Package config provides level and runtime settings management.
//
// The config package handles:
//   - Loading levels from JSON and YAML files
//   - Level validation (JSON Schema plus engine checks)
//   - Default level selection
//   - Level discovery and listing
//   - Runtime settings from environment variables
//
// Level Format:
//
// Levels are stored in the levels directory as name.json, name.yaml or
// name.yml. Each level defines:
//   - name and description
//   - layout rows in the usual text notation (# wall, space/-/_ floor,
//     . goal, @ player, $ box, * box on goal)
//   - messages shown on welcome, victory and blocked moves
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific level
//	level, err := manager.LoadLevel("classic")
//
//	// Get the default level (classic, else the first level, else built-in)
//	defaultLevel := manager.GetDefault()
//
//	// List available levels
//	levels, err := manager.ListLevels()
//
// Settings:
//
// LoadSettings reads SOKOBAN_HOST, SOKOBAN_PORT, SOKOBAN_LEVEL_DIR,
// SOKOBAN_SESSION_DIR, SOKOBAN_STORE (file, sqlite or memory),
// SOKOBAN_SQLITE_PATH, SOKOBAN_SESSION_TTL and SOKOBAN_DEBUG.
package config
