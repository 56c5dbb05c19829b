package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/service"
)

var (
	ErrLevelNotFound = service.ErrLevelNotFound
	ErrInvalidLevel  = service.ErrInvalidLevel
)

// BuiltinLevelID names the level used when the level directory has none.
const BuiltinLevelID = "default"

// Manager handles level loading and caching
type Manager struct {
	levelDir     string
	defaultID    string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelDir string) (*Manager, error) {
	// Ensure level directory exists
	if _, err := os.Stat(levelDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*engine.LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by id. The id is the file name with or without its
// extension; .json is tried before .yaml and .yml.
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, ErrLevelNotFound
	}
	id := levelID(name)

	m.mu.RLock()
	if level, exists := m.levels[id]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[id]; exists {
		return level, nil
	}

	path, ok := m.findLevelFile(name)
	if !ok {
		if id == BuiltinLevelID {
			return engine.DefaultLevel(), nil
		}
		return nil, ErrLevelNotFound
	}

	level, err := LoadLevelFile(path)
	if err != nil {
		return nil, err
	}

	m.levels[id] = level
	return level, nil
}

// ListLevels returns information about every loadable level, sorted by id
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	levels := []*service.LevelInfo{}
	seen := make(map[string]bool)

	for _, entry := range entries {
		format := formatOf(entry.Name())
		if entry.IsDir() || format == "" {
			continue
		}

		id := levelID(entry.Name())
		if seen[id] {
			continue
		}

		level, err := m.LoadLevel(entry.Name())
		if err != nil {
			// Skip invalid levels
			continue
		}
		seen[id] = true

		grid, _ := engine.ParseLayout(level.Layout)
		levels = append(levels, &service.LevelInfo{
			Filename:    entry.Name(),
			LevelID:     id,
			Name:        level.Name,
			Description: level.Description,
			Rows:        len(level.Layout),
			Boxes:       countBoxes(grid),
			Format:      format,
		})
	}

	// The built-in level is always loadable by id, so list it too unless a
	// file overrides it.
	if !seen[BuiltinLevelID] {
		levels = append(levels, builtinInfo())
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].LevelID < levels[j].LevelID })
	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// DefaultID returns the id of the default level
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default level by id
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = levelID(name)
	m.defaultLevel = level
	return nil
}

// RefreshCache drops cached levels and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

// loadDefaultLevel picks classic, then the first listed level, then the
// built-in level.
func (m *Manager) loadDefaultLevel() error {
	if level, err := m.LoadLevel("classic"); err == nil {
		m.setDefault("classic", level)
		return nil
	}

	// First level file by id, or the built-in level when there is none
	levels, _ := m.ListLevels()
	for _, info := range levels {
		if info.Filename == "" {
			continue
		}
		if level, err := m.LoadLevel(info.Filename); err == nil {
			m.setDefault(info.LevelID, level)
			return nil
		}
	}

	m.setDefault(BuiltinLevelID, engine.DefaultLevel())
	return nil
}

func (m *Manager) setDefault(id string, level *engine.LevelConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = id
	m.defaultLevel = level
}

// SaveLevel validates a level and writes it to disk. A name ending in .yaml
// or .yml is written as YAML, anything else as JSON.
func (m *Manager) SaveLevel(name string, level *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}

	id := levelID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: bad level id %q", ErrInvalidLevel, name)
	}

	format := formatOf(name)
	filename := name
	if format == "" {
		format = FormatJSON
		filename = id + ".json"
	}

	data, err := EncodeLevel(level, format)
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.levelDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[id] = level
	m.mu.Unlock()

	return nil
}

// findLevelFile locates the file for a level name. Callers hold m.mu.
func (m *Manager) findLevelFile(name string) (string, bool) {
	candidates := []string{name}
	if formatOf(name) == "" {
		candidates = []string{name + ".json", name + ".yaml", name + ".yml"}
	}

	for _, candidate := range candidates {
		path := filepath.Join(m.levelDir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// levelID strips a level extension from a file name
func levelID(name string) string {
	if formatOf(name) == "" {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func builtinInfo() *service.LevelInfo {
	level := engine.DefaultLevel()
	grid, _ := engine.ParseLayout(level.Layout)
	return &service.LevelInfo{
		LevelID:     BuiltinLevelID,
		Name:        level.Name,
		Description: level.Description,
		Rows:        len(level.Layout),
		Boxes:       countBoxes(grid),
		Format:      FormatBuiltin,
	}
}

func countBoxes(grid [][]engine.Symbol) int {
	count := 0
	for _, row := range grid {
		for _, sym := range row {
			if sym == engine.SymBox || sym == engine.SymBoxOnGoal {
				count++
			}
		}
	}
	return count
}
