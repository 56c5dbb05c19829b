package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Session stores
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Settings holds runtime settings read from the environment. Command-line
// flags default to these values.
type Settings struct {
	Host        string        `env:"SOKOBAN_HOST" envDefault:"localhost"`
	Port        int           `env:"SOKOBAN_PORT" envDefault:"8080"`
	LevelDir    string        `env:"SOKOBAN_LEVEL_DIR" envDefault:"levels"`
	SessionDir  string        `env:"SOKOBAN_SESSION_DIR" envDefault:"sessions"`
	Store       string        `env:"SOKOBAN_STORE" envDefault:"file"`
	SQLitePath  string        `env:"SOKOBAN_SQLITE_PATH" envDefault:"sessions.db"`
	SessionTTL  time.Duration `env:"SOKOBAN_SESSION_TTL" envDefault:"24h"`
	Debug       bool          `env:"SOKOBAN_DEBUG"`
	NgrokDomain string        `env:"NGROK_DOMAIN"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks settings that env tags cannot express.
func (s *Settings) Validate() error {
	switch s.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown session store %q (want %s, %s or %s)", s.Store, StoreFile, StoreSQLite, StoreMemory)
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", s.SessionTTL)
	}
	return nil
}
