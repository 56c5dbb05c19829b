package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// Level file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	// FormatBuiltin marks the compiled-in level in listings
	FormatBuiltin = "builtin"
)

//go:embed level.schema.json
var levelSchemaJSON string

var levelSchema = jsonschema.MustCompileString("level.schema.json", levelSchemaJSON)

// formatOf returns the level format for a file name, or "" if the extension
// is not a level extension.
func formatOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

// LoadLevelFile reads and validates a single level file. JSON documents are
// checked against the level schema before decoding.
func LoadLevelFile(path string) (*engine.LevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	format := formatOf(path)
	if format == "" {
		format = FormatJSON
	}
	return DecodeLevel(data, format)
}

// DecodeLevel parses a level document in the given format and validates it.
func DecodeLevel(data []byte, format string) (*engine.LevelConfig, error) {
	var level engine.LevelConfig

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &level); err != nil {
			return nil, fmt.Errorf("failed to parse level: %w", err)
		}
	case FormatJSON:
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse level: %w", err)
		}
		if err := levelSchema.Validate(doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
		}
		if err := json.Unmarshal(data, &level); err != nil {
			return nil, fmt.Errorf("failed to parse level: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported level format %q", format)
	}

	if err := engine.ValidateLevelConfig(&level); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	return &level, nil
}

// EncodeLevel renders a level in the given format.
func EncodeLevel(level *engine.LevelConfig, format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(level)
	case FormatJSON:
		return json.MarshalIndent(level, "", "  ")
	}
	return nil, fmt.Errorf("unsupported level format %q", format)
}
