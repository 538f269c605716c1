package singbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoConfig is returned when no server config exists on disk.
var ErrNoConfig = errors.New("no server config found")

// Load reads a server config document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	return &cfg, nil
}

// Save writes the document to path. Group access stays readable so the
// unprivileged service user can load it.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal server config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write server config: %w", err)
	}

	return nil
}

// Format returns the document as indented JSON.
func (c *Config) Format() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
