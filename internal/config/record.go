package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RecordSchemaVersion is bumped when the record layout changes.
const RecordSchemaVersion = 1

// ErrNoRecord is returned when no provision record exists on disk.
var ErrNoRecord = errors.New("no provision record found")

// Record captures one provisioning run. The server config holds the private
// key; the record holds everything else a client link needs, so link
// emission never has to re-derive or re-detect identity values.
type Record struct {
	SchemaVersion int       `json:"schema_version"`
	Version       string    `json:"version"`
	Arch          string    `json:"arch"`
	UUID          string    `json:"uuid"`
	ShortID       string    `json:"short_id"`
	Port          int       `json:"port"`
	SNI           string    `json:"sni"`
	Fingerprint   string    `json:"fingerprint"`
	PublicKey     string    `json:"public_key"`
	Label         string    `json:"label"`
	ServerIP      string    `json:"server_ip,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoadRecord reads the provision record from the default path.
func LoadRecord() (*Record, error) {
	return LoadRecordFromPath(RecordPath())
}

// LoadRecordFromPath reads a provision record from a specific path.
func LoadRecordFromPath(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("failed to read provision record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse provision record: %w", err)
	}

	return &rec, nil
}

// Save writes the record to the default path.
func (r *Record) Save() error {
	return r.SaveToPath(RecordPath())
}

// SaveToPath writes the record to a specific path.
func (r *Record) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	r.SchemaVersion = RecordSchemaVersion

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal provision record: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write provision record: %w", err)
	}

	return nil
}
