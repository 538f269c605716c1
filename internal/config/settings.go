package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Identity generation defaults. The SNI doubles as the Reality handshake
// target, so it must be a host that serves TLS 1.3 on 443.
const (
	DefaultSNI           = "www.bing.com"
	DefaultFingerprint   = "chrome"
	DefaultHandshakePort = 443

	// MinPort and MaxPort bound the generated listen port: [MinPort, MaxPort).
	MinPort = 1025
	MaxPort = 65535
)

var (
	errSettingsPortRange = errors.New("port must be 0 (auto) or within [1025, 65535)")
	errSettingsSNIEmpty  = errors.New("sni must not be empty")
)

// Settings are optional operator overrides for identity generation.
// Flags take precedence over file values, file values over defaults.
type Settings struct {
	SNI         string `yaml:"sni,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	Fingerprint string `yaml:"fingerprint,omitempty"`
	Label       string `yaml:"label,omitempty"`
	Version     string `yaml:"version,omitempty"`
}

// DefaultSettings returns settings with all generation defaults applied.
func DefaultSettings() *Settings {
	return &Settings{
		SNI:         DefaultSNI,
		Fingerprint: DefaultFingerprint,
	}
}

// LoadSettings reads the settings file at path. A missing file is not an
// error: defaults are returned so a bare host provisions out of the box.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if s.SNI == "" {
		s.SNI = DefaultSNI
	}
	if s.Fingerprint == "" {
		s.Fingerprint = DefaultFingerprint
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return s, nil
}

// Save writes the settings to path.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// Validate checks the settings for values the generator cannot honor.
func (s *Settings) Validate() error {
	if s.Port != 0 && (s.Port < MinPort || s.Port >= MaxPort) {
		return errSettingsPortRange
	}
	if strings.TrimSpace(s.SNI) == "" {
		return errSettingsSNIEmpty
	}
	return nil
}
