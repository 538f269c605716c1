package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestLoadSettings_Missing verifies defaults come back when no file exists.
func TestLoadSettings_Missing(t *testing.T) {
	t.Parallel()

	settings, err := LoadSettings(filepath.Join(t.TempDir(), "sbsetup.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultSNI, settings.SNI)
	require.Equal(t, DefaultFingerprint, settings.Fingerprint)
	require.Zero(t, settings.Port)
}

// TestSettings_SaveLoad verifies the settings file round-trips.
func TestSettings_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sbsetup.yaml")

	settings := DefaultSettings()
	settings.SNI = "www.example.com"
	settings.Port = 45000
	settings.Label = "test-host"
	require.NoError(t, settings.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)
}

// TestSettings_Validate verifies range and emptiness checks.
func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	require.NoError(t, settings.Validate())

	settings.Port = 80
	require.Error(t, settings.Validate())

	settings.Port = 0
	settings.SNI = ""
	require.Error(t, settings.Validate())
}

// TestRecord_SaveLoad verifies the provision record round-trips with all
// identity fields intact.
func TestRecord_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "provision.json")

	rec := &Record{
		SchemaVersion: RecordSchemaVersion,
		Version:       "v1.9.0",
		Arch:          "amd64",
		UUID:          "b831381d-6324-4d53-ad4f-8cda48b30811",
		ShortID:       "0123456789abcdef",
		Port:          24567,
		SNI:           "www.bing.com",
		Fingerprint:   "chrome",
		PublicKey:     "PUBKEY",
		Label:         "test-host",
		ServerIP:      "203.0.113.7",
		CreatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, rec.SaveToPath(path))

	loaded, err := LoadRecordFromPath(path)
	require.NoError(t, err)
	require.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))
	loaded.CreatedAt = rec.CreatedAt
	require.Equal(t, rec, loaded)
}

// TestLoadRecord_Missing verifies the sentinel for an unprovisioned host.
func TestLoadRecord_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadRecordFromPath(filepath.Join(t.TempDir(), "provision.json"))
	require.ErrorIs(t, err, ErrNoRecord)
}

// TestInstallDir_Override verifies the env override used by tests and
// non-root runs.
func TestInstallDir_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SBSETUP_DIR", dir)

	require.Equal(t, dir, InstallDir())
	require.Equal(t, filepath.Join(dir, "config.json"), ServerConfigPath())
	require.Equal(t, filepath.Join(dir, BinaryName), BinaryPath())
	require.False(t, IsInstalled())
}
