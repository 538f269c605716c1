// Package config provides the on-disk layout and operator settings for sbsetup.
package config

import (
	"os"
	"path/filepath"
)

const (
	// ServiceName is the systemd unit name of the provisioned proxy.
	ServiceName = "sing-box"

	// BinaryName is the name of the extracted release binary.
	BinaryName = "sing-box"

	defaultInstallDir = "/etc/sing-box"
)

// InstallDir returns the directory holding the extracted binary, the
// generated server config, and the provision record.
func InstallDir() string {
	if dir := os.Getenv("SBSETUP_DIR"); dir != "" {
		return dir
	}
	return defaultInstallDir
}

// BinaryPath returns the full path to the installed proxy binary.
func BinaryPath() string {
	return filepath.Join(InstallDir(), BinaryName)
}

// ServerConfigPath returns the path of the generated sing-box config.
func ServerConfigPath() string {
	return filepath.Join(InstallDir(), "config.json")
}

// RecordPath returns the path of the provision record.
func RecordPath() string {
	return filepath.Join(InstallDir(), "provision.json")
}

// SettingsPath returns the path of the optional operator settings file.
func SettingsPath() string {
	return filepath.Join(InstallDir(), "sbsetup.yaml")
}

// UnitPath returns the path of the systemd unit file.
func UnitPath() string {
	return filepath.Join("/etc/systemd/system", ServiceName+".service")
}

// EnsureInstallDir creates the install directory if it doesn't exist.
// The directory is group-readable so the service user can load the config.
func EnsureInstallDir() error {
	return os.MkdirAll(InstallDir(), 0o750)
}

// IsInstalled reports whether a completed provisioning run is on disk.
func IsInstalled() bool {
	if _, err := os.Stat(BinaryPath()); err != nil {
		return false
	}
	if _, err := os.Stat(ServerConfigPath()); err != nil {
		return false
	}
	return true
}
