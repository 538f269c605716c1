// Package systemd writes the proxy's service unit and drives it through
// systemctl.
package systemd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/logger"
)

// The unit confines the proxy to the network capabilities it needs and
// locks the rest of the filesystem away from it. Directives are passed
// through to systemd uninterpreted.
const unitTemplate = `[Unit]
Description=sing-box proxy service
Documentation=https://sing-box.sagernet.org
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
User=%s
Group=%s
ExecStart=%s run -c %s
WorkingDirectory=%s
CapabilityBoundingSet=CAP_NET_ADMIN CAP_NET_BIND_SERVICE CAP_NET_RAW
AmbientCapabilities=CAP_NET_ADMIN CAP_NET_BIND_SERVICE CAP_NET_RAW
NoNewPrivileges=true
PrivateTmp=true
ProtectHome=true
ProtectSystem=strict
ReadWritePaths=%s
Restart=on-failure
RestartSec=5
LimitNOFILE=infinity

[Install]
WantedBy=multi-user.target
`

// UnitText renders the service unit for the given binary and config paths.
func UnitText(binaryPath, configPath, username string) string {
	workDir := filepath.Dir(configPath)
	return fmt.Sprintf(unitTemplate, username, username, binaryPath, configPath, workDir, workDir)
}

// WriteUnit renders the unit and installs it at the fixed system path.
func WriteUnit(binaryPath, configPath, username string) error {
	unit := UnitText(binaryPath, configPath, username)
	if err := os.WriteFile(config.UnitPath(), []byte(unit), 0o644); err != nil {
		return fmt.Errorf("failed to write unit file: %w", err)
	}
	return nil
}

// RemoveUnit deletes the unit file. A missing file is not an error.
func RemoveUnit() error {
	if err := os.Remove(config.UnitPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove unit file: %w", err)
	}
	return nil
}

// Reload tells systemd to re-read unit files.
func Reload() error {
	return runSystemctl("daemon-reload")
}

// Enable marks the service for start at boot.
func Enable() error {
	return runSystemctl("enable", config.ServiceName)
}

// Disable removes the boot-time start.
func Disable() error {
	return runSystemctl("disable", config.ServiceName)
}

// Start starts the service.
func Start() error {
	return runSystemctl("start", config.ServiceName)
}

// Stop stops the service.
func Stop() error {
	return runSystemctl("stop", config.ServiceName)
}

// Restart restarts the service.
func Restart() error {
	return runSystemctl("restart", config.ServiceName)
}

// IsActive reports whether the service is currently running.
func IsActive() bool {
	return exec.Command("systemctl", "is-active", "--quiet", config.ServiceName).Run() == nil
}

// Status prints the service status. systemctl exits non-zero for inactive
// services, so that is not treated as a failure.
func Status() error {
	out, _ := exec.Command("systemctl", "status", config.ServiceName).CombinedOutput()
	fmt.Print(string(out))
	return nil
}

// Logs streams journal entries for the service.
func Logs(lines int, follow bool) error {
	args := []string{"-u", config.ServiceName, "-n", strconv.Itoa(lines), "--no-pager"}
	if follow {
		args = append(args, "-f")
	}

	cmd := exec.Command("journalctl", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("journalctl %v failed: %w", args, err)
	}
	return nil
}

func runSystemctl(args ...string) error {
	logger.Debugf("systemctl %v", args)
	cmd := exec.Command("systemctl", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("systemctl %v failed: %w", args, err)
	}
	return nil
}
