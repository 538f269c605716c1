// Package hostprobe inspects the host once, up front, and hands later steps
// a typed capability result instead of letting them branch on ambient state.
package hostprobe

import (
	"errors"
	"os"
	"os/exec"

	"github.com/net2share/go-corelib/osdetect"
)

var (
	// ErrNotRoot means the effective user lacks the privileges every later
	// step requires.
	ErrNotRoot = errors.New("root privileges required; run with sudo")

	// ErrUnsupportedManager means neither supported package-manager family
	// is present.
	ErrUnsupportedManager = errors.New("no supported package manager found (apt or dnf/yum required)")

	// ErrUnsupportedArch means the machine type has no release asset.
	ErrUnsupportedArch = errors.New("unsupported architecture")
)

// Probe is the typed result of host inspection.
type Probe struct {
	Root       bool
	Machine    string
	Arch       string
	Manager    *Manager
	HasSystemd bool
	OSName     string
}

// Detect inspects the host. Architecture and package-manager failures are
// returned as their sentinel errors so callers can map them to distinct
// exit codes; missing root is reported in the result, not as an error,
// since read-only commands run fine without it.
func Detect() (*Probe, error) {
	p := &Probe{
		Root: os.Geteuid() == 0,
	}

	machine, err := MachineType()
	if err != nil {
		return nil, err
	}
	p.Machine = machine

	arch, err := ResolveArch(machine)
	if err != nil {
		return nil, err
	}
	p.Arch = arch

	mgr, err := DetectManager()
	if err != nil {
		return nil, err
	}
	p.Manager = mgr

	p.HasSystemd = detectSystemd()

	if info, err := osdetect.Detect(); err == nil {
		p.OSName = info.PrettyName
	}
	if p.OSName == "" {
		p.OSName = "Linux"
	}

	return p, nil
}

// RequireRoot converts a non-root probe into the sentinel error.
func (p *Probe) RequireRoot() error {
	if !p.Root {
		return ErrNotRoot
	}
	return nil
}

// RequireRoot checks the effective user directly, for flows that touch the
// install without needing a full probe.
func RequireRoot() error {
	if os.Geteuid() != 0 {
		return ErrNotRoot
	}
	return nil
}

func detectSystemd() bool {
	if _, err := exec.LookPath("systemctl"); err != nil {
		return false
	}
	if _, err := os.Stat("/run/systemd/system"); err != nil {
		return false
	}
	return true
}
