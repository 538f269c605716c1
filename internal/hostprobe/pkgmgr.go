package hostprobe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ManagerKind identifies a supported package-manager family.
type ManagerKind string

const (
	ManagerApt ManagerKind = "apt"
	ManagerDnf ManagerKind = "dnf"
)

// dependencies is the fixed tool set every provisioned host gets. The
// certificate bundle is required for the release download itself on
// minimal images; the rest match what the proxy's own docs assume present.
var dependencies = []string{"ca-certificates", "curl", "tar"}

// Manager is the detected package manager with its invocation form.
type Manager struct {
	Kind ManagerKind
	bin  string
}

// DetectManager probes for a supported package manager. Exactly two
// families are supported; anything else aborts provisioning.
func DetectManager() (*Manager, error) {
	if path, err := exec.LookPath("apt-get"); err == nil {
		return &Manager{Kind: ManagerApt, bin: path}, nil
	}
	if path, err := exec.LookPath("dnf"); err == nil {
		return &Manager{Kind: ManagerDnf, bin: path}, nil
	}
	if path, err := exec.LookPath("yum"); err == nil {
		return &Manager{Kind: ManagerDnf, bin: path}, nil
	}
	return nil, ErrUnsupportedManager
}

// InstallDependencies refreshes the package index where the family needs it
// and installs the fixed dependency set.
func (m *Manager) InstallDependencies(ctx context.Context) error {
	if m.Kind == ManagerApt {
		if err := m.run(ctx, "update", "-y"); err != nil {
			return fmt.Errorf("package index refresh failed: %w", err)
		}
	}

	args := append([]string{"install", "-y"}, dependencies...)
	if err := m.run(ctx, args...); err != nil {
		return fmt.Errorf("dependency install failed: %w", err)
	}

	return nil
}

// Dependencies returns the fixed tool set the installer ensures.
func Dependencies() []string {
	out := make([]string, len(dependencies))
	copy(out, dependencies)
	return out
}

func (m *Manager) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, m.bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v failed: %w", m.bin, args, err)
	}
	return nil
}
