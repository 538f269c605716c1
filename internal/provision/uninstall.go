package provision

import (
	"fmt"
	"os"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/hostprobe"
	"github.com/net2share/sbsetup/internal/systemd"
)

// UninstallOptions tunes removal.
type UninstallOptions struct {
	Force bool // skip the confirmation prompt

	// Confirm asks the operator a yes/no question; nil means
	// non-interactive, where Force is required.
	Confirm func(prompt string) bool
}

// Uninstall stops and removes the service, the binary, the configuration,
// and the provision record. The service user is left behind; removing
// accounts can orphan files elsewhere on the host.
func (p *Provisioner) Uninstall(opts UninstallOptions) error {
	if err := hostprobe.RequireRoot(); err != nil {
		return err
	}

	if !opts.Force {
		if opts.Confirm == nil {
			return fmt.Errorf("refusing to uninstall without --yes in non-interactive mode")
		}
		if !opts.Confirm("Remove sing-box, its configuration, and its identity?") {
			p.out.Info("Nothing removed.")
			return ErrDeclined
		}
	}

	const totalSteps = 3
	p.out.BeginProgress("Uninstall sing-box")

	// Step 1: Service
	p.out.Step(1, totalSteps, "Removing service...")
	if _, err := os.Stat(config.UnitPath()); err == nil {
		systemd.Stop()
		systemd.Disable()
		if err := systemd.RemoveUnit(); err != nil {
			return p.fail(err)
		}
		systemd.Reload()
		p.out.Status("Service removed")
	} else {
		p.out.Status("No service installed")
	}

	// Step 2: Install directory
	p.out.Step(2, totalSteps, "Removing binary and configuration...")
	if err := os.RemoveAll(config.InstallDir()); err != nil {
		return p.fail(err)
	}
	p.out.Status(fmt.Sprintf("Removed %s", config.InstallDir()))

	// Step 3: Leftovers
	p.out.Step(3, totalSteps, "Checking leftovers...")
	p.out.Status(fmt.Sprintf("The %s user account was kept", systemd.ServiceUser))

	p.out.Success("Uninstallation complete")
	p.out.EndProgress()
	return nil
}
