package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/hostprobe"
	"github.com/net2share/sbsetup/internal/identity"
	"github.com/net2share/sbsetup/internal/singbox"
	"github.com/net2share/sbsetup/internal/systemd"
)

// RegenerateOptions tunes identity regeneration.
type RegenerateOptions struct {
	SNI   string // new camouflage target; empty keeps the current one
	Port  int    // new listen port; 0 picks a random free one
	NoQR  bool
	Force bool // consent to invalidating every existing client link
}

// Regenerate replaces the install's identity with a fresh UUID, keypair,
// short id, and port. Existing clients stop working; the binary stays.
func (p *Provisioner) Regenerate(ctx context.Context, opts RegenerateOptions) error {
	if err := hostprobe.RequireRoot(); err != nil {
		return err
	}
	if !config.IsInstalled() {
		return fmt.Errorf("nothing installed; run install first")
	}
	if !opts.Force {
		return fmt.Errorf("regeneration invalidates every existing client link; rerun with --force")
	}

	p.out.BeginProgress("Regenerate identity")

	rec, err := config.LoadRecord()
	if err != nil {
		return p.fail(err)
	}

	settings, err := config.LoadSettings(config.SettingsPath())
	if err != nil {
		return p.fail(err)
	}
	if opts.SNI != "" {
		settings.SNI = opts.SNI
	}
	if opts.Port != 0 {
		settings.Port = opts.Port
	}
	if err := settings.Validate(); err != nil {
		return p.fail(err)
	}

	// The old identity may hold the port we would otherwise pick again.
	p.out.Status("Stopping service...")
	if err := systemd.Stop(); err != nil {
		p.out.Warning(fmt.Sprintf("Failed to stop service: %v", err))
	}

	p.out.Status("Generating new identity...")
	id, err := identity.Generate(ctx, config.BinaryPath(), settings.Port)
	if err != nil {
		return p.fail(err)
	}

	doc := singbox.Build(id, settings.SNI, config.DefaultHandshakePort)
	if err := doc.Save(config.ServerConfigPath()); err != nil {
		return p.fail(err)
	}
	if err := singbox.CheckFile(ctx, config.BinaryPath(), config.ServerConfigPath()); err != nil {
		return p.fail(err)
	}

	rec.UUID = id.UUID
	rec.ShortID = id.ShortID
	rec.PublicKey = id.PublicKey
	rec.Port = id.Port
	rec.SNI = settings.SNI
	rec.CreatedAt = time.Now().UTC()
	if err := rec.Save(); err != nil {
		return p.fail(err)
	}
	if err := settings.Save(config.SettingsPath()); err != nil {
		p.out.Warning(fmt.Sprintf("Failed to save settings: %v", err))
	}

	if err := systemd.ChownTree(config.InstallDir()); err != nil {
		p.out.Warning(fmt.Sprintf("Failed to fix ownership: %v", err))
	}

	p.out.Status("Restarting service...")
	p.reportPreflight(ctx, settings.SNI, id.Port)
	if err := systemd.Restart(); err != nil {
		return p.fail(err)
	}

	p.out.Success("Identity regenerated; previous client links are now invalid")
	p.out.EndProgress()

	return p.ShowLink(ctx, !opts.NoQR)
}
