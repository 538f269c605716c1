package provision

import (
	"context"
	"fmt"
	"os"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/download"
	"github.com/net2share/sbsetup/internal/hostprobe"
	"github.com/net2share/sbsetup/internal/singbox"
	"github.com/net2share/sbsetup/internal/systemd"
)

// UpdateOptions tunes a binary update.
type UpdateOptions struct {
	Version   string // explicit tag; empty resolves latest
	CheckOnly bool   // report without applying
	Force     bool   // reinstall even when tags match
}

// Update replaces the installed binary with the requested release. The
// identity and configuration are left untouched. An explicit Version can
// move in either direction; the index's latest tag is otherwise taken as
// the target.
func (p *Provisioner) Update(ctx context.Context, opts UpdateOptions) error {
	p.out.BeginProgress("Update sing-box")

	if !config.IsInstalled() {
		return p.fail(fmt.Errorf("nothing installed; run install first"))
	}

	rec, err := config.LoadRecord()
	if err != nil {
		return p.fail(err)
	}

	p.out.Status("Checking for updates...")
	release, err := download.ResolveRelease(ctx, opts.Version)
	if err != nil {
		return p.fail(err)
	}

	if release.TagName == rec.Version && !opts.Force {
		p.out.Success(fmt.Sprintf("sing-box is up to date (%s)", rec.Version))
		p.out.EndProgress()
		return nil
	}

	p.out.Info(fmt.Sprintf("Update available: %s → %s", rec.Version, release.TagName))
	if opts.CheckOnly {
		p.out.Info("Run 'sbsetup update' to apply")
		p.out.EndProgress()
		return nil
	}

	if err := hostprobe.RequireRoot(); err != nil {
		return p.fail(err)
	}

	asset, err := release.AssetFor(rec.Arch)
	if err != nil {
		return p.fail(err)
	}

	staged, err := p.stageBinary(ctx, asset)
	if err != nil {
		return p.fail(err)
	}
	defer os.Remove(staged)

	p.out.Status("Stopping service...")
	if err := systemd.Stop(); err != nil {
		p.out.Warning(fmt.Sprintf("Failed to stop service: %v", err))
	}

	f, err := os.Open(staged)
	if err != nil {
		return p.fail(err)
	}

	err = goupdate.Apply(f, goupdate.Options{
		TargetPath: config.BinaryPath(),
		TargetMode: 0o755,
	})
	f.Close()
	if err != nil {
		if rerr := goupdate.RollbackError(err); rerr != nil {
			return p.fail(fmt.Errorf("update failed and rollback failed, binary may be broken: %w", rerr))
		}
		return p.fail(fmt.Errorf("update failed (rolled back): %w", err))
	}

	if version, err := singbox.VersionString(ctx, config.BinaryPath()); err == nil {
		p.out.Status(fmt.Sprintf("Binary reports: %s", version))
	}

	rec.Version = release.TagName
	if err := rec.Save(); err != nil {
		p.out.Warning(fmt.Sprintf("Failed to update record: %v", err))
	}

	p.out.Status("Restarting service...")
	if err := systemd.Restart(); err != nil {
		return p.fail(err)
	}

	p.out.Success(fmt.Sprintf("sing-box updated to %s", release.TagName))
	p.out.EndProgress()
	return nil
}
