// Package provision implements the end-to-end flows: install, identity
// regeneration, binary updates, and uninstall.
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/download"
	"github.com/net2share/sbsetup/internal/hostprobe"
	"github.com/net2share/sbsetup/internal/identity"
	"github.com/net2share/sbsetup/internal/logger"
	"github.com/net2share/sbsetup/internal/preflight"
	"github.com/net2share/sbsetup/internal/publicip"
	"github.com/net2share/sbsetup/internal/singbox"
	"github.com/net2share/sbsetup/internal/systemd"
	"github.com/net2share/sbsetup/internal/ui"
)

// ErrDeclined means the operator answered no to a confirmation prompt.
var ErrDeclined = errors.New("declined by operator")

// Provisioner runs the flows and reports progress through a ui.Output.
type Provisioner struct {
	out *ui.Output
	log *zap.SugaredLogger
}

// New creates a provisioner writing to the given output.
func New(out *ui.Output) *Provisioner {
	return &Provisioner{out: out, log: logger.L()}
}

// InstallOptions tunes a full provisioning run. Zero values mean: use the
// saved settings file, fall back to built-in defaults.
type InstallOptions struct {
	SNI      string // camouflage target server name
	Port     int    // listen port; 0 picks a random free one
	Version  string // release tag like "v1.9.0"; empty resolves latest
	Label    string // share-link label; empty derives from hostname
	Force    bool   // reinstall over a running service without asking
	SkipDeps bool   // skip the package-manager dependency step
	NoQR     bool   // suppress the QR code after install

	// Confirm asks the operator a yes/no question. Nil means the run is
	// non-interactive and anything needing consent requires Force.
	Confirm func(prompt string) bool
}

// Install provisions the proxy end to end: probe the host, install
// dependencies, fetch and verify the release, generate an identity and
// config, register the service, and emit the client link.
func (p *Provisioner) Install(ctx context.Context, opts InstallOptions) error {
	const totalSteps = 8

	// Prompt before the progress view goes up, never during.
	replacing := systemd.IsActive()
	if replacing && !opts.Force {
		if opts.Confirm == nil {
			return fmt.Errorf("the %s service is already running; rerun with --force to reinstall", config.ServiceName)
		}
		if !opts.Confirm("The service is already running. Reinstall and replace its identity?") {
			p.out.Info("Leaving the existing installation in place.")
			return ErrDeclined
		}
	}

	p.out.BeginProgress("Install sing-box")

	// Step 1: Host probe
	p.out.Step(1, totalSteps, "Probing host...")
	probe, err := hostprobe.Detect()
	if err != nil {
		return p.fail(err)
	}
	if err := probe.RequireRoot(); err != nil {
		return p.fail(err)
	}
	if !probe.HasSystemd {
		return p.fail(fmt.Errorf("systemd not found; cannot register the service"))
	}
	p.out.Status(fmt.Sprintf("%s, %s (%s), %s", probe.OSName, probe.Arch, probe.Machine, probe.Manager.Kind))
	if replacing {
		p.out.Status("Existing service will be replaced")
	}

	settings, err := config.LoadSettings(config.SettingsPath())
	if err != nil {
		return p.fail(err)
	}
	applyOverrides(settings, opts)
	if err := settings.Validate(); err != nil {
		return p.fail(err)
	}

	// Step 2: Dependencies
	p.out.Step(2, totalSteps, "Installing dependencies...")
	if opts.SkipDeps {
		p.out.Status("Skipped")
	} else {
		if err := probe.Manager.InstallDependencies(ctx); err != nil {
			return p.fail(err)
		}
		p.out.Status(fmt.Sprintf("Installed: %v", hostprobe.Dependencies()))
	}

	// Step 3: Release resolution
	p.out.Step(3, totalSteps, "Resolving release...")
	release, err := download.ResolveRelease(ctx, settings.Version)
	if err != nil {
		return p.fail(err)
	}
	asset, err := release.AssetFor(probe.Arch)
	if err != nil {
		return p.fail(err)
	}
	p.log.Debugf("resolved release %s, asset %s", release.TagName, asset.Name)
	p.out.Status(fmt.Sprintf("Release %s (%s)", release.TagName, asset.Name))

	// Step 4: Download and verify
	p.out.Step(4, totalSteps, "Downloading archive...")
	staged, err := p.stageBinary(ctx, asset)
	if err != nil {
		return p.fail(err)
	}
	defer os.Remove(staged)

	// Step 5: Binary installation
	p.out.Step(5, totalSteps, "Installing binary...")
	if err := config.EnsureInstallDir(); err != nil {
		return p.fail(err)
	}
	if err := download.InstallBinary(staged, config.BinaryPath()); err != nil {
		return p.fail(err)
	}
	if err := systemd.EnsureServiceUser(); err != nil {
		return p.fail(err)
	}
	p.out.Status(fmt.Sprintf("Installed to %s", config.BinaryPath()))

	// Step 6: Identity and configuration
	p.out.Step(6, totalSteps, "Generating identity and configuration...")
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
	if err := settings.Save(config.SettingsPath()); err != nil {
		p.out.Warning(fmt.Sprintf("Failed to save settings: %v", err))
	}
	p.out.Status(fmt.Sprintf("Listening on port %d, camouflage %s", id.Port, settings.SNI))

	// Step 7: Public address
	p.out.Step(7, totalSteps, "Detecting public address...")
	serverIP, err := publicip.Detect(ctx)
	if err != nil {
		serverIP = publicip.Placeholder
		p.out.Warning(fmt.Sprintf("Public address not detected: %v", err))
		p.out.Warning(fmt.Sprintf("The link will carry the placeholder %q", publicip.Placeholder))
	} else {
		p.out.Status(fmt.Sprintf("Public address %s", serverIP))
	}

	rec := &config.Record{
		SchemaVersion: config.RecordSchemaVersion,
		Version:       release.TagName,
		Arch:          probe.Arch,
		UUID:          id.UUID,
		ShortID:       id.ShortID,
		Port:          id.Port,
		SNI:           settings.SNI,
		Fingerprint:   settings.Fingerprint,
		PublicKey:     id.PublicKey,
		Label:         settings.Label,
		ServerIP:      serverIP,
		CreatedAt:     time.Now().UTC(),
	}
	if err := rec.Save(); err != nil {
		return p.fail(err)
	}

	// Step 8: Service registration
	p.out.Step(8, totalSteps, "Registering service...")
	p.reportPreflight(ctx, settings.SNI, id.Port)

	if err := systemd.ChownTree(config.InstallDir()); err != nil {
		return p.fail(err)
	}
	if err := systemd.WriteUnit(config.BinaryPath(), config.ServerConfigPath(), systemd.ServiceUser); err != nil {
		return p.fail(err)
	}
	if err := systemd.Reload(); err != nil {
		return p.fail(err)
	}
	if err := systemd.Enable(); err != nil {
		return p.fail(err)
	}
	if err := systemd.Restart(); err != nil {
		return p.fail(err)
	}
	p.out.Status("Service enabled and started")

	p.out.Success(fmt.Sprintf("sing-box %s installed", release.TagName))
	p.out.EndProgress()

	return p.ShowLink(ctx, !opts.NoQR)
}

// stageBinary downloads the asset, verifies it against the advertised
// digest, and extracts the binary to a temp file the caller owns.
func (p *Provisioner) stageBinary(ctx context.Context, asset *download.Asset) (string, error) {
	var lastPercent int64 = -1
	archive, err := download.FetchAsset(ctx, asset, func(downloaded, total int64) {
		if total <= 0 {
			return
		}
		percent := downloaded * 100 / total
		if percent/10 > lastPercent/10 {
			p.out.Status(fmt.Sprintf("Downloading... %d%%", percent))
		}
		lastPercent = percent
	})
	if err != nil {
		return "", err
	}
	defer os.Remove(archive)

	switch err := download.VerifyAsset(archive, asset); {
	case errors.Is(err, download.ErrNoDigest):
		p.out.Warning("Release index advertises no digest; archive not verified")
	case err != nil:
		return "", err
	default:
		p.log.Debugf("archive digest verified (%s)", asset.Digest)
		p.out.Status("Archive digest verified")
	}

	staged, err := download.ExtractBinary(archive, config.BinaryName)
	if err != nil {
		return "", err
	}

	return staged, nil
}

// reportPreflight prints warnings for failed checks; it never aborts.
func (p *Provisioner) reportPreflight(ctx context.Context, sni string, listenPort int) {
	for _, result := range preflight.Run(ctx, sni, listenPort) {
		if result.Err != nil {
			p.out.Warning(fmt.Sprintf("Preflight: %s: %v", result.Name, result.Err))
		}
	}
}

func applyOverrides(settings *config.Settings, opts InstallOptions) {
	if opts.SNI != "" {
		settings.SNI = opts.SNI
	}
	if opts.Port != 0 {
		settings.Port = opts.Port
	}
	if opts.Label != "" {
		settings.Label = opts.Label
	}
	if settings.Label == "" {
		settings.Label = defaultLabel()
	}
	if opts.Version != "" {
		settings.Version = opts.Version
	}
}

func defaultLabel() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return config.ServiceName
	}
	return host
}

// fail surfaces the error in an active progress view before returning it;
// in plain mode the caller's error path prints it once.
func (p *Provisioner) fail(err error) error {
	if p.out.IsProgressActive() {
		p.out.Error(fmt.Sprintf("Failed: %v", err))
		p.out.EndProgress()
	}
	return err
}
