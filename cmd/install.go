package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/net2share/sbsetup/internal/provision"
	"github.com/net2share/sbsetup/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision sing-box on this host",
	Long: `Provision sing-box end to end: install dependencies, download and
verify the release binary, generate a fresh Reality identity, register
the systemd service, and print the client connection link.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		sni, _ := cmd.Flags().GetString("sni")
		port, _ := cmd.Flags().GetInt("port")
		version, _ := cmd.Flags().GetString("version")
		label, _ := cmd.Flags().GetString("label")
		force, _ := cmd.Flags().GetBool("force")
		skipDeps, _ := cmd.Flags().GetBool("skip-deps")
		noQR, _ := cmd.Flags().GetBool("no-qr")

		p := provision.New(ui.NewOutput(false))
		return p.Install(ctx, provision.InstallOptions{
			SNI:      sni,
			Port:     port,
			Version:  version,
			Label:    label,
			Force:    force,
			SkipDeps: skipDeps,
			NoQR:     noQR,
		})
	},
}

func init() {
	installCmd.Flags().String("sni", "", "Camouflage target server name")
	installCmd.Flags().Int("port", 0, "Listen port (default: random free port)")
	installCmd.Flags().String("version", "", "Release tag to install (default: latest)")
	installCmd.Flags().String("label", "", "Share-link label (default: hostname)")
	installCmd.Flags().BoolP("force", "f", false, "Reinstall over a running service")
	installCmd.Flags().Bool("skip-deps", false, "Skip the package-manager dependency step")
	installCmd.Flags().Bool("no-qr", false, "Do not print the QR code")
	rootCmd.AddCommand(installCmd)
}
