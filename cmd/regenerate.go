package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/net2share/sbsetup/internal/provision"
	"github.com/net2share/sbsetup/internal/ui"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Replace the install's identity (new UUID, keypair, and port)",
	Long: `Generate a fresh UUID, Reality keypair, short id, and listen port,
rewrite the configuration, and restart the service.

Existing client links stop working immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		sni, _ := cmd.Flags().GetString("sni")
		port, _ := cmd.Flags().GetInt("port")
		noQR, _ := cmd.Flags().GetBool("no-qr")
		force, _ := cmd.Flags().GetBool("force")

		p := provision.New(ui.NewOutput(false))
		return p.Regenerate(ctx, provision.RegenerateOptions{
			SNI:   sni,
			Port:  port,
			NoQR:  noQR,
			Force: force,
		})
	},
}

func init() {
	regenerateCmd.Flags().String("sni", "", "New camouflage target (default: keep current)")
	regenerateCmd.Flags().Int("port", 0, "New listen port (default: random free port)")
	regenerateCmd.Flags().Bool("no-qr", false, "Do not print the QR code")
	regenerateCmd.Flags().BoolP("force", "f", false, "Consent to invalidating existing client links")
	rootCmd.AddCommand(regenerateCmd)
}
