package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/net2share/sbsetup/internal/provision"
	"github.com/net2share/sbsetup/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the installed sing-box binary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		version, _ := cmd.Flags().GetString("version")
		checkOnly, _ := cmd.Flags().GetBool("check")
		force, _ := cmd.Flags().GetBool("force")

		p := provision.New(ui.NewOutput(false))
		return p.Update(ctx, provision.UpdateOptions{
			Version:   version,
			CheckOnly: checkOnly,
			Force:     force,
		})
	},
}

func init() {
	updateCmd.Flags().String("version", "", "Target release tag (default: latest)")
	updateCmd.Flags().Bool("check", false, "Only report whether an update is available")
	updateCmd.Flags().BoolP("force", "f", false, "Reinstall even when already on the target version")
	rootCmd.AddCommand(updateCmd)
}
