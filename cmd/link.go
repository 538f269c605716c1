package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/net2share/sbsetup/internal/provision"
	"github.com/net2share/sbsetup/internal/ui"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print the client connection link",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		withQR, _ := cmd.Flags().GetBool("qr")

		p := provision.New(ui.NewOutput(false))
		return p.ShowLink(ctx, withQR)
	},
}

func init() {
	linkCmd.Flags().Bool("qr", false, "Also render the link as a QR code")
	rootCmd.AddCommand(linkCmd)
}
