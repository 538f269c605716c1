package cmd

import (
	"github.com/spf13/cobra"

	"github.com/net2share/sbsetup/internal/provision"
	"github.com/net2share/sbsetup/internal/ui"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove sing-box, its service, and its configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		p := provision.New(ui.NewOutput(false))
		return p.Uninstall(provision.UninstallOptions{Force: yes})
	},
}

func init() {
	uninstallCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}
