package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/net2share/go-corelib/tui"
	"github.com/spf13/cobra"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/singbox"
	"github.com/net2share/sbsetup/internal/systemd"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the generated configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration document",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := singbox.Load(config.ServerConfigPath())
		if err != nil {
			return err
		}
		fmt.Println(doc.Format())
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration with the installed binary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := singbox.CheckFile(cmd.Context(), config.BinaryPath(), config.ServerConfigPath()); err != nil {
			return err
		}
		tui.PrintSuccess("Configuration accepted by the binary")
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration in an editor, then validate it",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.ServerConfigPath()
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("no configuration at %s; run install first", configPath)
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "nano"
		}

		editorCmd := exec.Command(editor, configPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return err
		}

		if err := singbox.CheckFile(cmd.Context(), config.BinaryPath(), configPath); err != nil {
			tui.PrintWarning("The edited configuration was rejected; the service keeps the old one until restart")
			return err
		}

		tui.PrintSuccess("Configuration accepted")
		if systemd.IsActive() {
			tui.PrintInfo("Restart to apply: sbsetup service restart")
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}
