// Package cmd provides the Cobra CLI for sbsetup.
package cmd

import (
	"errors"
	"os"

	"github.com/net2share/go-corelib/tui"
	"github.com/spf13/cobra"

	"github.com/net2share/sbsetup/internal/download"
	"github.com/net2share/sbsetup/internal/hostprobe"
	"github.com/net2share/sbsetup/internal/logger"
	"github.com/net2share/sbsetup/internal/menu"
	"github.com/net2share/sbsetup/internal/provision"
)

// Version and BuildTime are set at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Exit codes for scripted callers: the early-abort conditions each get a
// stable code.
const (
	exitNotRoot            = 2
	exitUnsupportedManager = 3
	exitUnsupportedArch    = 4
	exitEmptyDownload      = 5
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "sbsetup",
	Short: "sing-box provisioning tool",
	Long:  "sing-box provisioning tool - https://github.com/net2share/sbsetup",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if level, ok := logger.ParseLevel(logLevel); ok {
			logger.SetLevel(level)
		} else {
			logger.Warnf("unknown log level %q, keeping the default", logLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		menu.Version = Version
		menu.BuildTime = BuildTime
		tui.SetAppInfo("sbsetup", Version, BuildTime)
		tui.BeginSession()
		defer tui.EndSession()

		return menu.RunInteractive()
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// Execute runs the root command and maps sentinel failures to their exit
// codes.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, provision.ErrDeclined):
		os.Exit(0)
	case errors.Is(err, hostprobe.ErrNotRoot):
		os.Exit(exitNotRoot)
	case errors.Is(err, hostprobe.ErrUnsupportedManager):
		os.Exit(exitUnsupportedManager)
	case errors.Is(err, hostprobe.ErrUnsupportedArch):
		os.Exit(exitUnsupportedArch)
	case errors.Is(err, download.ErrEmptyDownload):
		os.Exit(exitEmptyDownload)
	default:
		os.Exit(1)
	}
}

// SetVersionInfo sets version information for the CLI.
func SetVersionInfo(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version + " (built " + buildTime + ")"
}
