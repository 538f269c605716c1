// Package menu provides the interactive menu for sbsetup.
package menu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/net2share/go-corelib/osdetect"
	"github.com/net2share/go-corelib/tui"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/provision"
	"github.com/net2share/sbsetup/internal/systemd"
	"github.com/net2share/sbsetup/internal/ui"
)

// errCancelled is returned when user cancels/backs out.
var errCancelled = errors.New("cancelled")

// Version and BuildTime are set by cmd package.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const sbsetupBanner = `
         __             __
   _____/ /_  ________ / /___  ______
  / ___/ __ \/ ___/ _ \/ __/ / / / __ \
 (__  ) /_/ (__  )  __/ /_/ /_/ / /_/ /
/____/_.___/____/\___/\__/\__,_/ .___/
                              /_/
`

// PrintBanner displays the sbsetup banner with version info.
func PrintBanner() {
	tui.PrintBanner(tui.BannerConfig{
		AppName:   "sing-box Setup",
		Version:   Version,
		BuildTime: BuildTime,
		ASCII:     sbsetupBanner,
	})
}

// buildSummary builds a summary string for the main menu header.
func buildSummary() string {
	if !config.IsInstalled() {
		return "Not installed — run Install first"
	}

	rec, err := config.LoadRecord()
	if err != nil {
		return "Installed (provision record missing)"
	}

	state := "stopped"
	if systemd.IsActive() {
		state = "running"
	}

	return fmt.Sprintf("sing-box %s | Port: %d | Service: %s", rec.Version, rec.Port, state)
}

// RunInteractive shows the main interactive menu.
func RunInteractive() error {
	PrintBanner()

	osInfo, err := osdetect.Detect()
	if err != nil {
		tui.PrintWarning("Could not detect OS: " + err.Error())
	} else {
		tui.PrintInfo(fmt.Sprintf("Detected OS: %s", osInfo.PrettyName))
	}

	arch := osdetect.GetArch()
	tui.PrintInfo(fmt.Sprintf("Architecture: %s", arch))

	return runMainMenu()
}

func runMainMenu() error {
	for {
		var options []tui.MenuOption
		installed := config.IsInstalled()

		if installed {
			options = append(options,
				tui.MenuOption{Label: "Client Link", Value: "link"},
				tui.MenuOption{Label: "Status", Value: "status"},
				tui.MenuOption{Label: "Service →", Value: "service"},
				tui.MenuOption{Label: "Regenerate Identity", Value: "regenerate"},
				tui.MenuOption{Label: "Update Binary", Value: "update"},
				tui.MenuOption{Label: "Reinstall", Value: "install"},
				tui.MenuOption{Label: "Uninstall", Value: "uninstall"},
			)
		} else {
			options = append(options, tui.MenuOption{Label: "Install sing-box", Value: "install"})
		}
		options = append(options, tui.MenuOption{Label: "Exit", Value: "exit"})

		choice, err := tui.RunMenu(tui.MenuConfig{
			Header:  buildSummary(),
			Title:   "sing-box Setup",
			Options: options,
		})
		if err != nil {
			return err
		}

		if choice == "" || choice == "exit" {
			return nil
		}

		err = handleMainMenuChoice(choice)
		if errors.Is(err, errCancelled) {
			continue
		}
		if err != nil {
			_ = tui.ShowMessage(tui.AppMessage{Type: "error", Message: err.Error()})
		}
	}
}

func handleMainMenuChoice(choice string) error {
	// Ctrl-C during a flow cancels it and drops back to the menu.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	p := provision.New(ui.NewOutput(true))

	switch choice {
	case "install":
		err := p.Install(ctx, provision.InstallOptions{Confirm: confirm})
		if errors.Is(err, provision.ErrDeclined) {
			return errCancelled
		}
		return err
	case "link":
		return p.ShowLink(ctx, true)
	case "status":
		return showStatus()
	case "service":
		return runServiceMenu()
	case "regenerate":
		ok, err := tui.RunConfirm(tui.ConfirmConfig{
			Title:       "Regenerate identity?",
			Description: "Existing client links stop working immediately.",
			Default:     false,
		})
		if err != nil || !ok {
			return errCancelled
		}
		return p.Regenerate(ctx, provision.RegenerateOptions{Force: true})
	case "update":
		ok, err := tui.RunConfirm(tui.ConfirmConfig{
			Title:       "Update sing-box?",
			Description: "Downloads the latest release and restarts the service.",
			Default:     true,
		})
		if err != nil || !ok {
			return errCancelled
		}
		return p.Update(ctx, provision.UpdateOptions{})
	case "uninstall":
		err := p.Uninstall(provision.UninstallOptions{Confirm: confirm})
		if errors.Is(err, provision.ErrDeclined) {
			return errCancelled
		}
		if err != nil {
			return err
		}
		tui.EndSession()
		os.Exit(0)
	}
	return nil
}

func confirm(prompt string) bool {
	ok, err := tui.RunConfirm(tui.ConfirmConfig{
		Title:   prompt,
		Default: false,
	})
	return err == nil && ok
}

// runServiceMenu shows the service submenu.
func runServiceMenu() error {
	past := map[string]string{"start": "started", "stop": "stopped", "restart": "restarted"}

	for {
		state := "stopped"
		if systemd.IsActive() {
			state = "running"
		}

		choice, err := tui.RunMenu(tui.MenuConfig{
			Title: fmt.Sprintf("Service (%s)", state),
			Options: []tui.MenuOption{
				{Label: "Start", Value: "start"},
				{Label: "Stop", Value: "stop"},
				{Label: "Restart", Value: "restart"},
				{Label: "Recent Logs", Value: "logs"},
				{Label: "Back", Value: "back"},
			},
		})
		if err != nil || choice == "" || choice == "back" {
			return errCancelled
		}

		var actionErr error
		switch choice {
		case "start":
			actionErr = systemd.Start()
		case "stop":
			actionErr = systemd.Stop()
		case "restart":
			actionErr = systemd.Restart()
		case "logs":
			actionErr = systemd.Logs(50, false)
		}

		if actionErr != nil {
			_ = tui.ShowMessage(tui.AppMessage{Type: "error", Message: actionErr.Error()})
		} else if choice != "logs" {
			_ = tui.ShowMessage(tui.AppMessage{Type: "success", Message: "Service " + past[choice]})
		}
	}
}

// showStatus displays the current install in a structured info view.
func showStatus() error {
	rec, err := config.LoadRecord()
	if err != nil {
		return err
	}

	state := "stopped"
	if systemd.IsActive() {
		state = "running"
	}

	return tui.ShowInfo(tui.InfoConfig{
		Title: "sing-box Status",
		Sections: []tui.InfoSection{
			{
				Title: "Install",
				Rows: []tui.InfoRow{
					{Key: "Version", Value: rec.Version},
					{Key: "Architecture", Value: rec.Arch},
					{Key: "Directory", Value: config.InstallDir()},
					{Key: "Provisioned", Value: rec.CreatedAt.Format(time.RFC3339)},
				},
			},
			{
				Title: "Listener",
				Rows: []tui.InfoRow{
					{Key: "Port", Value: strconv.Itoa(rec.Port)},
					{Key: "SNI", Value: rec.SNI},
					{Key: "Fingerprint", Value: rec.Fingerprint},
					{Key: "Public address", Value: rec.ServerIP},
				},
			},
			{
				Title: "Service",
				Rows: []tui.InfoRow{
					{Key: "Unit", Value: config.UnitPath()},
					{Key: "State", Value: state},
				},
			},
		},
	})
}
