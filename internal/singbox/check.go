package singbox

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CheckFile asks the installed binary to validate a config document. The
// binary is the schema authority; this tool never second-guesses it.
func CheckFile(ctx context.Context, binaryPath, configPath string) error {
	out, err := exec.CommandContext(ctx, binaryPath, "check", "-c", configPath).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("config check failed: %w", err)
		}
		return fmt.Errorf("config check failed: %s", msg)
	}
	return nil
}

// VersionString reports the installed binary's version banner.
func VersionString(ctx context.Context, binaryPath string) (string, error) {
	out, err := exec.CommandContext(ctx, binaryPath, "version").Output()
	if err != nil {
		return "", fmt.Errorf("%s version failed: %w", binaryPath, err)
	}
	return strings.TrimSpace(string(out)), nil
}
