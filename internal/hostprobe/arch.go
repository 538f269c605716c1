package hostprobe

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// MachineType returns the kernel-reported machine string (uname -m).
func MachineType() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", fmt.Errorf("uname failed: %w", err)
	}
	return unix.ByteSliceToString(uts.Machine[:]), nil
}

// ResolveArch maps a machine string to the release-asset architecture label.
// Unrecognized machines are fatal for provisioning: there is no fallback
// architecture to download.
func ResolveArch(machine string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(machine))

	switch m {
	case "x86_64", "amd64":
		return "amd64", nil
	case "aarch64", "arm64":
		return "arm64", nil
	case "i386", "i486", "i586", "i686":
		return "386", nil
	case "s390x":
		return "s390x", nil
	}

	// Arm family names carry a variant suffix (armv7l, armv8b, ...).
	switch {
	case strings.HasPrefix(m, "armv8"):
		return "arm64", nil
	case strings.HasPrefix(m, "armv7"):
		return "armv7", nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedArch, machine)
}
