package hostprobe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResolveArch_Supported checks every documented machine type maps to
// exactly one release architecture label.
func TestResolveArch_Supported(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"x86_64":  "amd64",
		"amd64":   "amd64",
		"aarch64": "arm64",
		"arm64":   "arm64",
		"armv8b":  "arm64",
		"armv8l":  "arm64",
		"armv7l":  "armv7",
		"armv7a":  "armv7",
		"i386":    "386",
		"i486":    "386",
		"i586":    "386",
		"i686":    "386",
		"s390x":   "s390x",
		"X86_64":  "amd64",
		" x86_64": "amd64",
	}

	for machine, want := range cases {
		got, err := ResolveArch(machine)
		require.NoError(t, err, "machine %q", machine)
		require.Equal(t, want, got, "machine %q", machine)
	}
}

// TestResolveArch_Unsupported verifies unrecognized machines fail with the
// sentinel error and produce no label.
func TestResolveArch_Unsupported(t *testing.T) {
	t.Parallel()

	for _, machine := range []string{"", "mips64", "riscv64", "ppc64le", "armv6l", "sparc64"} {
		got, err := ResolveArch(machine)
		require.ErrorIs(t, err, ErrUnsupportedArch, "machine %q", machine)
		require.Empty(t, got, "machine %q", machine)
	}
}

// TestDependencies_Copy ensures callers cannot mutate the fixed set.
func TestDependencies_Copy(t *testing.T) {
	t.Parallel()

	deps := Dependencies()
	require.NotEmpty(t, deps)

	deps[0] = "mutated"
	require.NotEqual(t, deps[0], Dependencies()[0])
}
