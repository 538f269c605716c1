package identity

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var shortIDPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// TestShortIDFor_Format checks the short ID is always 16 lowercase hex chars.
func TestShortIDFor_Format(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"eb8821c3-5e03-4d49-a0e5-30a21e3418a4",
		"00000000-0000-0000-0000-000000000000",
		"not-even-a-uuid",
	} {
		got := ShortIDFor(in)
		require.Len(t, got, 16)
		require.Regexp(t, shortIDPattern, got)
	}
}

// TestShortIDFor_Deterministic verifies the same UUID always yields the
// same short ID and different UUIDs diverge.
func TestShortIDFor_Deterministic(t *testing.T) {
	t.Parallel()

	a := ShortIDFor("eb8821c3-5e03-4d49-a0e5-30a21e3418a4")
	b := ShortIDFor("eb8821c3-5e03-4d49-a0e5-30a21e3418a4")
	c := ShortIDFor("eb8821c3-5e03-4d49-a0e5-30a21e3418a5")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

// TestParseKeypair_Output parses the keygen subcommand's two-line format.
func TestParseKeypair_Output(t *testing.T) {
	t.Parallel()

	out := "PrivateKey: iJsa3yz3zXvyAma9GFt0fl_RpbuNyAOM8VzUB0Y9MkM\nPublicKey: e55ahbVLqtHizfCHBS_2TonEeIGzmNS1p6CTTCeEYDM\n"

	pair, err := parseKeypair(out)
	require.NoError(t, err)
	require.Equal(t, "iJsa3yz3zXvyAma9GFt0fl_RpbuNyAOM8VzUB0Y9MkM", pair.PrivateKey)
	require.Equal(t, "e55ahbVLqtHizfCHBS_2TonEeIGzmNS1p6CTTCeEYDM", pair.PublicKey)
}

// TestParseKeypair_ExtraOutput tolerates banner lines around the keys.
func TestParseKeypair_ExtraOutput(t *testing.T) {
	t.Parallel()

	out := "sing-box generate\nPrivateKey: priv\nPublicKey: pub\ndone\n"
	pair, err := parseKeypair(out)
	require.NoError(t, err)
	require.Equal(t, "priv", pair.PrivateKey)
	require.Equal(t, "pub", pair.PublicKey)
}

// TestParseKeypair_Garbage errors when either key is missing.
func TestParseKeypair_Garbage(t *testing.T) {
	t.Parallel()

	for _, out := range []string{
		"",
		"PrivateKey: onlyone\n",
		"PublicKey: onlyone\n",
		"nothing useful here\n",
	} {
		_, err := parseKeypair(out)
		require.Error(t, err, "output %q", out)
	}
}
