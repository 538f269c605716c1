package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPickRandom_Range verifies picked ports always land in [min, max).
func TestPickRandom_Range(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		p, err := PickRandom(1025, 65535)
		require.NoError(t, err)
		require.GreaterOrEqual(t, p, 1025)
		require.Less(t, p, 65535)
	}
}

// TestPickRandom_InvalidRange rejects empty or inverted ranges.
func TestPickRandom_InvalidRange(t *testing.T) {
	t.Parallel()

	_, err := PickRandom(2000, 2000)
	require.Error(t, err)

	_, err = PickRandom(0, 100)
	require.Error(t, err)
}

// TestPick_PreferredBusy reports an error when the requested port is taken.
func TestPick_PreferredBusy(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	busy := ln.Addr().(*net.TCPAddr).Port
	_, err = Pick(busy, 1025, 65535)
	require.Error(t, err)
}

// TestPick_PreferredFree returns the requested port when it can be bound.
func TestPick_PreferredFree(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	free := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	got, err := Pick(free, 1025, 65535)
	require.NoError(t, err)
	require.Equal(t, free, got)
}
