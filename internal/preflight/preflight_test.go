package preflight

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCheckPortFree_Busy verifies a held port is reported.
func TestCheckPortFree_Busy(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	busyPort := listener.Addr().(*net.TCPAddr).Port

	err = CheckPortFree(busyPort)
	require.Error(t, err)
	require.Contains(t, err.Error(), fmt.Sprintf("%d", busyPort))
}

// TestCheckPortFree_Free verifies a released port passes.
func TestCheckPortFree_Free(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	freePort := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	require.NoError(t, CheckPortFree(freePort))
}
