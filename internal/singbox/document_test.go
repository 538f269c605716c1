package singbox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/net2share/sbsetup/internal/identity"
)

func testIdentity() *identity.Identity {
	return &identity.Identity{
		UUID:       "eb8821c3-5e03-4d49-a0e5-30a21e3418a4",
		ShortID:    identity.ShortIDFor("eb8821c3-5e03-4d49-a0e5-30a21e3418a4"),
		PrivateKey: "iJsa3yz3zXvyAma9GFt0fl_RpbuNyAOM8VzUB0Y9MkM",
		PublicKey:  "e55ahbVLqtHizfCHBS_2TonEeIGzmNS1p6CTTCeEYDM",
		Port:       42137,
	}
}

// TestBuild_Shape checks the document carries the identity values in the
// positions the binary expects.
func TestBuild_Shape(t *testing.T) {
	t.Parallel()

	id := testIdentity()
	cfg := Build(id, "www.bing.com", 443)

	require.Len(t, cfg.DNS.Servers, 1)
	require.Equal(t, "udp", cfg.DNS.Servers[0].Type)

	in := cfg.VLESSInbound()
	require.NotNil(t, in)
	require.Equal(t, "::", in.Listen)
	require.Equal(t, id.Port, in.ListenPort)
	require.Len(t, in.Users, 1)
	require.Equal(t, id.UUID, in.Users[0].UUID)
	require.Equal(t, FlowVision, in.Users[0].Flow)

	require.NotNil(t, in.TLS)
	require.True(t, in.TLS.Enabled)
	require.Equal(t, "www.bing.com", in.TLS.ServerName)

	reality := in.TLS.Reality
	require.NotNil(t, reality)
	require.True(t, reality.Enabled)
	require.Equal(t, "www.bing.com", reality.Handshake.Server)
	require.Equal(t, 443, reality.Handshake.ServerPort)
	require.Equal(t, id.PrivateKey, reality.PrivateKey)
	require.Equal(t, []string{id.ShortID}, reality.ShortID)

	require.Len(t, cfg.Outbounds, 1)
	require.Equal(t, "direct", cfg.Outbounds[0].Type)
	require.NotNil(t, cfg.Outbounds[0].DomainResolver)
	require.Equal(t, cfg.DNS.Servers[0].Tag, cfg.Outbounds[0].DomainResolver.Server)
}

// TestSaveLoad_Roundtrip ensures parse → re-serialize loses none of the
// four identity fields.
func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	id := testIdentity()
	cfg := Build(id, "www.bing.com", 443)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	in := loaded.VLESSInbound()
	require.NotNil(t, in)
	require.Equal(t, id.UUID, in.Users[0].UUID)
	require.Equal(t, id.Port, in.ListenPort)
	require.Equal(t, id.PrivateKey, in.TLS.Reality.PrivateKey)
	require.Equal(t, []string{id.ShortID}, in.TLS.Reality.ShortID)

	require.Equal(t, cfg.Format(), loaded.Format())
}

// TestLoad_Missing returns the sentinel for a missing document.
func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, ErrNoConfig)
}

// TestVLESSInbound_Missing returns nil on foreign documents.
func TestVLESSInbound_Missing(t *testing.T) {
	t.Parallel()

	cfg := &Config{Inbounds: []Inbound{{Type: "shadowsocks", Tag: "ss-in"}}}
	require.Nil(t, cfg.VLESSInbound())
}
