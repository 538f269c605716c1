package clientcfg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/net2share/sbsetup/internal/config"
)

func testLink() *Link {
	return &Link{
		UUID:        "b831381d-6324-4d53-ad4f-8cda48b30811",
		Host:        "203.0.113.7",
		Port:        24567,
		SNI:         "www.bing.com",
		Fingerprint: "chrome",
		PublicKey:   "SbVKOEMjK0sIlbwg4akyBg5mL5KZwwB-ed4eEE7YnRc",
		ShortID:     "0123456789abcdef",
		Flow:        "xtls-rprx-vision",
		Label:       "sb-server",
	}
}

// TestLinkString_Layout verifies the exact URL shape client apps expect.
func TestLinkString_Layout(t *testing.T) {
	t.Parallel()

	want := "vless://b831381d-6324-4d53-ad4f-8cda48b30811@203.0.113.7:24567" +
		"?encryption=none&flow=xtls-rprx-vision&security=reality" +
		"&sni=www.bing.com&fp=chrome" +
		"&pbk=SbVKOEMjK0sIlbwg4akyBg5mL5KZwwB-ed4eEE7YnRc" +
		"&sid=0123456789abcdef#sb-server"

	require.Equal(t, want, testLink().String())
}

// TestLinkString_IPv6 verifies v6 hosts are bracketed in the URL.
func TestLinkString_IPv6(t *testing.T) {
	t.Parallel()

	link := testLink()
	link.Host = "2001:db8::1"

	require.Contains(t, link.String(), "@[2001:db8::1]:24567?")
}

// TestLinkString_NoLabel verifies the fragment is omitted without a label.
func TestLinkString_NoLabel(t *testing.T) {
	t.Parallel()

	link := testLink()
	link.Label = ""

	require.NotContains(t, link.String(), "#")
}

// TestParseLink_Roundtrip verifies String and ParseLink agree.
func TestParseLink_Roundtrip(t *testing.T) {
	t.Parallel()

	original := testLink()

	parsed, err := ParseLink(original.String())
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

// TestParseLink_IPv6Roundtrip verifies brackets are stripped on parse.
func TestParseLink_IPv6Roundtrip(t *testing.T) {
	t.Parallel()

	original := testLink()
	original.Host = "2001:db8::1"

	parsed, err := ParseLink(original.String())
	require.NoError(t, err)
	require.Equal(t, "2001:db8::1", parsed.Host)
}

// TestParseLink_Rejects verifies scheme, identity, and security checks.
func TestParseLink_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"wrong scheme":   "trojan://user@host:443?security=reality",
		"missing id":     "vless://host:443?security=reality",
		"plain security": "vless://b831381d-6324-4d53-ad4f-8cda48b30811@host:443?security=tls",
		"bad port":       "vless://b831381d-6324-4d53-ad4f-8cda48b30811@host:http?security=reality",
	}

	for name, raw := range cases {
		_, err := ParseLink(raw)
		require.Error(t, err, name)
	}
}

// TestFromRecord_Mapping verifies record fields land in the link.
func TestFromRecord_Mapping(t *testing.T) {
	t.Parallel()

	rec := &config.Record{
		UUID:        "b831381d-6324-4d53-ad4f-8cda48b30811",
		ShortID:     "0123456789abcdef",
		Port:        24567,
		SNI:         "www.bing.com",
		Fingerprint: "chrome",
		PublicKey:   "PUBKEY",
		Label:       "sb-server",
		ServerIP:    "203.0.113.7",
	}

	link := FromRecord(rec)
	require.Equal(t, rec.UUID, link.UUID)
	require.Equal(t, rec.ServerIP, link.Host)
	require.Equal(t, rec.Port, link.Port)
	require.Equal(t, "xtls-rprx-vision", link.Flow)
}

// TestFormatHost_Bracketing verifies only v6 literals get brackets.
func TestFormatHost_Bracketing(t *testing.T) {
	t.Parallel()

	require.Equal(t, "203.0.113.7", FormatHost("203.0.113.7"))
	require.Equal(t, "example.com", FormatHost("example.com"))
	require.Equal(t, "[2001:db8::1]", FormatHost("2001:db8::1"))
	require.Equal(t, "[2001:db8::1]", FormatHost("[2001:db8::1]"))
}

// TestQRString_Renders verifies the terminal QR output is produced.
func TestQRString_Renders(t *testing.T) {
	t.Parallel()

	qr, err := testLink().QRString()
	require.NoError(t, err)
	require.Greater(t, strings.Count(qr, "\n"), 5)
}
