package clientcfg

import (
	"fmt"
	"net/url"
	"strings"
)

const urlScheme = "vless://"

// String renders the link as a vless:// URL. Client apps are picky about
// parameter order, so the query is laid out by hand rather than through
// url.Values.
func (l *Link) String() string {
	query := fmt.Sprintf(
		"encryption=none&flow=%s&security=reality&sni=%s&fp=%s&pbk=%s&sid=%s",
		url.QueryEscape(l.Flow),
		url.QueryEscape(l.SNI),
		url.QueryEscape(l.Fingerprint),
		url.QueryEscape(l.PublicKey),
		url.QueryEscape(l.ShortID),
	)

	link := fmt.Sprintf("%s%s@%s:%d?%s", urlScheme, l.UUID, FormatHost(l.Host), l.Port, query)
	if l.Label != "" {
		link += "#" + url.PathEscape(l.Label)
	}

	return link
}

// FormatHost brackets IPv6 literals so they survive the host:port split.
func FormatHost(host string) string {
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		return "[" + host + "]"
	}
	return host
}
