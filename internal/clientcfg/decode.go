package clientcfg

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseLink parses a vless:// URL back into a Link.
func ParseLink(raw string) (*Link, error) {
	if !strings.HasPrefix(raw, urlScheme) {
		return nil, fmt.Errorf("invalid link: missing %s prefix", urlScheme)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse link: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("invalid link: missing client id")
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return nil, fmt.Errorf("invalid link: bad port: %w", err)
	}

	query := u.Query()
	if security := query.Get("security"); security != "reality" {
		return nil, fmt.Errorf("unsupported security layer: %q", security)
	}

	return &Link{
		UUID:        u.User.Username(),
		Host:        u.Hostname(),
		Port:        port,
		SNI:         query.Get("sni"),
		Fingerprint: query.Get("fp"),
		PublicKey:   query.Get("pbk"),
		ShortID:     query.Get("sid"),
		Flow:        query.Get("flow"),
		Label:       u.Fragment,
	}, nil
}
