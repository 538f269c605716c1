// Package publicip discovers the host's externally visible address for
// share links.
package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/net2share/sbsetup/internal/logger"
)

// Placeholder stands in for the address when no echo service is reachable,
// so emitted links stay syntactically valid and obviously incomplete.
const Placeholder = "YOUR_SERVER_IP"

const requestTimeout = 5 * time.Second

// Echo services tried in order. The v6-only endpoint keeps hosts without
// public IPv4 from falling through to the placeholder.
var defaultEndpoints = []string{
	"https://api.ipify.org",
	"https://api6.ipify.org",
	"https://icanhazip.com",
}

var echoClient = &http.Client{Timeout: requestTimeout}

// ErrNotDetected means every echo service failed or answered garbage.
var ErrNotDetected = errors.New("public address not detected")

// Detect returns the host's public IP as reported by the first echo
// service that answers with a well-formed address.
func Detect(ctx context.Context) (string, error) {
	return detectFrom(ctx, defaultEndpoints)
}

func detectFrom(ctx context.Context, endpoints []string) (string, error) {
	var lastErr error

	for _, endpoint := range endpoints {
		addr, err := fetchAddress(ctx, endpoint)
		if err != nil {
			logger.Debugf("address echo %s failed: %v", endpoint, err)
			lastErr = err
			continue
		}
		return addr, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrNotDetected, lastErr)
	}

	return "", ErrNotDetected
}

func fetchAddress(ctx context.Context, endpoint string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := echoClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s answered %s", endpoint, resp.Status)
	}

	// An address is at most 45 bytes; anything longer is not one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 128))
	if err != nil {
		return "", err
	}

	addr := strings.TrimSpace(string(body))
	if net.ParseIP(addr) == nil {
		return "", fmt.Errorf("%s answered malformed address %q", endpoint, addr)
	}

	return addr, nil
}
