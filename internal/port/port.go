// Package port provides bind-probe port utilities.
package port

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net"
)

// maxPickAttempts bounds the random search; with tens of thousands of
// candidate ports, exhausting it means the host is pathologically loaded.
const maxPickAttempts = 64

// IsAvailable checks whether a TCP port can be bound on all interfaces.
func IsAvailable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}

// PickRandom returns a uniformly random port in [min, max) that passes a
// bind probe at selection time.
func PickRandom(min, max int) (int, error) {
	if min <= 0 || max <= min {
		return 0, fmt.Errorf("invalid port range [%d, %d)", min, max)
	}

	span := big.NewInt(int64(max - min))
	for attempt := 0; attempt < maxPickAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return 0, fmt.Errorf("failed to draw random port: %w", err)
		}

		candidate := min + int(n.Int64())
		if IsAvailable(candidate) {
			return candidate, nil
		}
	}

	return 0, fmt.Errorf("no free port found in [%d, %d) after %d attempts", min, max, maxPickAttempts)
}

// Pick returns the preferred port if it is free, otherwise a random free
// port from [min, max).
func Pick(preferred, min, max int) (int, error) {
	if preferred > 0 {
		if !IsAvailable(preferred) {
			return 0, fmt.Errorf("port %d is already in use", preferred)
		}
		return preferred, nil
	}
	return PickRandom(min, max)
}
