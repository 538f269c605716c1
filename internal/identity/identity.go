// Package identity generates the per-install client identity: UUID, short
// ID, Reality keypair, and listen port. Every install regenerates all four;
// there is no partial rotation.
package identity

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/port"
)

// shortIDLen is the hex length the Reality handshake expects.
const shortIDLen = 16

// Identity holds the four generated values that must stay consistent
// between the server config and the client link.
type Identity struct {
	UUID       string
	ShortID    string
	PrivateKey string
	PublicKey  string
	Port       int
}

// Generate produces a fresh identity. The keypair comes from the installed
// binary's own generator so the encoding always matches what the binary
// accepts in its config.
func Generate(ctx context.Context, binaryPath string, preferredPort int) (*Identity, error) {
	id := &Identity{
		UUID: uuid.NewString(),
	}
	id.ShortID = ShortIDFor(id.UUID)

	pair, err := GenerateKeypair(ctx, binaryPath)
	if err != nil {
		return nil, fmt.Errorf("keypair generation failed: %w", err)
	}
	id.PrivateKey = pair.PrivateKey
	id.PublicKey = pair.PublicKey

	p, err := port.Pick(preferredPort, config.MinPort, config.MaxPort)
	if err != nil {
		return nil, fmt.Errorf("port selection failed: %w", err)
	}
	id.Port = p

	return id, nil
}

// ShortIDFor derives the Reality short ID from a UUID: the first 16 hex
// characters of its SHA-1. Deterministic, always lowercase.
func ShortIDFor(clientUUID string) string {
	sum := sha1.Sum([]byte(clientUUID))
	return hex.EncodeToString(sum[:])[:shortIDLen]
}
