package identity

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Keypair is the Reality X25519 keypair as encoded by the binary.
type Keypair struct {
	PrivateKey string
	PublicKey  string
}

// GenerateKeypair invokes the installed binary's keygen subcommand and
// parses its two-line output.
func GenerateKeypair(ctx context.Context, binaryPath string) (Keypair, error) {
	out, err := exec.CommandContext(ctx, binaryPath, "generate", "reality-keypair").Output()
	if err != nil {
		return Keypair{}, fmt.Errorf("%s generate reality-keypair failed: %w", binaryPath, err)
	}
	return parseKeypair(string(out))
}

// parseKeypair extracts the keys from "PrivateKey: ..." / "PublicKey: ..."
// lines. Order and surrounding output don't matter; both keys must appear.
func parseKeypair(out string) (Keypair, error) {
	var pair Keypair

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		switch key {
		case "PrivateKey":
			pair.PrivateKey = value
		case "PublicKey":
			pair.PublicKey = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Keypair{}, err
	}

	if pair.PrivateKey == "" || pair.PublicKey == "" {
		return Keypair{}, fmt.Errorf("keygen output missing keys: %q", out)
	}

	return pair, nil
}
