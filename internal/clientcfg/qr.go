package clientcfg

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRString renders the link as a half-block QR code sized for terminals.
func (l *Link) QRString() (string, error) {
	qr, err := qrcode.New(l.String(), qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}

	return qr.ToSmallString(false), nil
}
