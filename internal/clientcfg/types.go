package clientcfg

import (
	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/singbox"
)

// Link holds everything a client needs to reach a Reality inbound. It is
// the in-memory form of a vless:// share URL.
type Link struct {
	UUID        string
	Host        string
	Port        int
	SNI         string
	Fingerprint string
	PublicKey   string
	ShortID     string
	Flow        string
	Label       string
}

// FromRecord builds a share link from a stored provision record.
func FromRecord(rec *config.Record) *Link {
	return &Link{
		UUID:        rec.UUID,
		Host:        rec.ServerIP,
		Port:        rec.Port,
		SNI:         rec.SNI,
		Fingerprint: rec.Fingerprint,
		PublicKey:   rec.PublicKey,
		ShortID:     rec.ShortID,
		Flow:        singbox.FlowVision,
		Label:       rec.Label,
	}
}
