package provision

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/net2share/sbsetup/internal/clientcfg"
	"github.com/net2share/sbsetup/internal/config"
	"github.com/net2share/sbsetup/internal/publicip"
)

// ShowLink prints the client connection URL for the current install,
// re-trying public address detection if none was recorded.
func (p *Provisioner) ShowLink(ctx context.Context, withQR bool) error {
	rec, err := config.LoadRecord()
	if errors.Is(err, config.ErrNoRecord) {
		return fmt.Errorf("nothing installed; run install first")
	}
	if err != nil {
		return err
	}

	if rec.ServerIP == "" || rec.ServerIP == publicip.Placeholder {
		addr, err := publicip.Detect(ctx)
		if err != nil {
			rec.ServerIP = publicip.Placeholder
			p.out.Warning(fmt.Sprintf("Public address not detected: %v", err))
			p.out.Warning(fmt.Sprintf("Replace %q in the link by hand", publicip.Placeholder))
		} else {
			rec.ServerIP = addr
			if err := rec.Save(); err != nil {
				p.out.Warning(fmt.Sprintf("Failed to update record: %v", err))
			}
		}
	}

	link := clientcfg.FromRecord(rec)

	p.out.Println()
	p.out.Box("Client connection", []string{
		p.out.KV("Server", clientcfg.FormatHost(rec.ServerIP)),
		p.out.KV("Port", strconv.Itoa(rec.Port)),
		p.out.KV("UUID", rec.UUID),
		p.out.KV("Short ID", rec.ShortID),
		p.out.KV("SNI", rec.SNI),
		p.out.KV("Public key", rec.PublicKey),
		p.out.KV("Version", rec.Version),
	})
	p.out.Println()
	p.out.Println(link.String())
	p.out.Println()

	if withQR {
		qr, err := link.QRString()
		if err != nil {
			p.out.Warning(fmt.Sprintf("Failed to render QR code: %v", err))
			return nil
		}
		p.out.Print(qr)
	}

	return nil
}
