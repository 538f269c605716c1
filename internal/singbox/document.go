// Package singbox builds and persists the server configuration document
// consumed by the sing-box binary. The schema is dictated by the binary;
// this package only guarantees the document is well-formed JSON with the
// generated identity inserted as data.
package singbox

import (
	"github.com/net2share/sbsetup/internal/identity"
)

// Document field values fixed by the deployment shape: one Reality-terminated
// VLESS inbound, one direct outbound, one plain-UDP resolver.
const (
	dnsServerTag  = "remote"
	dnsServerType = "udp"
	dnsServerAddr = "1.1.1.1"
	dnsStrategy   = "prefer_ipv4"

	inboundType = "vless"
	inboundTag  = "vless-in"
	listenAddr  = "::"

	outboundType = "direct"
	outboundTag  = "direct"

	// FlowVision is the VLESS flow-control label used for both the server
	// user entry and the client link.
	FlowVision = "xtls-rprx-vision"
)

// Config is the root of the server configuration document.
type Config struct {
	DNS       DNS        `json:"dns"`
	Inbounds  []Inbound  `json:"inbounds"`
	Outbounds []Outbound `json:"outbounds"`
}

// DNS configures the binary's resolver.
type DNS struct {
	Servers  []DNSServer `json:"servers"`
	Strategy string      `json:"strategy"`
}

// DNSServer is one resolver entry.
type DNSServer struct {
	Tag    string `json:"tag"`
	Type   string `json:"type"`
	Server string `json:"server"`
}

// Inbound is a listening ingress endpoint.
type Inbound struct {
	Type       string `json:"type"`
	Tag        string `json:"tag"`
	Listen     string `json:"listen"`
	ListenPort int    `json:"listen_port"`
	Users      []User `json:"users"`
	TLS        *TLS   `json:"tls,omitempty"`
}

// User is one authorized client.
type User struct {
	UUID string `json:"uuid"`
	Flow string `json:"flow"`
}

// TLS is the inbound TLS termination block.
type TLS struct {
	Enabled    bool     `json:"enabled"`
	ServerName string   `json:"server_name"`
	Reality    *Reality `json:"reality,omitempty"`
}

// Reality is the camouflage handshake block.
type Reality struct {
	Enabled    bool      `json:"enabled"`
	Handshake  Handshake `json:"handshake"`
	PrivateKey string    `json:"private_key"`
	ShortID    []string  `json:"short_id"`
}

// Handshake is the camouflage target the Reality handshake mimics.
type Handshake struct {
	Server     string `json:"server"`
	ServerPort int    `json:"server_port"`
}

// Outbound is an egress routing target.
type Outbound struct {
	Type           string          `json:"type"`
	Tag            string          `json:"tag"`
	DomainResolver *DomainResolver `json:"domain_resolver,omitempty"`
}

// DomainResolver points an outbound at a DNS server entry by tag.
type DomainResolver struct {
	Server   string `json:"server"`
	Strategy string `json:"strategy"`
}

// Build assembles the document from a generated identity. The SNI is both
// the advertised server name and the handshake camouflage target.
func Build(id *identity.Identity, sni string, handshakePort int) *Config {
	return &Config{
		DNS: DNS{
			Servers: []DNSServer{
				{Tag: dnsServerTag, Type: dnsServerType, Server: dnsServerAddr},
			},
			Strategy: dnsStrategy,
		},
		Inbounds: []Inbound{
			{
				Type:       inboundType,
				Tag:        inboundTag,
				Listen:     listenAddr,
				ListenPort: id.Port,
				Users: []User{
					{UUID: id.UUID, Flow: FlowVision},
				},
				TLS: &TLS{
					Enabled:    true,
					ServerName: sni,
					Reality: &Reality{
						Enabled:    true,
						Handshake:  Handshake{Server: sni, ServerPort: handshakePort},
						PrivateKey: id.PrivateKey,
						ShortID:    []string{id.ShortID},
					},
				},
			},
		},
		Outbounds: []Outbound{
			{
				Type: outboundType,
				Tag:  outboundTag,
				DomainResolver: &DomainResolver{
					Server:   dnsServerTag,
					Strategy: dnsStrategy,
				},
			},
		},
	}
}

// VLESSInbound returns the provisioned inbound, or nil when the document
// was edited into a shape this tool no longer recognizes.
func (c *Config) VLESSInbound() *Inbound {
	for i := range c.Inbounds {
		if c.Inbounds[i].Type == inboundType {
			return &c.Inbounds[i]
		}
	}
	return nil
}
