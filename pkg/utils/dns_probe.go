package utils

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/vit0-9/breachsignal_api/models"
)

// FallbackResolver is used when no resolver is configured and
// /etc/resolv.conf cannot be read.
const FallbackResolver = "8.8.8.8:53"

// DKIMSelector is the only DKIM selector probed.
const DKIMSelector = "default"

// ednsBufferSize is advertised on every query so long TXT sets fit in UDP.
const ednsBufferSize = 4096

// DNSProbe looks up email-authentication records with a single query per
// record. Truncated UDP answers are repeated once over TCP.
type DNSProbe struct {
	client    *dns.Client
	tcpClient *dns.Client
	server    string
}

// NewDNSProbe returns a probe that sends queries to server (host:port).
// An empty server selects the first nameserver from /etc/resolv.conf.
func NewDNSProbe(server string) *DNSProbe {
	if server == "" {
		server = SystemResolver()
	}
	return &DNSProbe{
		client:    &dns.Client{Net: "udp", Timeout: 5 * time.Second},
		tcpClient: &dns.Client{Net: "tcp", Timeout: 5 * time.Second},
		server:    server,
	}
}

// SystemResolver returns the first nameserver listed in /etc/resolv.conf.
func SystemResolver() string {
	if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(conf.Servers) > 0 {
		return net.JoinHostPort(conf.Servers[0], conf.Port)
	}
	return FallbackResolver
}

// Probe collects SPF, DKIM and DMARC TXT records plus DNSSEC presence.
// Lookup failures of any kind leave the corresponding field empty.
func (p *DNSProbe) Probe(ctx context.Context, domain string) models.DNSRecords {
	return models.DNSRecords{
		SPF:    p.lookupTXT(ctx, "_spf."+domain),
		DKIM:   p.lookupTXT(ctx, DKIMSelector+"._domainkey."+domain),
		DMARC:  p.lookupTXT(ctx, "_dmarc."+domain),
		DNSSEC: p.hasDNSKEY(ctx, domain),
	}
}

func (p *DNSProbe) lookupTXT(ctx context.Context, name string) *string {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.SetEdns0(ednsBufferSize, false)

	resp, err := p.exchange(ctx, msg)
	if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
		return nil
	}

	var parts []string
	for _, ans := range resp.Answer {
		if txt, ok := ans.(*dns.TXT); ok {
			parts = append(parts, txt.Txt...)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " ")
	return &joined
}

func (p *DNSProbe) hasDNSKEY(ctx context.Context, domain string) bool {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeDNSKEY)
	msg.SetEdns0(ednsBufferSize, true)

	resp, err := p.exchange(ctx, msg)
	if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
		return false
	}
	for _, ans := range resp.Answer {
		if _, ok := ans.(*dns.DNSKEY); ok {
			return true
		}
	}
	return false
}

func (p *DNSProbe) exchange(ctx context.Context, msg *dns.Msg) (*dns.Msg, error) {
	resp, _, err := p.client.ExchangeContext(ctx, msg, p.server)
	if err != nil || resp == nil || !resp.Truncated {
		return resp, err
	}
	resp, _, err = p.tcpClient.ExchangeContext(ctx, msg, p.server)
	return resp, err
}
