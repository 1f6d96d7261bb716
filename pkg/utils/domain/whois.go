package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/vit0-9/breachsignal_api/models"
)

// Unknown fills registration fields the registry did not report.
const Unknown = "Unknown"

type WhoisError struct {
	Domain string
	Err    error
}

func (e *WhoisError) Error() string {
	return fmt.Sprintf("whois lookup failed for %s: %v", e.Domain, e.Err)
}

func (e *WhoisError) Unwrap() error { return e.Err }

// WhoisClient queries registries directly over port 43. It is used when no
// WHOIS API key is configured.
type WhoisClient struct {
	client *whois.Client
}

// NewWhoisClient returns a client whose queries time out after timeout.
func NewWhoisClient(timeout time.Duration) *WhoisClient {
	return &WhoisClient{client: whois.NewClient().SetTimeout(timeout)}
}

// Lookup queries the registry for the registrable part of domain.
func (w *WhoisClient) Lookup(ctx context.Context, domain string) (*models.WhoisRecord, error) {
	apex := Apex(domain)
	if err := ctx.Err(); err != nil {
		return nil, &WhoisError{Domain: apex, Err: err}
	}

	type result struct {
		raw string
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := w.client.Whois(apex)
		done <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &WhoisError{Domain: apex, Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			return nil, &WhoisError{Domain: apex, Err: r.err}
		}
		rec, err := ParseWhois(r.raw)
		if err != nil {
			return nil, &WhoisError{Domain: apex, Err: err}
		}
		return rec, nil
	}
}

// ParseWhois extracts registration metadata from a raw WHOIS response.
// Missing fields default to Unknown; the raw text is kept.
func ParseWhois(raw string) (*models.WhoisRecord, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			return nil, fmt.Errorf("domain is not registered: %w", err)
		}
		return nil, fmt.Errorf("parse whois response: %w", err)
	}

	rec := &models.WhoisRecord{
		Registrar:   Unknown,
		CreatedDate: Unknown,
		ExpiresDate: Unknown,
		UpdatedDate: Unknown,
		NameServers: []string{},
		Status:      Unknown,
		RawData:     raw,
	}
	if info.Registrar != nil && info.Registrar.Name != "" {
		rec.Registrar = info.Registrar.Name
	}
	if d := info.Domain; d != nil {
		rec.CreatedDate = orUnknown(d.CreatedDate)
		rec.ExpiresDate = orUnknown(d.ExpirationDate)
		rec.UpdatedDate = orUnknown(d.UpdatedDate)
		if len(d.NameServers) > 0 {
			rec.NameServers = d.NameServers
		}
		if len(d.Status) > 0 {
			rec.Status = strings.Join(d.Status, ", ")
		}
	}
	return rec, nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
