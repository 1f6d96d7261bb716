package domain

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrInvalidDomain is returned for input that cannot name a host.
var ErrInvalidDomain = errors.New("invalid domain")

// Normalize turns user input such as "https://WWW.Example.com:443/path" into
// a bare lowercase host name ("www.example.com").
func Normalize(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDomain)
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidDomain, err)
		}
		s = u.Host
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}

	s = strings.TrimSuffix(strings.ToLower(s), ".")
	if s == "" || strings.ContainsAny(s, " \t@") || !strings.Contains(s, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, input)
	}
	if net.ParseIP(s) != nil {
		return "", fmt.Errorf("%w: %q is an IP address", ErrInvalidDomain, input)
	}
	return s, nil
}

// Apex returns the registrable domain (eTLD+1) of host, which is what
// registries answer WHOIS queries for. Hosts without a known public suffix
// are returned unchanged.
func Apex(host string) string {
	apex, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return apex
}
