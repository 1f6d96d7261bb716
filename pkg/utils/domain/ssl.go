package domain

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vit0-9/breachsignal_api/models"
)

type SSLError struct {
	Domain string
	Err    error
}

func (e *SSLError) Error() string {
	return fmt.Sprintf("SSL check failed for %s: %v", e.Domain, e.Err)
}

func (e *SSLError) Unwrap() error { return e.Err }

// InspectCertificate performs a TLS handshake with domain on port (443 when
// zero) and summarizes the served certificate. Invalid certificates are still
// summarized; problems are listed in ValidationErrors.
func InspectCertificate(ctx context.Context, domain string, port int) (*models.CertificateSummary, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, fmt.Errorf("domain cannot be empty")
	}
	if port <= 0 {
		port = 443
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: 10 * time.Second},
		Config: &tls.Config{
			ServerName:         domain,
			InsecureSkipVerify: true, // invalid certificates are reported, not rejected
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(domain, strconv.Itoa(port)))
	if err != nil {
		return nil, &SSLError{Domain: domain, Err: err}
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, &SSLError{Domain: domain, Err: fmt.Errorf("no certificates found")}
	}
	cert := state.PeerCertificates[0]

	summary := &models.CertificateSummary{
		Issuer:             cert.Issuer.String(),
		Subject:            cert.Subject.String(),
		NotBefore:          cert.NotBefore,
		NotAfter:           cert.NotAfter,
		DaysUntilExpiry:    int(time.Until(cert.NotAfter).Hours() / 24),
		SubjectAltNames:    cert.DNSNames,
		KeySize:            getKeySize(cert),
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		TLSVersion:         getTLSVersion(state.Version),
		CipherSuite:        tls.CipherSuiteName(state.CipherSuite),
		IsSelfSigned:       cert.Issuer.String() == cert.Subject.String(),
		ChainLength:        len(state.PeerCertificates),
		ValidationErrors:   validateCertificate(cert, domain),
	}
	if summary.SubjectAltNames == nil {
		summary.SubjectAltNames = []string{}
	}
	for _, name := range cert.DNSNames {
		if strings.HasPrefix(name, "*.") {
			summary.IsWildcard = true
			break
		}
	}
	return summary, nil
}

// validateCertificate performs basic certificate validation
func validateCertificate(cert *x509.Certificate, domain string) []string {
	var errors []string

	// Check expiry
	if time.Now().After(cert.NotAfter) {
		errors = append(errors, "certificate has expired")
	}

	// Check not yet valid
	if time.Now().Before(cert.NotBefore) {
		errors = append(errors, "certificate is not yet valid")
	}

	// Check domain match
	if !matchesDomain(cert, domain) {
		errors = append(errors, "certificate does not match domain")
	}

	// Check if certificate is revoked (basic check)
	if len(cert.CRLDistributionPoints) == 0 && len(cert.OCSPServer) == 0 {
		errors = append(errors, "no revocation checking mechanism available")
	}

	return errors
}

// matchesDomain checks if certificate matches the domain
func matchesDomain(cert *x509.Certificate, domain string) bool {
	// Check subject common name
	if strings.EqualFold(cert.Subject.CommonName, domain) {
		return true
	}

	// Check subject alternative names
	for _, name := range cert.DNSNames {
		if strings.EqualFold(name, domain) {
			return true
		}
		// Check wildcard match
		if strings.HasPrefix(name, "*.") {
			wildcard := name[2:]
			if strings.HasSuffix(domain, "."+wildcard) || strings.EqualFold(domain, wildcard) {
				return true
			}
		}
	}

	return false
}

// getKeySize determines the key size based on public key type
func getKeySize(cert *x509.Certificate) int {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return pub.N.BitLen()
	case *ecdsa.PublicKey:
		return pub.Curve.Params().BitSize
	case ed25519.PublicKey:
		return 256 // Ed25519 is equivalent to 256-bit
	default:
		return 0
	}
}

// getTLSVersion converts TLS version constant to string
func getTLSVersion(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("Unknown (%d)", version)
	}
}
