package models

import (
	"encoding/json"
	"time"
)

// SiteSecurityRequest is the body of POST /site-security-scan.
type SiteSecurityRequest struct {
	Domain string `json:"domain" example:"example.com"`
	Debug  bool   `json:"debug,omitempty"`
}

// DNSRecords holds email-authentication records found for a domain.
// A nil string means the record was not found.
type DNSRecords struct {
	SPF    *string `json:"spf"`
	DKIM   *string `json:"dkim"`
	DMARC  *string `json:"dmarc"`
	DNSSEC bool    `json:"dnssec"`
}

// SiteSecurityRecord combines the grading services with local checks.
// SSLLabs and SecurityHeaders are passed through untouched.
type SiteSecurityRecord struct {
	SSLLabs         json.RawMessage      `json:"sslLabs" swaggertype:"object"`
	SecurityHeaders json.RawMessage      `json:"securityHeaders" swaggertype:"object"`
	DNS             DNSRecords           `json:"dns"`
	Certificate     *CertificateSummary  `json:"certificate,omitempty"`
	HTTPSRedirect   *RedirectCheck       `json:"httpsRedirect,omitempty"`
	Technologies    []DetectedTechnology `json:"technologies,omitempty"`
	Errors          map[string]string    `json:"errors,omitempty"`
}

// RedirectCheck reports where a plain-HTTP visit to the site ends up.
type RedirectCheck struct {
	FinalURL         string `json:"finalUrl"`
	Hops             int    `json:"hops"`
	RedirectsToHTTPS bool   `json:"redirectsToHttps"`
}

// CertificateSummary describes the leaf certificate served on port 443.
type CertificateSummary struct {
	Issuer             string    `json:"issuer"`
	Subject            string    `json:"subject"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	DaysUntilExpiry    int       `json:"daysUntilExpiry"`
	SubjectAltNames    []string  `json:"subjectAltNames"`
	KeySize            int       `json:"keySize"`
	SignatureAlgorithm string    `json:"signatureAlgorithm"`
	TLSVersion         string    `json:"tlsVersion"`
	CipherSuite        string    `json:"cipherSuite"`
	IsSelfSigned       bool      `json:"isSelfSigned"`
	IsWildcard         bool      `json:"isWildcard"`
	ChainLength        int       `json:"chainLength"`
	ValidationErrors   []string  `json:"validationErrors,omitempty"`
}

// DetectedTechnology holds information about a single detected technology.
type DetectedTechnology struct {
	Name       string   `json:"name"`
	Version    string   `json:"version,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Website    string   `json:"website,omitempty"`
	CPE        string   `json:"cpe,omitempty"`
}
