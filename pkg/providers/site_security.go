package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/utils"
	"github.com/vit0-9/breachsignal_api/pkg/utils/domain"
)

const (
	DefaultSSLLabsURL         = "https://api.ssllabs.com/api/v3/analyze"
	DefaultSecurityHeadersURL = "https://securityheaders.com/"
)

// Display names used in the failure message.
var primaryLabels = map[string]string{
	SourceSSLLabs:         "SSL Labs",
	SourceSecurityHeaders: "Security Headers",
}

// DNSProber resolves the email-authentication records of a domain.
type DNSProber interface {
	Probe(ctx context.Context, domain string) models.DNSRecords
}

// CertificateInspector summarizes the TLS certificate a host serves.
type CertificateInspector func(ctx context.Context, host string, port int) (*models.CertificateSummary, error)

// RedirectResolver follows redirects from a URL and reports the final URL
// and the number of hops.
type RedirectResolver func(ctx context.Context, url string) (string, int, error)

// TechnologyDetector fingerprints the software behind a URL.
type TechnologyDetector interface {
	AnalyzeStack(ctx context.Context, targetURL string) ([]models.DetectedTechnology, error)
}

// SiteSecurityConfig wires the scanner's collaborators. Certificate,
// Redirects and Technologies are optional.
type SiteSecurityConfig struct {
	HTTPClient         *http.Client
	DNS                DNSProber
	Certificate        CertificateInspector
	Redirects          RedirectResolver
	Technologies       TechnologyDetector
	SSLLabsURL         string
	SecurityHeadersURL string
	Observer           Observer
}

// SiteSecurityScanner grades a domain with SSL Labs and securityheaders.com
// and adds local DNS, certificate and technology checks.
type SiteSecurityScanner struct {
	client       *http.Client
	dns          DNSProber
	certificate  CertificateInspector
	redirects    RedirectResolver
	technologies TechnologyDetector
	sslLabsURL   string
	headersURL   string
	observer     Observer
}

func NewSiteSecurityScanner(cfg SiteSecurityConfig) *SiteSecurityScanner {
	s := &SiteSecurityScanner{
		client:       cfg.HTTPClient,
		dns:          cfg.DNS,
		certificate:  cfg.Certificate,
		redirects:    cfg.Redirects,
		technologies: cfg.Technologies,
		sslLabsURL:   cfg.SSLLabsURL,
		headersURL:   cfg.SecurityHeadersURL,
		observer:     observerOrNop(cfg.Observer),
	}
	if s.sslLabsURL == "" {
		s.sslLabsURL = DefaultSSLLabsURL
	}
	if s.headersURL == "" {
		s.headersURL = DefaultSecurityHeadersURL
	}
	return s
}

// ScanFailedError is returned when both grading services failed.
type ScanFailedError struct {
	Sources []string
	Details map[string]string
}

func (e *ScanFailedError) Error() string {
	labels := make([]string, 0, len(e.Sources))
	for _, s := range e.Sources {
		labels = append(labels, primaryLabels[s])
	}
	return "Scan failed for: " + strings.Join(labels, ", ")
}

// FailedPrimaries lists the grading services that produced no data, in a
// fixed order.
func FailedPrimaries(rec *models.SiteSecurityRecord) []string {
	var failed []string
	if rec.SSLLabs == nil {
		failed = append(failed, SourceSSLLabs)
	}
	if rec.SecurityHeaders == nil {
		failed = append(failed, SourceSecurityHeaders)
	}
	return failed
}

// Scan runs every check for name. It fails only when neither grading
// service answered; any other problem is listed in the record's errors.
func (s *SiteSecurityScanner) Scan(ctx context.Context, name string) (*models.SiteSecurityRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: domain", ErrMissingInput)
	}
	host, err := domain.Normalize(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rec := &models.SiteSecurityRecord{}
	errs := map[string]string{}

	if raw, err := s.fetchSSLLabs(ctx, host); err != nil {
		errs[SourceSSLLabs] = err.Error()
	} else {
		rec.SSLLabs = raw
	}

	if raw, err := s.fetchSecurityHeaders(ctx, host); err != nil {
		errs[SourceSecurityHeaders] = err.Error()
	} else {
		rec.SecurityHeaders = raw
	}

	if s.dns != nil {
		rec.DNS = s.dns.Probe(ctx, host)
	}

	if s.certificate != nil {
		if cert, err := s.certificate(ctx, host, 443); err != nil {
			errs[SourceCertificate] = err.Error()
		} else {
			rec.Certificate = cert
		}
	}

	if s.redirects != nil {
		if final, hops, err := s.redirects(ctx, "http://"+host); err != nil {
			errs[SourceHTTPSRedirect] = err.Error()
		} else {
			rec.HTTPSRedirect = &models.RedirectCheck{
				FinalURL:         final,
				Hops:             hops,
				RedirectsToHTTPS: strings.HasPrefix(final, "https://"),
			}
		}
	}

	if s.technologies != nil {
		if techs, err := s.technologies.AnalyzeStack(ctx, "https://"+host); err != nil {
			errs[SourceTechnologies] = err.Error()
		} else {
			rec.Technologies = techs
		}
	}

	if len(errs) > 0 {
		rec.Errors = errs
	}

	if failed := FailedPrimaries(rec); len(failed) == len(primaryLabels) {
		return rec, &ScanFailedError{Sources: failed, Details: errs}
	}
	return rec, nil
}

func (s *SiteSecurityScanner) fetchSSLLabs(ctx context.Context, host string) (raw json.RawMessage, err error) {
	defer func() { s.observer.ObserveUpstream(SourceSSLLabs, err) }()

	q := url.Values{}
	q.Set("host", host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sslLabsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build ssl labs request: %w", err)
	}
	return s.fetchRaw(req, SourceSSLLabs)
}

func (s *SiteSecurityScanner) fetchSecurityHeaders(ctx context.Context, host string) (raw json.RawMessage, err error) {
	defer func() { s.observer.ObserveUpstream(SourceSecurityHeaders, err) }()

	q := url.Values{}
	q.Set("q", host)
	q.Set("followRedirects", "on")
	q.Set("hide", "on")
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.headersURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build security headers request: %w", err)
	}
	req.Header.Set("User-Agent", utils.BrowserUserAgent)
	return s.fetchRaw(req, SourceSecurityHeaders)
}

// fetchRaw returns the body untouched once it is known to be JSON.
func (s *SiteSecurityScanner) fetchRaw(req *http.Request, source string) (json.RawMessage, error) {
	res, err := send(s.client, req, source)
	if err != nil {
		return nil, err
	}
	if !isSuccess(res.StatusCode) {
		return nil, statusError(source, res)
	}
	if !json.Valid(res.Body) {
		return nil, &UpstreamError{Source: source, StatusCode: res.StatusCode, Message: "malformed response"}
	}
	return json.RawMessage(res.Body), nil
}
