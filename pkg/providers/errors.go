// Package providers holds one adapter per third-party lookup service. Each
// adapter reshapes the upstream response into the API's own models.
package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vit0-9/breachsignal_api/pkg/utils"
)

// Source names used in error maps and metrics.
const (
	SourceBreach          = "breach"
	SourceIPReputation    = "ipReputation"
	SourceWhois           = "whois"
	SourceSiteSecurity    = "siteSecurity"
	SourceSSLLabs         = "sslLabs"
	SourceSecurityHeaders = "securityHeaders"
	SourceCertificate     = "certificate"
	SourceTechnologies    = "technologies"
	SourceHTTPSRedirect   = "httpsRedirect"
	SourceRecaptcha       = "recaptcha"
)

var (
	// ErrMissingInput is returned when the field an adapter needs is empty.
	ErrMissingInput = errors.New("missing required input")
	// ErrInvalidInput is returned when the field is present but malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrVerificationFailed is returned when a captcha token is rejected.
	ErrVerificationFailed = errors.New("reCAPTCHA verification failed")
)

// UpstreamError describes a failed call to a third-party service: a network
// failure, a non-2xx status or a body that could not be decoded.
type UpstreamError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Observer is notified of every upstream call. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveUpstream(source string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstream(string, error) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

// send performs req and converts transport failures into *UpstreamError.
func send(client *http.Client, req *http.Request, source string) (*utils.FetchResult, error) {
	res, err := utils.Do(client, req)
	if err != nil {
		return nil, &UpstreamError{Source: source, Message: "request failed", Err: err}
	}
	return res, nil
}

// statusError builds the error for a non-2xx response, keeping a short
// excerpt of the body for diagnostics.
func statusError(source string, res *utils.FetchResult) *UpstreamError {
	return &UpstreamError{Source: source, StatusCode: res.StatusCode, Message: excerpt(res.Body)}
}

func decode(source string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &UpstreamError{Source: source, Message: "malformed response", Err: err}
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func excerpt(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
