package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
)

const (
	DefaultHIBPBaseURL = "https://haveibeenpwned.com/api/v3"
	hibpUserAgent      = "BreachSignal.io"
)

// BreachClient looks up breaches for an email address.
type BreachClient struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	observer Observer
}

func NewBreachClient(apiKey string, client *http.Client, opts ...Option) *BreachClient {
	o := applyOptions(DefaultHIBPBaseURL, opts)
	return &BreachClient{baseURL: o.baseURL, apiKey: apiKey, client: client, observer: o.observer}
}

// Lookup returns every breach the address appears in, untruncated. An
// address the service has never seen yields an empty list.
func (c *BreachClient) Lookup(ctx context.Context, email string) (breaches []models.BreachRecord, err error) {
	defer func() { c.observer.ObserveUpstream(SourceBreach, err) }()

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email", ErrMissingInput)
	}

	endpoint := fmt.Sprintf("%s/breachedaccount/%s?truncateResponse=false", c.baseURL, url.PathEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build breach request: %w", err)
	}
	req.Header.Set("hibp-api-key", c.apiKey)
	req.Header.Set("user-agent", hibpUserAgent)

	res, err := send(c.client, req, SourceBreach)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNotFound {
		return []models.BreachRecord{}, nil
	}
	if !isSuccess(res.StatusCode) {
		return nil, statusError(SourceBreach, res)
	}

	if err := decode(SourceBreach, res.Body, &breaches); err != nil {
		return nil, err
	}
	if breaches == nil {
		breaches = []models.BreachRecord{}
	}
	return breaches, nil
}
