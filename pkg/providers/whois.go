package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/utils/domain"
)

const DefaultWhoisXMLBaseURL = "https://www.whoisxmlapi.com/whoisserver/WhoisService"

// WhoisFallback answers WHOIS queries without the API, straight from the
// registries.
type WhoisFallback interface {
	Lookup(ctx context.Context, domain string) (*models.WhoisRecord, error)
}

// WhoisClient fetches registration metadata through the WhoisXML API, or
// through the fallback when no API key is configured.
type WhoisClient struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	observer Observer
	fallback WhoisFallback
}

func NewWhoisClient(apiKey string, client *http.Client, fallback WhoisFallback, opts ...Option) *WhoisClient {
	o := applyOptions(DefaultWhoisXMLBaseURL, opts)
	return &WhoisClient{baseURL: o.baseURL, apiKey: apiKey, client: client, observer: o.observer, fallback: fallback}
}

type whoisXMLResponse struct {
	WhoisRecord *struct {
		Registrar *struct {
			Name string `json:"name"`
		} `json:"registrar"`
		RegistrarName string `json:"registrarName"`
		CreatedDate   string `json:"createdDate"`
		ExpiresDate   string `json:"expiresDate"`
		UpdatedDate   string `json:"updatedDate"`
		NameServers   *struct {
			HostNames []string `json:"hostNames"`
		} `json:"nameServers"`
		Status  string `json:"status"`
		RawText string `json:"rawText"`
	} `json:"WhoisRecord"`
	ErrorMessage *struct {
		Msg string `json:"msg"`
	} `json:"ErrorMessage"`
}

// Lookup returns registration metadata for name. Fields the registry left
// out are reported as "Unknown".
func (c *WhoisClient) Lookup(ctx context.Context, name string) (rec *models.WhoisRecord, err error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: domain", ErrMissingInput)
	}
	host, err := domain.Normalize(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	defer func() { c.observer.ObserveUpstream(SourceWhois, err) }()

	if c.apiKey == "" && c.fallback != nil {
		rec, err := c.fallback.Lookup(ctx, host)
		if err != nil {
			var werr *domain.WhoisError
			if errors.As(err, &werr) {
				return nil, &UpstreamError{Source: SourceWhois, Message: "registry query failed", Err: err}
			}
			return nil, &UpstreamError{Source: SourceWhois, Err: err}
		}
		return rec, nil
	}

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("domainName", host)
	q.Set("outputFormat", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build whois request: %w", err)
	}

	res, err := send(c.client, req, SourceWhois)
	if err != nil {
		return nil, err
	}
	if !isSuccess(res.StatusCode) {
		return nil, statusError(SourceWhois, res)
	}

	var body whoisXMLResponse
	if err := decode(SourceWhois, res.Body, &body); err != nil {
		return nil, err
	}
	if body.ErrorMessage != nil && body.ErrorMessage.Msg != "" {
		return nil, &UpstreamError{Source: SourceWhois, StatusCode: res.StatusCode, Message: body.ErrorMessage.Msg}
	}

	rec = &models.WhoisRecord{
		Registrar:   domain.Unknown,
		CreatedDate: domain.Unknown,
		ExpiresDate: domain.Unknown,
		UpdatedDate: domain.Unknown,
		NameServers: []string{},
		Status:      domain.Unknown,
	}
	w := body.WhoisRecord
	if w == nil {
		return rec, nil
	}
	switch {
	case w.Registrar != nil && w.Registrar.Name != "":
		rec.Registrar = w.Registrar.Name
	case w.RegistrarName != "":
		rec.Registrar = w.RegistrarName
	}
	rec.CreatedDate = orDefault(w.CreatedDate, domain.Unknown)
	rec.ExpiresDate = orDefault(w.ExpiresDate, domain.Unknown)
	rec.UpdatedDate = orDefault(w.UpdatedDate, domain.Unknown)
	rec.Status = orDefault(w.Status, domain.Unknown)
	rec.RawData = w.RawText
	if w.NameServers != nil && len(w.NameServers.HostNames) > 0 {
		rec.NameServers = w.NameServers.HostNames
	}
	return rec, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
