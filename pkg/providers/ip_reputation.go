package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/utils"
)

const (
	DefaultAbuseIPDBBaseURL = "https://api.abuseipdb.com/api/v2"
	abuseMaxAgeInDays       = "90"
)

// IPReputationClient fetches abuse reports for an address.
type IPReputationClient struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	observer Observer
	geo      *utils.GeoIP
}

// NewIPReputationClient builds the client. geo may be nil; when it holds a
// loaded database the result carries a geo block.
func NewIPReputationClient(apiKey string, client *http.Client, geo *utils.GeoIP, opts ...Option) *IPReputationClient {
	o := applyOptions(DefaultAbuseIPDBBaseURL, opts)
	return &IPReputationClient{baseURL: o.baseURL, apiKey: apiKey, client: client, observer: o.observer, geo: geo}
}

type abuseCheckResponse struct {
	Data struct {
		AbuseConfidenceScore int      `json:"abuseConfidenceScore"`
		LastReportedAt       *string  `json:"lastReportedAt"`
		TotalReports         int      `json:"totalReports"`
		CountryCode          string   `json:"countryCode"`
		ISP                  string   `json:"isp"`
		Domain               string   `json:"domain"`
		UsageType            string   `json:"usageType"`
		Hostnames            []string `json:"hostnames"`
	} `json:"data"`
}

// Lookup checks ip against reports from the last 90 days.
func (c *IPReputationClient) Lookup(ctx context.Context, ip string) (rec *models.IPReputationRecord, err error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return nil, fmt.Errorf("%w: ip", ErrMissingInput)
	}
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("%w: %q is not an IP address", ErrInvalidInput, ip)
	}

	defer func() { c.observer.ObserveUpstream(SourceIPReputation, err) }()

	q := url.Values{}
	q.Set("ipAddress", ip)
	q.Set("maxAgeInDays", abuseMaxAgeInDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/check?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build ip reputation request: %w", err)
	}
	req.Header.Set("Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := send(c.client, req, SourceIPReputation)
	if err != nil {
		return nil, err
	}
	if !isSuccess(res.StatusCode) {
		return nil, statusError(SourceIPReputation, res)
	}

	var body abuseCheckResponse
	if err := decode(SourceIPReputation, res.Body, &body); err != nil {
		return nil, err
	}

	d := body.Data
	rec = &models.IPReputationRecord{
		AbuseConfidenceScore: d.AbuseConfidenceScore,
		LastReportedAt:       d.LastReportedAt,
		TotalReports:         d.TotalReports,
		CountryCode:          d.CountryCode,
		ISP:                  d.ISP,
		Domain:               d.Domain,
		UsageType:            d.UsageType,
		Hostnames:            d.Hostnames,
	}
	if rec.Hostnames == nil {
		rec.Hostnames = []string{}
	}
	rec.Geo = c.geo.Lookup(ip)
	return rec, nil
}
