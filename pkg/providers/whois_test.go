package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/breachsignal_api/models"
)

type fakeWhoisFallback struct {
	rec    *models.WhoisRecord
	err    error
	domain string
}

func (f *fakeWhoisFallback) Lookup(_ context.Context, domain string) (*models.WhoisRecord, error) {
	f.domain = domain
	return f.rec, f.err
}

func TestWhoisClient_NetworkErrorHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewWhoisClient("SUPERSECRETKEY", srv.Client(), nil, WithBaseURL(base+"/whois"))
	_, err := c.Lookup(context.Background(), "example.com")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, SourceWhois, upstream.Source)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
}

func TestWhoisClient_APIResponse(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"WhoisRecord":{
			"registrar":{"name":"MarkMonitor Inc."},
			"createdDate":"1997-09-15T07:00:00+0000",
			"expiresDate":"2028-09-13T07:00:00+0000",
			"nameServers":{"hostNames":["ns1.google.com","ns2.google.com"]},
			"status":"clientDeleteProhibited clientTransferProhibited",
			"rawText":"Domain Name: google.com"
		}}`))
	}))
	defer srv.Close()

	c := NewWhoisClient("whois-key", srv.Client(), nil, WithBaseURL(srv.URL))
	rec, err := c.Lookup(context.Background(), "https://Google.com/")
	require.NoError(t, err)

	assert.Equal(t, []string{"whois-key"}, gotQuery["apiKey"])
	assert.Equal(t, []string{"google.com"}, gotQuery["domainName"])
	assert.Equal(t, []string{"JSON"}, gotQuery["outputFormat"])

	assert.Equal(t, &models.WhoisRecord{
		Registrar:   "MarkMonitor Inc.",
		CreatedDate: "1997-09-15T07:00:00+0000",
		ExpiresDate: "2028-09-13T07:00:00+0000",
		UpdatedDate: "Unknown",
		NameServers: []string{"ns1.google.com", "ns2.google.com"},
		Status:      "clientDeleteProhibited clientTransferProhibited",
		RawData:     "Domain Name: google.com",
	}, rec)
}

func TestWhoisClient_EmptyRecordDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"WhoisRecord":{}}`))
	}))
	defer srv.Close()

	rec, err := NewWhoisClient("k", srv.Client(), nil, WithBaseURL(srv.URL)).Lookup(context.Background(), "example.org")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", rec.Registrar)
	assert.Equal(t, "Unknown", rec.CreatedDate)
	assert.Equal(t, "Unknown", rec.Status)
	assert.Equal(t, []string{}, rec.NameServers)
	assert.Equal(t, "", rec.RawData)
}

func TestWhoisClient_APIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ErrorMessage":{"errorCode":"API_KEY_01","msg":"Invalid API key"}}`))
	}))
	defer srv.Close()

	_, err := NewWhoisClient("bad", srv.Client(), nil, WithBaseURL(srv.URL)).Lookup(context.Background(), "example.org")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "Invalid API key", upErr.Message)
}

func TestWhoisClient_FallbackWithoutKey(t *testing.T) {
	fb := &fakeWhoisFallback{rec: &models.WhoisRecord{Registrar: "Registry Direct"}}
	c := NewWhoisClient("", http.DefaultClient, fb)

	rec, err := c.Lookup(context.Background(), "WWW.Example.org")
	require.NoError(t, err)
	assert.Equal(t, "Registry Direct", rec.Registrar)
	assert.Equal(t, "www.example.org", fb.domain)

	fb.err = errors.New("connection refused")
	_, err = c.Lookup(context.Background(), "example.org")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, SourceWhois, upErr.Source)
}

func TestWhoisClient_Validation(t *testing.T) {
	c := NewWhoisClient("k", http.DefaultClient, nil)

	_, err := c.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = c.Lookup(context.Background(), "not a domain")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
