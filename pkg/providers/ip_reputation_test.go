package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/breachsignal_api/models"
)

func TestIPReputationClient_GoogleDNSRoundTrip(t *testing.T) {
	upstreamData := `{
		"ipAddress":"8.8.8.8","isPublic":true,"ipVersion":4,"isWhitelisted":true,
		"abuseConfidenceScore":0,"countryCode":"US","usageType":"Content Delivery Network",
		"isp":"Google LLC","domain":"google.com","hostnames":["dns.google"],
		"isTor":false,"totalReports":0,"numDistinctUsers":0,"lastReportedAt":null
	}`

	var gotQuery map[string][]string
	var gotKey, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/check", r.URL.Path)
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("Key")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"data":` + upstreamData + `}`))
	}))
	defer srv.Close()

	c := NewIPReputationClient("abuse-key", srv.Client(), nil, WithBaseURL(srv.URL))
	rec, err := c.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)

	assert.Equal(t, []string{"8.8.8.8"}, gotQuery["ipAddress"])
	assert.Equal(t, []string{"90"}, gotQuery["maxAgeInDays"])
	assert.Equal(t, "abuse-key", gotKey)
	assert.Equal(t, "application/json", gotAccept)

	want := &models.IPReputationRecord{
		AbuseConfidenceScore: 0,
		LastReportedAt:       nil,
		TotalReports:         0,
		CountryCode:          "US",
		ISP:                  "Google LLC",
		Domain:               "google.com",
		UsageType:            "Content Delivery Network",
		Hostnames:            []string{"dns.google"},
	}
	assert.Equal(t, want, rec)

	// Every reshaped field carries the upstream value unchanged.
	var upstream map[string]any
	require.NoError(t, json.Unmarshal([]byte(upstreamData), &upstream))
	out, err := json.Marshal(rec)
	require.NoError(t, err)
	var reshaped map[string]any
	require.NoError(t, json.Unmarshal(out, &reshaped))
	for key, val := range reshaped {
		assert.Equal(t, upstream[key], val, key)
	}
}

func TestIPReputationClient_EmptyHostnames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"abuseConfidenceScore":55,"lastReportedAt":"2024-05-01T10:00:00+00:00","totalReports":12}}`))
	}))
	defer srv.Close()

	rec, err := NewIPReputationClient("k", srv.Client(), nil, WithBaseURL(srv.URL)).Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 55, rec.AbuseConfidenceScore)
	require.NotNil(t, rec.LastReportedAt)
	assert.Equal(t, "2024-05-01T10:00:00+00:00", *rec.LastReportedAt)
	assert.Equal(t, []string{}, rec.Hostnames)
	assert.Nil(t, rec.Geo)
}

func TestIPReputationClient_Validation(t *testing.T) {
	c := NewIPReputationClient("k", http.DefaultClient, nil)

	_, err := c.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = c.Lookup(context.Background(), "not-an-ip")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIPReputationClient_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"detail":"The ip address must be a valid IPv4 or IPv6 address"}]}`))
	}))
	defer srv.Close()

	_, err := NewIPReputationClient("k", srv.Client(), nil, WithBaseURL(srv.URL)).Lookup(context.Background(), "1.2.3.4")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusUnprocessableEntity, upErr.StatusCode)
	assert.Contains(t, upErr.Error(), "valid IPv4")
}
