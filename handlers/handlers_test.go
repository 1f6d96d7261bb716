package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/breachcheck"
	"github.com/vit0-9/breachsignal_api/pkg/leads"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/providers"
	"github.com/vit0-9/breachsignal_api/pkg/report"
	"github.com/vit0-9/breachsignal_api/pkg/scan"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type fakeChecker struct {
	resp *models.BreachCheckResponse
	err  error
}

func (f fakeChecker) Check(context.Context, models.BreachCheckRequest) (*models.BreachCheckResponse, error) {
	return f.resp, f.err
}

type fakeIP struct {
	rec *models.IPReputationRecord
	err error
}

func (f fakeIP) Lookup(context.Context, string) (*models.IPReputationRecord, error) { return f.rec, f.err }

type fakeWhois struct {
	rec *models.WhoisRecord
	err error
}

func (f fakeWhois) Lookup(context.Context, string) (*models.WhoisRecord, error) { return f.rec, f.err }

type fakeSite struct {
	rec *models.SiteSecurityRecord
	err error
}

func (f fakeSite) Scan(context.Context, string) (*models.SiteSecurityRecord, error) { return f.rec, f.err }

type fakeVerifier struct{ err error }

func (f fakeVerifier) Verify(context.Context, string) error { return f.err }

func leadRouter(checker BreachChecker, store leads.Store) *gin.Engine {
	h := NewLeadHandlers(checker, store, logger.NewNop())
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(MethodNotAllowed)
	r.POST("/check-breach", h.CheckBreachHandler)
	r.GET("/leads", h.ListLeadsHandler)
	return r
}

func TestCheckBreachHandler(t *testing.T) {
	tests := []struct {
		name        string
		checker     fakeChecker
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "invalid email",
			checker:     fakeChecker{err: providers.ErrInvalidInput},
			body:        `{"email":""}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "A valid email is required",
		},
		{
			name:        "captcha rejected",
			checker:     fakeChecker{err: providers.ErrVerificationFailed},
			body:        `{"email":"jane@acme.io"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "reCAPTCHA verification failed",
		},
		{
			name: "airtable failure",
			checker: fakeChecker{err: errors.Join(breachcheck.ErrPersistence,
				&leads.AirtableError{StatusCode: 403, Type: "INVALID_PERMISSIONS", Message: "not authorized"})},
			body:        `{"email":"jane@acme.io"}`,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Airtable error: not authorized",
		},
		{
			name:        "other store failure",
			checker:     fakeChecker{err: errors.Join(breachcheck.ErrPersistence, errors.New("connection refused"))},
			body:        `{"email":"jane@acme.io"}`,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Lead store error:",
		},
		{
			name:        "upstream failure",
			checker:     fakeChecker{err: &providers.UpstreamError{Source: providers.SourceBreach, StatusCode: 401}},
			body:        `{"email":"jane@acme.io"}`,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An error occurred while checking for breaches",
		},
		{
			name:        "malformed body",
			body:        `{"email":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request payload",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, leadRouter(tt.checker, leads.NewMemoryStore()), http.MethodPost, "/check-breach", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, decodeBody(t, w)["message"], tt.wantMessage)
		})
	}
}

func TestCheckBreachHandler_Success(t *testing.T) {
	checker := fakeChecker{resp: &models.BreachCheckResponse{Success: true, BreachCount: 0, Breaches: []models.BreachRecord{}}}
	w := doJSON(t, leadRouter(checker, leads.NewMemoryStore()), http.MethodPost, "/check-breach", `{"email":"clean@example.com","recaptchaToken":"tok"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"breachCount":0,"breaches":[]}`, w.Body.String())
}

func TestCheckBreachHandler_MethodNotAllowed(t *testing.T) {
	w := doJSON(t, leadRouter(fakeChecker{}, leads.NewMemoryStore()), http.MethodGet, "/check-breach", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, w.Body.String())
}

func TestListLeadsHandler(t *testing.T) {
	store := leads.NewMemoryStore()
	ctx := context.Background()
	_, err := store.Append(ctx, models.LeadRecord{Email: "old@acme.io", Company: "Acme", Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = store.Append(ctx, models.LeadRecord{Email: "new@acme.io", Company: "Acme", Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = store.Append(ctx, models.LeadRecord{Email: "bob@other.org", Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	r := leadRouter(fakeChecker{}, store)

	w := doJSON(t, r, http.MethodGet, "/leads", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body models.LeadsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Leads, 3)
	assert.Equal(t, "new@acme.io", body.Leads[0].Email)
	assert.Equal(t, "bob@other.org", body.Leads[1].Email)
	assert.Equal(t, "old@acme.io", body.Leads[2].Email)

	w = doJSON(t, r, http.MethodGet, "/leads?q=ACME", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Leads, 2)

	w = doJSON(t, r, http.MethodGet, "/leads?q=nobody", "")
	assert.JSONEq(t, `{"leads":[]}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/leads", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func networkRouter(ip scan.IPReputationLookup, whois scan.WhoisLookup) *gin.Engine {
	h := NewNetworkIntelligenceHandlers(ip, whois, time.Second, logger.NewNop())
	r := gin.New()
	r.POST("/ip-reputation", h.IPReputationHandler)
	r.POST("/whois-lookup", h.WhoisLookupHandler)
	return r
}

func TestIPReputationHandler(t *testing.T) {
	score := 0
	rec := &models.IPReputationRecord{AbuseConfidenceScore: score, CountryCode: "US", ISP: "Google LLC", Domain: "google.com", Hostnames: []string{"dns.google"}}

	w := doJSON(t, networkRouter(fakeIP{rec: rec}, fakeWhois{}), http.MethodPost, "/ip-reputation", `{"ip":"8.8.8.8"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Google LLC", body["isp"])
	assert.Nil(t, body["lastReportedAt"])

	w = doJSON(t, networkRouter(fakeIP{}, fakeWhois{}), http.MethodPost, "/ip-reputation", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"IP address is required"}`, w.Body.String())

	w = doJSON(t, networkRouter(fakeIP{err: providers.ErrInvalidInput}, fakeWhois{}), http.MethodPost, "/ip-reputation", `{"ip":"999.1.1.1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	upstream := &providers.UpstreamError{Source: providers.SourceIPReputation, StatusCode: 429, Message: "Daily rate limit of 1000 requests exceeded"}
	w = doJSON(t, networkRouter(fakeIP{err: upstream}, fakeWhois{}), http.MethodPost, "/ip-reputation", `{"ip":"1.2.3.4"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Failed to fetch IP reputation", body["error"])
	assert.Contains(t, body["details"], "rate limit")
}

func TestWhoisLookupHandler(t *testing.T) {
	rec := &models.WhoisRecord{Registrar: "MarkMonitor Inc.", CreatedDate: "1997-09-15", ExpiresDate: "2028-09-14", UpdatedDate: "Unknown", NameServers: []string{"ns1.google.com"}, Status: "clientDeleteProhibited"}

	w := doJSON(t, networkRouter(fakeIP{}, fakeWhois{rec: rec}), http.MethodPost, "/whois-lookup", `{"domain":"google.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MarkMonitor Inc.", decodeBody(t, w)["registrar"])

	w = doJSON(t, networkRouter(fakeIP{}, fakeWhois{}), http.MethodPost, "/whois-lookup", `{"domain":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Domain is required"}`, w.Body.String())

	w = doJSON(t, networkRouter(fakeIP{}, fakeWhois{err: errors.New("dial tcp: timeout")}), http.MethodPost, "/whois-lookup", `{"domain":"google.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch WHOIS data", decodeBody(t, w)["error"])
}

func TestWhoisLookupHandler_DetailsOmitAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	whois := providers.NewWhoisClient("SUPERSECRETKEY", srv.Client(), nil, providers.WithBaseURL(base+"/whois"))
	w := doJSON(t, networkRouter(fakeIP{}, whois), http.MethodPost, "/whois-lookup", `{"domain":"example.com"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch WHOIS data", decodeBody(t, w)["error"])
	assert.NotContains(t, w.Body.String(), "SUPERSECRETKEY")
}

func siteRouter(site fakeSite) *gin.Engine {
	h := NewWebAnalysisHandlers(site, time.Second, logger.NewNop())
	r := gin.New()
	r.POST("/site-security-scan", h.SiteSecurityScanHandler)
	return r
}

func TestSiteSecurityScanHandler_StatusPolicy(t *testing.T) {
	full := &models.SiteSecurityRecord{
		SSLLabs:         json.RawMessage(`{"status":"READY"}`),
		SecurityHeaders: json.RawMessage(`{"grade":"A"}`),
	}
	w := doJSON(t, siteRouter(fakeSite{rec: full}), http.MethodPost, "/site-security-scan", `{"domain":"example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	partial := &models.SiteSecurityRecord{
		SSLLabs: json.RawMessage(`{"status":"READY"}`),
		Errors:  map[string]string{providers.SourceSecurityHeaders: "securityHeaders: status 403"},
	}
	w = doJSON(t, siteRouter(fakeSite{rec: partial}), http.MethodPost, "/site-security-scan", `{"domain":"example.com"}`)
	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.Contains(t, decodeBody(t, w)["errors"], providers.SourceSecurityHeaders)
	assert.Equal(t, "securityHeaders: status 403", partial.Errors[providers.SourceSecurityHeaders], "scanner record is left untouched")

	details := map[string]string{
		providers.SourceSSLLabs:         "sslLabs: status 529",
		providers.SourceSecurityHeaders: "securityHeaders: status 403",
	}
	failed := &providers.ScanFailedError{Sources: []string{providers.SourceSSLLabs, providers.SourceSecurityHeaders}, Details: details}

	w = doJSON(t, siteRouter(fakeSite{rec: &models.SiteSecurityRecord{}, err: failed}), http.MethodPost, "/site-security-scan", `{"domain":"example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Scan failed for: SSL Labs, Security Headers", body["error"])
	assert.NotContains(t, body, "details")

	w = doJSON(t, siteRouter(fakeSite{rec: &models.SiteSecurityRecord{}, err: failed}), http.MethodPost, "/site-security-scan", `{"domain":"example.com","debug":true}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeBody(t, w), "details")
}

func TestSiteSecurityScanHandler_ErrorDetailNeedsDebug(t *testing.T) {
	rec := &models.SiteSecurityRecord{
		SSLLabs: json.RawMessage(`{"status":"READY"}`),
		Errors: map[string]string{
			providers.SourceSecurityHeaders: "securityHeaders: status 403: <html>internal upstream body</html>",
			providers.SourceCertificate:     "certificate: dial tcp: i/o timeout",
		},
	}
	r := siteRouter(fakeSite{rec: rec})

	w := doJSON(t, r, http.MethodPost, "/site-security-scan", `{"domain":"example.com","debug":false}`)
	require.Equal(t, http.StatusMultiStatus, w.Code)
	assert.NotContains(t, w.Body.String(), "internal upstream body")
	assert.Equal(t, map[string]any{
		providers.SourceSecurityHeaders: scan.GenericFailure,
		providers.SourceCertificate:     scan.GenericFailure,
	}, decodeBody(t, w)["errors"])

	w = doJSON(t, r, http.MethodPost, "/site-security-scan", `{"domain":"example.com","debug":true}`)
	require.Equal(t, http.StatusMultiStatus, w.Code)
	assert.Contains(t, w.Body.String(), "internal upstream body")

	w = doJSON(t, siteRouter(fakeSite{err: errors.New("resolver exploded")}), http.MethodPost, "/site-security-scan", `{"domain":"example.com"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to scan site security"}`, w.Body.String())
}

func TestSiteSecurityScanHandler_MissingDomain(t *testing.T) {
	w := doJSON(t, siteRouter(fakeSite{}), http.MethodPost, "/site-security-scan", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Domain is required"}`, w.Body.String())
}

func scanRouter(agg ScanRunner, verifier providers.Verifier) *gin.Engine {
	h := NewScanHandlers(agg, verifier, time.Second, logger.NewNop())
	r := gin.New()
	r.POST("/scan", h.ScanHandler)
	return r
}

func TestScanHandler(t *testing.T) {
	rec := &models.WhoisRecord{Registrar: "Unknown"}
	agg := scan.NewAggregator(nil, fakeWhois{rec: rec}, fakeIP{err: errors.New("boom")}, fakeSite{rec: &models.SiteSecurityRecord{}}, nil)

	w := doJSON(t, scanRouter(agg, fakeVerifier{}), http.MethodPost, "/scan", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, scanRouter(agg, fakeVerifier{}), http.MethodPost, "/scan", `{"domain":"example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "whois")
	assert.Contains(t, body, "siteSecurity")
	assert.NotContains(t, body, "ipReputation")
	assert.NotContains(t, body, "hibp")
	assert.NotContains(t, body, "errors")

	w = doJSON(t, scanRouter(agg, fakeVerifier{}), http.MethodPost, "/scan", `{"ip":"1.2.3.4"}`)
	require.Equal(t, http.StatusMultiStatus, w.Code)
	assert.JSONEq(t, `{"errors":{"ipReputation":"lookup failed"}}`, w.Body.String())
}

func TestScanHandler_RedactsNestedSiteErrors(t *testing.T) {
	site := &models.SiteSecurityRecord{
		SSLLabs: json.RawMessage(`{"status":"READY"}`),
		Errors:  map[string]string{providers.SourceSecurityHeaders: "securityHeaders: status 403: <html>internal upstream body</html>"},
	}
	agg := scan.NewAggregator(nil, fakeWhois{rec: &models.WhoisRecord{}}, nil, fakeSite{rec: site}, nil)

	w := doJSON(t, scanRouter(agg, fakeVerifier{}), http.MethodPost, "/scan", `{"domain":"example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "internal upstream body")
	nested := decodeBody(t, w)["siteSecurity"].(map[string]any)
	assert.Equal(t, map[string]any{providers.SourceSecurityHeaders: scan.GenericFailure}, nested["errors"])

	w = doJSON(t, scanRouter(agg, fakeVerifier{}), http.MethodPost, "/scan", `{"domain":"example.com","debug":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "internal upstream body")
}

type countingRunner struct{ calls int }

func (c *countingRunner) Run(context.Context, models.ScanRequest) (*models.ScanResult, error) {
	c.calls++
	return &models.ScanResult{}, nil
}

func TestScanHandler_VerifiesCaptchaForEmail(t *testing.T) {
	runner := &countingRunner{}
	r := scanRouter(runner, fakeVerifier{err: providers.ErrVerificationFailed})

	w := doJSON(t, r, http.MethodPost, "/scan", `{"email":"jane@acme.io"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"reCAPTCHA verification failed"}`, w.Body.String())
	assert.Zero(t, runner.calls)

	w = doJSON(t, r, http.MethodPost, "/scan", `{"domain":"example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, runner.calls)
}

func reportRouter() *gin.Engine {
	h := NewReportHandlers(report.DefaultIdentity, "https://calendly.com/breachsignal", logger.NewNop())
	r := gin.New()
	r.POST("/breach-report", h.BreachReportHandler)
	return r
}

const reportBody = `{"email":"jane@acme.io","breaches":[{"Name":"Adobe","Title":"Adobe","Domain":"adobe.com","BreachDate":"2013-10-04","PwnCount":152445165,"Description":"<p>In October 2013...</p>","DataClasses":["Email addresses","Passwords"],"IsVerified":true}]}`

func TestBreachReportHandler(t *testing.T) {
	r := reportRouter()

	w := doJSON(t, r, http.MethodPost, "/breach-report", reportBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "Title: Adobe")
	assert.Contains(t, w.Body.String(), "Description: In October 2013...")

	w = doJSON(t, r, http.MethodPost, "/breach-report?format=html", reportBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "<h3")

	w = doJSON(t, r, http.MethodPost, "/breach-report?format=pdf", reportBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = doJSON(t, r, http.MethodPost, "/breach-report?format=docx", reportBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBreachReportHandler_HTMLStripsScripts(t *testing.T) {
	body := `{"breaches":[{"Title":"x","Description":"<script>alert(document.domain)</script><b onmouseover=\"alert(1)\">bold</b>"}]}`
	req := httptest.NewRequest(http.MethodPost, "/breach-report?format=html", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	reportRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script")
	assert.NotContains(t, w.Body.String(), "onmouseover")
	assert.Contains(t, w.Body.String(), "<b>bold</b>")
}

func TestRequestLogger_AssignsID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(logger.NewNop()))
	r.GET("/health", NewHealthHandler().HealthCheckHandler)

	w := doJSON(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "3f1c1f0e-8a0b-4d6c-9a57-2a3b9b1f6e10")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "3f1c1f0e-8a0b-4d6c-9a57-2a3b9b1f6e10", w.Header().Get(RequestIDHeader))
}
