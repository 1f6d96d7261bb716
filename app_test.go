package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/breachsignal_api/pkg/config"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := NewApp(context.Background(), config.Config{
		Env:             "test",
		LeadStore:       config.LeadStoreMemory,
		UpstreamTimeout: time.Second,
		DNSResolver:     "127.0.0.1:1",
	}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func serve(app *App, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestApp(t), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	app := newTestApp(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/check-breach"},
		{http.MethodPost, "/leads"},
		{http.MethodGet, "/ip-reputation"},
		{http.MethodPut, "/scan"},
	} {
		w := serve(app, tc.method, tc.path)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, tc.path)
		assert.JSONEq(t, `{"message":"Method not allowed"}`, w.Body.String(), tc.path)
	}
}

func TestNotFound(t *testing.T) {
	w := serve(newTestApp(t), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeadsStartEmpty(t *testing.T) {
	w := serve(newTestApp(t), http.MethodGet, "/leads")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"leads":[]}`, w.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	app := newTestApp(t)
	serve(app, http.MethodGet, "/health")

	w := serve(app, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `breachsignal_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestRunStopsOnCancel(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
