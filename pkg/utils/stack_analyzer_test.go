package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func techNames(t *testing.T, s *StackAnalyzer, headers http.Header, body string) []string {
	t.Helper()
	techs, err := s.Fingerprint(headers, []byte(body))
	require.NoError(t, err)
	names := make([]string, 0, len(techs))
	for _, tech := range techs {
		names = append(names, tech.Name)
	}
	return names
}

func TestStackAnalyzer_FingerprintHeaders(t *testing.T) {
	s := NewStackAnalyzer(http.DefaultClient)
	names := techNames(t, s, http.Header{"Server": []string{"nginx"}}, "<html></html>")
	assert.Contains(t, names, "Nginx")
}

func TestStackAnalyzer_AnalyzeStack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "nginx")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>hi</title></head></html>"))
	}))
	defer srv.Close()

	s := NewStackAnalyzer(srv.Client())
	techs, err := s.AnalyzeStack(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotEmpty(t, techs)
}

func TestStackAnalyzer_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewStackAnalyzer(srv.Client()).AnalyzeStack(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
