package utils

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	wappalyze "github.com/projectdiscovery/wappalyzergo"

	"github.com/vit0-9/breachsignal_api/models"
)

const versionSeparator = ":"

// StackAnalyzer fingerprints the technologies behind a landing page. The
// fingerprint database is loaded on first use.
type StackAnalyzer struct {
	client *http.Client

	once    sync.Once
	wapp    *wappalyze.Wappalyze
	initErr error
}

// NewStackAnalyzer returns an analyzer that fetches pages with client.
func NewStackAnalyzer(client *http.Client) *StackAnalyzer {
	return &StackAnalyzer{client: client}
}

func (s *StackAnalyzer) init() error {
	s.once.Do(func() {
		s.wapp, s.initErr = wappalyze.New()
		if s.initErr != nil {
			s.initErr = fmt.Errorf("failed to initialize wappalyzer client: %w", s.initErr)
		}
	})
	return s.initErr
}

// AnalyzeStack fetches targetURL and fingerprints the response.
func (s *StackAnalyzer) AnalyzeStack(ctx context.Context, targetURL string) ([]models.DetectedTechnology, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	res, err := FetchURL(ctx, s.client, targetURL)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: received status code %d (%s)", targetURL, res.StatusCode, res.Status)
	}
	return s.Fingerprint(res.Headers, res.Body)
}

// Fingerprint matches headers and body against the fingerprint database.
// Results are sorted by name.
func (s *StackAnalyzer) Fingerprint(headers http.Header, body []byte) ([]models.DetectedTechnology, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	detected := s.wapp.FingerprintWithInfo(headers, body)

	results := make([]models.DetectedTechnology, 0, len(detected))
	for appKey, info := range detected {
		name, version := appKey, ""
		if before, after, ok := strings.Cut(appKey, versionSeparator); ok {
			name, version = before, after
		}
		results = append(results, models.DetectedTechnology{
			Name:       name,
			Version:    version,
			Categories: info.Categories,
			Website:    info.Website,
			CPE:        info.CPE,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}
