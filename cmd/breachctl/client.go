package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vit0-9/breachsignal_api/pkg/utils"
)

// apiClient talks to a running BreachSignal server.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{baseURL: strings.TrimRight(baseURL, "/"), http: utils.NewHTTPClient(timeout)}
}

// apiError is a non-2xx answer. Multi-status scan answers are not errors.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(e.Body), &body) == nil {
		if body.Error != "" {
			return fmt.Sprintf("server returned %d: %s", e.StatusCode, body.Error)
		}
		if body.Message != "" {
			return fmt.Sprintf("server returned %d: %s", e.StatusCode, body.Message)
		}
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

func (c *apiClient) postJSON(ctx context.Context, path string, query url.Values, payload any) (*utils.FetchResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, query), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *apiClient) get(ctx context.Context, path string, query url.Values) (*utils.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *apiClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *apiClient) do(req *http.Request) (*utils.FetchResult, error) {
	req.Header.Set("Accept", "application/json")
	res, err := utils.Do(c.http, req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &apiError{StatusCode: res.StatusCode, Body: string(res.Body)}
	}
	return res, nil
}
