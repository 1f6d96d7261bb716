package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// MaxRedirects bounds how many hops ResolveRedirect follows.
const MaxRedirects = 10

// ErrTooManyRedirects is returned when a chain is longer than MaxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// ResolveRedirect follows HTTP redirects for initialURL and returns the final
// destination and the number of hops taken. The client's transport and
// timeout are reused; its cookie jar is not.
func ResolveRedirect(ctx context.Context, client *http.Client, initialURL string) (string, int, error) {
	c := *client
	c.Jar = nil
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	current, err := url.Parse(initialURL)
	if err != nil {
		return "", 0, fmt.Errorf("parse %s: %w", initialURL, err)
	}

	for hops := 0; ; hops++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current.String(), nil)
		if err != nil {
			return "", hops, fmt.Errorf("failed to create request for %s: %w", current, err)
		}
		req.Header.Set("User-Agent", GetRandomUserAgent())

		resp, err := c.Do(req)
		if err != nil {
			return current.String(), hops, fmt.Errorf("request failed for %s: %w", current, err)
		}
		resp.Body.Close()

		loc := resp.Header.Get("Location")
		if resp.StatusCode < 300 || resp.StatusCode > 399 || loc == "" {
			return current.String(), hops, nil
		}
		if hops == MaxRedirects {
			return current.String(), hops, fmt.Errorf("%w after %s", ErrTooManyRedirects, current)
		}
		next, err := current.Parse(loc)
		if err != nil {
			return current.String(), hops, fmt.Errorf("bad Location %q from %s: %w", loc, current, err)
		}
		current = next
	}
}
