package providers

import "strings"

type options struct {
	baseURL  string
	observer Observer
}

// Option configures an adapter.
type Option func(*options)

// WithBaseURL points an adapter at a different endpoint, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithObserver reports every upstream call to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

func applyOptions(defaultURL string, opts []Option) options {
	o := options{baseURL: defaultURL}
	for _, opt := range opts {
		opt(&o)
	}
	o.observer = observerOrNop(o.observer)
	return o
}
