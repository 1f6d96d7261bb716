// Package scan fans a unified lookup out to every source its request selects
// and merges the outcomes, successful or not, into one result.
package scan

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/providers"
)

// ErrEmptyRequest is returned when a request names no email, domain or ip.
var ErrEmptyRequest = errors.New("at least one of email, domain or ip is required")

// GenericFailure replaces upstream error messages unless debug is requested.
const GenericFailure = "lookup failed"

type BreachLookup interface {
	Lookup(ctx context.Context, email string) ([]models.BreachRecord, error)
}

type WhoisLookup interface {
	Lookup(ctx context.Context, domain string) (*models.WhoisRecord, error)
}

type IPReputationLookup interface {
	Lookup(ctx context.Context, ip string) (*models.IPReputationRecord, error)
}

type SiteSecurityScan interface {
	Scan(ctx context.Context, domain string) (*models.SiteSecurityRecord, error)
}

// Outcome is the settled result of one source: a value or an error.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Aggregator runs the lookups selected by a ScanRequest concurrently.
type Aggregator struct {
	breach       BreachLookup
	whois        WhoisLookup
	ipReputation IPReputationLookup
	siteSecurity SiteSecurityScan
	log          logger.Logger
}

func NewAggregator(breach BreachLookup, whois WhoisLookup, ip IPReputationLookup, site SiteSecurityScan, log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{breach: breach, whois: whois, ipReputation: ip, siteSecurity: site, log: log}
}

// Run waits for every triggered source to settle. A failing source never
// cancels the others; its error is reported under its name in Errors.
// Sources the request did not select are left nil.
func (a *Aggregator) Run(ctx context.Context, req models.ScanRequest) (*models.ScanResult, error) {
	if !req.HasTarget() {
		return nil, ErrEmptyRequest
	}

	var (
		g      errgroup.Group
		breach Outcome[[]models.BreachRecord]
		whois  Outcome[*models.WhoisRecord]
		ip     Outcome[*models.IPReputationRecord]
		site   Outcome[*models.SiteSecurityRecord]
	)

	if req.Email != "" {
		g.Go(func() error {
			breach.Value, breach.Err = a.breach.Lookup(ctx, req.Email)
			return nil
		})
	}
	if req.Domain != "" {
		g.Go(func() error {
			whois.Value, whois.Err = a.whois.Lookup(ctx, req.Domain)
			return nil
		})
		g.Go(func() error {
			site.Value, site.Err = a.siteSecurity.Scan(ctx, req.Domain)
			return nil
		})
	}
	if req.IP != "" {
		g.Go(func() error {
			ip.Value, ip.Err = a.ipReputation.Lookup(ctx, req.IP)
			return nil
		})
	}
	_ = g.Wait()

	result := &models.ScanResult{}
	errs := map[string]string{}
	fail := func(source string, err error) {
		a.log.Warn("scan source failed", logger.String("source", source), logger.Error(err))
		if req.Debug {
			errs[source] = err.Error()
		} else {
			errs[source] = GenericFailure
		}
	}

	if req.Email != "" {
		if breach.Err != nil {
			fail(providers.SourceBreach, breach.Err)
		} else {
			result.HIBP = &models.BreachSummary{BreachCount: len(breach.Value), Breaches: nonNil(breach.Value)}
		}
	}
	if req.Domain != "" {
		if whois.Err != nil {
			fail(providers.SourceWhois, whois.Err)
		} else {
			result.Whois = whois.Value
		}
		// The scanner only errors when both grading services failed.
		if site.Err != nil {
			fail(providers.SourceSiteSecurity, site.Err)
		} else if req.Debug {
			result.SiteSecurity = site.Value
		} else {
			result.SiteSecurity = RedactErrors(site.Value)
		}
	}
	if req.IP != "" {
		if ip.Err != nil {
			fail(providers.SourceIPReputation, ip.Err)
		} else {
			result.IPReputation = ip.Value
		}
	}

	if len(errs) > 0 {
		result.Errors = errs
	}
	return result, nil
}

// RedactErrors returns a copy of rec whose per-source errors read
// GenericFailure. rec itself is not modified.
func RedactErrors(rec *models.SiteSecurityRecord) *models.SiteSecurityRecord {
	if rec == nil || len(rec.Errors) == 0 {
		return rec
	}
	out := *rec
	out.Errors = make(map[string]string, len(rec.Errors))
	for source := range rec.Errors {
		out.Errors[source] = GenericFailure
	}
	return &out
}

func nonNil(b []models.BreachRecord) []models.BreachRecord {
	if b == nil {
		return []models.BreachRecord{}
	}
	return b
}
