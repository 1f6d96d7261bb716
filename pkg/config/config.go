// Package config loads service configuration from the environment.
//
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Lead store backends.
const (
	LeadStoreAirtable = "airtable"
	LeadStorePostgres = "postgres"
	LeadStoreMemory   = "memory"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	HIBPAPIKey      string
	AbuseIPDBAPIKey string
	WhoisAPIKey     string
	RecaptchaSecret string

	LeadStore      string
	AirtableAPIKey string
	AirtableBaseID string
	AirtableTable  string
	DatabaseURL    string

	ResendAPIKey string
	MailFrom     string

	// BaseURL is used to build absolute links embedded in emails.
	BaseURL    string
	BookingURL string

	MMDBCityPath string
	MMDBASNPath  string
	DNSResolver  string

	UpstreamTimeout time.Duration
}

// Load reads .env (if any) and the process environment. The returned error
// from a missing .env file is not fatal and is reported through dotenvErr so
// callers can log it.
func Load() (cfg Config, dotenvErr error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		dotenvErr = fmt.Errorf("load .env: %w", err)
	}

	cfg = Config{
		Env:             getenv("APP_ENV", "development"),
		Port:            getenv("PORT", "8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		HIBPAPIKey:      os.Getenv("HIBP_API_KEY"),
		AbuseIPDBAPIKey: os.Getenv("ABUSEIPDB_API_KEY"),
		WhoisAPIKey:     os.Getenv("WHOIS_API_KEY"),
		RecaptchaSecret: os.Getenv("RECAPTCHA_SECRET_KEY"),
		LeadStore:       strings.ToLower(os.Getenv("LEAD_STORE")),
		AirtableAPIKey:  os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID:  os.Getenv("AIRTABLE_BASE_ID"),
		AirtableTable:   getenv("AIRTABLE_TABLE", "Leads"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		MailFrom:        getenv("MAIL_FROM", "BreachSignal.io <noreply@breachsignal.io>"),
		BaseURL:         strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		BookingURL:      os.Getenv("BOOKING_URL"),
		MMDBCityPath:    os.Getenv("MMDB_CITY_PATH"),
		MMDBASNPath:     os.Getenv("MMDB_ASN_PATH"),
		DNSResolver:     os.Getenv("DNS_RESOLVER"),
		UpstreamTimeout: time.Duration(getenvInt("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
	}
	if cfg.LeadStore == "" {
		cfg.LeadStore = defaultLeadStore(cfg)
	}
	return cfg, dotenvErr
}

func defaultLeadStore(cfg Config) string {
	switch {
	case cfg.AirtableAPIKey != "" && cfg.AirtableBaseID != "":
		return LeadStoreAirtable
	case cfg.DatabaseURL != "":
		return LeadStorePostgres
	default:
		return LeadStoreMemory
	}
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	switch c.LeadStore {
	case LeadStoreAirtable:
		if c.AirtableAPIKey == "" || c.AirtableBaseID == "" {
			errs = append(errs, errors.New("LEAD_STORE=airtable requires AIRTABLE_API_KEY and AIRTABLE_BASE_ID"))
		}
	case LeadStorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("LEAD_STORE=postgres requires DATABASE_URL"))
		}
	case LeadStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown LEAD_STORE %q", c.LeadStore))
	}
	if c.IsProduction() && c.RecaptchaSecret == "" {
		errs = append(errs, errors.New("RECAPTCHA_SECRET_KEY is required in production"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}
